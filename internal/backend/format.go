package backend

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a document file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatHWPX
	FormatHWP // HWP 5.x binary format
	FormatHTML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatHWPX:
		return "hwpx"
	case FormatHWP:
		return "hwp"
	case FormatHTML:
		return "html"
	default:
		return "unknown"
	}
}

// DetectFormat detects the document format from the file path.
func DetectFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".hwpx":
		return FormatHWPX
	case ".hwp", ".hwp5":
		return FormatHWP
	case ".html", ".htm", ".xhtml":
		return FormatHTML
	default:
		return FormatUnknown
	}
}

// DetectFormatFromReader detects the format by reading magic bytes.
func DetectFormatFromReader(r io.ReaderAt) (Format, error) {
	buf := make([]byte, 512)
	n, err := r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return FormatUnknown, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if n < 4 {
		return FormatUnknown, fmt.Errorf("file too small to detect format")
	}
	buf = buf[:n]

	// ZIP magic number (HWPX)
	if buf[0] == 'P' && buf[1] == 'K' {
		return FormatHWPX, nil
	}

	// OLE/CFBF magic number (HWP 5.x)
	if buf[0] == 0xD0 && buf[1] == 0xCF && buf[2] == 0x11 && buf[3] == 0xE0 {
		return FormatHWP, nil
	}

	// HWP Document File signature
	if string(buf[:3]) == "HWP" {
		return FormatHWP, nil
	}

	head := bytes.ToLower(bytes.TrimSpace(buf))
	if bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html")) {
		return FormatHTML, nil
	}

	return FormatUnknown, nil
}
