package backend

import (
	"bytes"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected Format
	}{
		{
			name:     "hwpx extension",
			path:     "document.hwpx",
			expected: FormatHWPX,
		},
		{
			name:     "HWPX uppercase",
			path:     "DOCUMENT.HWPX",
			expected: FormatHWPX,
		},
		{
			name:     "hwp extension",
			path:     "document.hwp",
			expected: FormatHWP,
		},
		{
			name:     "hwp5 extension",
			path:     "document.hwp5",
			expected: FormatHWP,
		},
		{
			name:     "html extension",
			path:     "round/trip.html",
			expected: FormatHTML,
		},
		{
			name:     "htm extension",
			path:     "page.HTM",
			expected: FormatHTML,
		},
		{
			name:     "unknown extension",
			path:     "document.docx",
			expected: FormatUnknown,
		},
		{
			name:     "no extension",
			path:     "document",
			expected: FormatUnknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectFormat(tc.path)
			if got != tc.expected {
				t.Errorf("DetectFormat(%q) = %v, want %v", tc.path, got, tc.expected)
			}
		})
	}
}

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format   Format
		expected string
	}{
		{FormatHWPX, "hwpx"},
		{FormatHWP, "hwp"},
		{FormatHTML, "html"},
		{FormatUnknown, "unknown"},
		{Format(999), "unknown"},
	}

	for _, tc := range tests {
		got := tc.format.String()
		if got != tc.expected {
			t.Errorf("Format(%d).String() = %q, want %q", int(tc.format), got, tc.expected)
		}
	}
}

func TestDetectFormatFromReader(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected Format
	}{
		{
			name:     "zip/hwpx format",
			data:     []byte{0x50, 0x4B, 0x03, 0x04, 0x00, 0x00, 0x00, 0x00},
			expected: FormatHWPX,
		},
		{
			name:     "ole container",
			data:     []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1},
			expected: FormatHWP,
		},
		{
			name:     "hwp5 signature",
			data:     append([]byte("HWP Document File"), make([]byte, 15)...),
			expected: FormatHWP,
		},
		{
			name:     "html doctype",
			data:     []byte("  <!DOCTYPE html><html><body></body></html>"),
			expected: FormatHTML,
		},
		{
			name:     "unknown format",
			data:     []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07},
			expected: FormatUnknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectFormatFromReader(bytes.NewReader(tc.data))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("DetectFormatFromReader() = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestDetectFormatFromReader_ShortData(t *testing.T) {
	_, err := DetectFormatFromReader(bytes.NewReader([]byte{0x50, 0x4B}))
	if err == nil {
		t.Error("expected error for short data")
	}
}
