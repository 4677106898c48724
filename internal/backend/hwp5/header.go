package hwp5

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// FileHeader는 HWP 5.x 파일 인식 정보
type FileHeader struct {
	Version Version
	Flags   uint32
}

// Version은 HWP 파일 버전 (예: 5.0.3.0)
type Version struct {
	Major    uint8
	Minor    uint8
	Build    uint8
	Revision uint8
}

// String returns version string like "5.0.3.0"
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// ParseFileHeader parses the FileHeader stream.
func ParseFileHeader(data []byte) (*FileHeader, error) {
	if len(data) < FileHeaderSize {
		return nil, fmt.Errorf("file header too small: %d bytes", len(data))
	}

	sig := string(bytes.TrimRight(data[0:32], "\x00"))
	if sig != Signature {
		return nil, fmt.Errorf("invalid HWP signature: %q", sig)
	}

	// 버전 포맷: [Revision][Build][Minor][Major]
	return &FileHeader{
		Version: Version{
			Revision: data[32],
			Build:    data[33],
			Minor:    data[34],
			Major:    data[35],
		},
		Flags: binary.LittleEndian.Uint32(data[36:40]),
	}, nil
}

// IsCompressed returns true if the streams are deflate-compressed.
func (h *FileHeader) IsCompressed() bool {
	return h.Flags&FlagCompressed != 0
}

// IsEncrypted returns true if the document is password protected.
func (h *FileHeader) IsEncrypted() bool {
	return h.Flags&FlagEncrypted != 0
}

// HasDRM returns true if the document has DRM protection.
func (h *FileHeader) HasDRM() bool {
	return h.Flags&FlagDRM != 0
}
