package hwp5

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
)

// Record는 HWP 5.x 레코드
// 구조: [TagID:10비트][Level:10비트][Size:12비트] + 데이터
type Record struct {
	TagID uint16
	Level uint16
	Data  []byte
}

// RecordReader reads records from a decompressed stream.
type RecordReader struct {
	data   []byte
	offset int
}

// NewRecordReader creates a new record reader from raw stream data.
func NewRecordReader(data []byte) *RecordReader {
	return &RecordReader{data: data}
}

// Read reads the next record.
func (r *RecordReader) Read() (*Record, error) {
	if r.offset >= len(r.data) {
		return nil, io.EOF
	}
	if r.offset+4 > len(r.data) {
		return nil, fmt.Errorf("incomplete record header at offset %d", r.offset)
	}

	header := binary.LittleEndian.Uint32(r.data[r.offset:])
	r.offset += 4

	rec := &Record{
		TagID: uint16(header & 0x3FF),
		Level: uint16((header >> 10) & 0x3FF),
	}

	// 0xFFF이면 실제 크기가 다음 4바이트에 있다
	size := int(header >> 20)
	if size == 0xFFF {
		if r.offset+4 > len(r.data) {
			return nil, fmt.Errorf("incomplete extended size at offset %d", r.offset)
		}
		size = int(binary.LittleEndian.Uint32(r.data[r.offset:]))
		r.offset += 4
	}

	if size < 0 || r.offset+size > len(r.data) {
		return nil, fmt.Errorf("incomplete record data at offset %d: need %d bytes, have %d",
			r.offset, size, len(r.data)-r.offset)
	}
	rec.Data = r.data[r.offset : r.offset+size]
	r.offset += size

	return rec, nil
}

// ReadAll reads all records from the stream.
func (r *RecordReader) ReadAll() ([]*Record, error) {
	var records []*Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

// DecompressStream inflates a stream. HWP 5.x writes raw deflate; some
// writers add a zlib header.
func DecompressStream(data []byte) ([]byte, error) {
	if len(data) >= 2 && data[0] == 0x78 {
		if zr, err := zlib.NewReader(bytes.NewReader(data)); err == nil {
			defer zr.Close()
			if out, err := io.ReadAll(zr); err == nil {
				return out, nil
			}
		}
	}

	fr := flate.NewReader(bytes.NewReader(data))
	defer fr.Close()

	out, err := io.ReadAll(fr)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress (tried zlib and deflate): %w", err)
	}
	return out, nil
}

// EncodeRecord serializes one record. Documents written by tests and
// fixtures go through it.
func EncodeRecord(tag, level uint16, data []byte) []byte {
	var buf bytes.Buffer
	size := len(data)
	header := uint32(tag&0x3FF) | uint32(level&0x3FF)<<10
	if size >= 0xFFF {
		header |= 0xFFF << 20
		_ = binary.Write(&buf, binary.LittleEndian, header)
		_ = binary.Write(&buf, binary.LittleEndian, uint32(size))
	} else {
		header |= uint32(size) << 20
		_ = binary.Write(&buf, binary.LittleEndian, header)
	}
	buf.Write(data)
	return buf.Bytes()
}
