package hwp5

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"

	"github.com/roboco-io/typodiff/internal/backend"
	"github.com/roboco-io/typodiff/internal/typo"
)

// HWPUNIT는 1/7200인치, 즉 1pt = 100 HWPUNIT
const hwpUnitsPerPoint = 100.0

// DocInfo는 문서 정보 스트림에서 필요한 모양 정보
type DocInfo struct {
	FaceNames  []string
	CharShapes []*CharShape
	ParaShapes []*ParaShape
}

// CharShape는 글자 모양 (HWPTAG_CHAR_SHAPE)
type CharShape struct {
	FaceID     [7]uint16 // 언어별 글꼴 ID, 0번이 한글
	Height     int32     // 기준 크기 (100분의 1pt)
	Attributes uint32    // 속성 플래그
	TextColor  uint32    // 글자 색 (0x00BBGGRR)
}

// ParaShape는 문단 모양 (HWPTAG_PARA_SHAPE)
type ParaShape struct {
	Attributes1 uint32 // 속성 1
	LeftMargin  int32
	RightMargin int32
	Indent      int32 // 첫 줄 들여쓰기, 음수면 내어쓰기
	LineSpacing int32 // 줄 간격 (퍼센트)
	NumberingID uint16
}

// ParseDocInfo parses the decompressed DocInfo stream.
func ParseDocInfo(data []byte) (*DocInfo, error) {
	records, err := NewRecordReader(data).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("DocInfo 레코드 읽기 실패: %w", err)
	}

	info := &DocInfo{}
	for _, rec := range records {
		switch rec.TagID {
		case TagFaceName:
			info.FaceNames = append(info.FaceNames, parseFaceName(rec.Data))
		case TagCharShape:
			if cs := parseCharShape(rec.Data); cs != nil {
				info.CharShapes = append(info.CharShapes, cs)
			}
		case TagParaShape:
			if ps := parseParaShape(rec.Data); ps != nil {
				info.ParaShapes = append(info.ParaShapes, ps)
			}
		}
	}
	return info, nil
}

func parseFaceName(data []byte) string {
	// 속성 1바이트 + 이름 길이 2바이트 + UTF-16LE 이름
	if len(data) < 3 {
		return ""
	}
	n := int(binary.LittleEndian.Uint16(data[1:3]))
	if 3+n*2 > len(data) {
		return ""
	}
	return DecodeUTF16LE(data[3 : 3+n*2])
}

func parseCharShape(data []byte) *CharShape {
	if len(data) < 56 {
		return nil
	}

	cs := &CharShape{
		Height:     int32(binary.LittleEndian.Uint32(data[42:46])),
		Attributes: binary.LittleEndian.Uint32(data[46:50]),
		TextColor:  binary.LittleEndian.Uint32(data[52:56]),
	}
	for i := 0; i < 7; i++ {
		cs.FaceID[i] = binary.LittleEndian.Uint16(data[i*2:])
	}
	return cs
}

func parseParaShape(data []byte) *ParaShape {
	if len(data) < 32 {
		return nil
	}

	return &ParaShape{
		Attributes1: binary.LittleEndian.Uint32(data[0:4]),
		LeftMargin:  int32(binary.LittleEndian.Uint32(data[4:8])),
		RightMargin: int32(binary.LittleEndian.Uint32(data[8:12])),
		Indent:      int32(binary.LittleEndian.Uint32(data[12:16])),
		LineSpacing: int32(binary.LittleEndian.Uint32(data[24:28])),
		NumberingID: binary.LittleEndian.Uint16(data[30:32]),
	}
}

// IsItalic returns true if the character shape is italic.
func (cs *CharShape) IsItalic() bool {
	return cs.Attributes&0x01 != 0
}

// IsBold returns true if the character shape is bold.
func (cs *CharShape) IsBold() bool {
	return cs.Attributes&0x02 != 0
}

// IsUnderline returns true if the underline type (bits 2-3) is set.
func (cs *CharShape) IsUnderline() bool {
	return (cs.Attributes>>2)&0x03 != 0
}

// IsSuperscript returns true for superscript (bit 15).
func (cs *CharShape) IsSuperscript() bool {
	return cs.Attributes&(1<<15) != 0
}

// IsSubscript returns true for subscript (bit 16).
func (cs *CharShape) IsSubscript() bool {
	return cs.Attributes&(1<<16) != 0
}

// FontSizePt returns the font size in points.
func (cs *CharShape) FontSizePt() float64 {
	return float64(cs.Height) / 100.0
}

// Color formats a COLORREF (0x00BBGGRR) as #RRGGBB.
func Color(c uint32) string {
	return fmt.Sprintf("#%02X%02X%02X", c&0xFF, (c>>8)&0xFF, (c>>16)&0xFF)
}

// charFormat resolves a char shape ID into a backend format.
func (d *DocInfo) charFormat(id uint32) backend.CharFormat {
	if int(id) >= len(d.CharShapes) {
		return backend.CharFormat{}
	}
	cs := d.CharShapes[id]

	f := typo.CharFormat{
		FontSize:    cs.FontSizePt(),
		Foreground:  Color(cs.TextColor),
		Bold:        cs.IsBold(),
		Italic:      cs.IsItalic(),
		Underline:   cs.IsUnderline(),
		Subscript:   cs.IsSubscript(),
		Superscript: cs.IsSuperscript(),
		Language:    "ko-KR",
	}
	if face := int(cs.FaceID[0]); face < len(d.FaceNames) {
		f.FontName = d.FaceNames[face]
	}
	return backend.CharFormat{CharFormat: f}
}

// paraFormat resolves a para shape ID into a backend format.
func (d *DocInfo) paraFormat(id uint16) backend.ParaFormat {
	pf := backend.ParaFormat{Alignment: typo.AlignJustify}
	if int(id) >= len(d.ParaShapes) {
		return pf
	}
	ps := d.ParaShapes[id]

	// 속성 1: bit 2-4 정렬, bit 23-24 문단 머리 종류, bit 25-27 문단 수준
	switch (ps.Attributes1 >> 2) & 0x07 {
	case 1:
		pf.Alignment = typo.AlignLeft
	case 2:
		pf.Alignment = typo.AlignRight
	case 3:
		pf.Alignment = typo.AlignCenter
	default:
		pf.Alignment = typo.AlignJustify
	}
	pf.FirstLineIndent = float64(ps.Indent) / hwpUnitsPerPoint
	pf.LineSpacing = float64(ps.LineSpacing) / 100.0

	switch (ps.Attributes1 >> 23) & 0x03 {
	case 2:
		pf.ListType = typo.ListDecimal
	case 3:
		pf.ListType = typo.ListBullet
	}
	if pf.IsList() {
		pf.ListLevel = int((ps.Attributes1 >> 25) & 0x07)
		pf.ListStart = 1
		pf.ListIndent = float64(ps.LeftMargin) / hwpUnitsPerPoint
	}
	return pf
}

// DecodeUTF16LE decodes UTF-16LE bytes to string.
func DecodeUTF16LE(data []byte) string {
	u16s := make([]uint16, len(data)/2)
	for i := range u16s {
		u16s[i] = binary.LittleEndian.Uint16(data[i*2:])
	}
	runes := utf16.Decode(u16s)
	for len(runes) > 0 && runes[len(runes)-1] == 0 {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}
