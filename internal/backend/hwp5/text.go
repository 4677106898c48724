package hwp5

import (
	"encoding/binary"
	"unicode/utf16"
)

// paraText는 PARA_TEXT를 디코딩한 결과. 위치는 UTF-16 코드 단위 기준이며
// PARA_CHAR_SHAPE의 위치와 같은 좌표계다.
type paraText struct {
	runes []rune
	pos   []uint32 // 각 rune의 코드 단위 위치
}

// decodeParaText decodes a PARA_TEXT record. Extended and inline controls
// occupy 8 code units; char controls occupy one.
func decodeParaText(data []byte) paraText {
	var pt paraText
	n := len(data) / 2
	unit := func(i int) uint16 { return binary.LittleEndian.Uint16(data[i*2:]) }

	for i := 0; i < n; {
		c := unit(i)
		at := uint32(i)

		switch {
		case c == CharPara:
			i++
		case c == CharLine:
			pt.add('\n', at)
			i++
		case c == CharHyphen:
			pt.add('-', at)
			i++
		case c == CharNBSP || c == CharFixedWidthNBSP:
			pt.add(' ', at)
			i++
		case c == CharTab:
			// 탭은 인라인 컨트롤이라 8 코드 단위를 차지한다
			pt.add('\t', at)
			i += 8
		case isWideControl(c):
			// 컨트롤 본체는 CTRL_HEADER 레코드에서 읽는다
			i += 8
		case c < 0x20:
			i++
		case c >= 0xFFF9 && c <= 0xFFFB:
			// 스토리에서 표 행 구분자로 쓰이므로 본문에 싣지 않는다
			i++
		case utf16.IsSurrogate(rune(c)) && i+1 < n:
			pt.add(utf16.DecodeRune(rune(c), rune(unit(i+1))), at)
			i += 2
		default:
			pt.add(rune(c), at)
			i++
		}
	}
	return pt
}

func (pt *paraText) add(r rune, at uint32) {
	pt.runes = append(pt.runes, r)
	pt.pos = append(pt.pos, at)
}

// isWideControl reports whether a control code carries 14 bytes of payload.
// Extended: 1-3, 11-18, 21-23. Inline: 4-9, 19-20.
func isWideControl(c uint16) bool {
	return (c >= 1 && c <= 9) || (c >= 11 && c <= 23)
}

// ctrlID reads a 4-byte control ID. The bytes are stored reversed
// ("tbl " is written as " lbt").
func ctrlID(b []byte) string {
	if len(b) < 4 {
		return ""
	}
	return string([]byte{b[3], b[2], b[1], b[0]})
}

// shapeRun is one PARA_CHAR_SHAPE entry: from code unit pos on, shape id.
type shapeRun struct {
	pos uint32
	id  uint32
}

func decodeCharShapes(data []byte) []shapeRun {
	runs := make([]shapeRun, 0, len(data)/8)
	for i := 0; i+8 <= len(data); i += 8 {
		runs = append(runs, shapeRun{
			pos: binary.LittleEndian.Uint32(data[i:]),
			id:  binary.LittleEndian.Uint32(data[i+4:]),
		})
	}
	return runs
}

// segment is a span of paragraph text sharing one char shape.
type segment struct {
	text  string
	shape uint32
}

// segments splits the text at char shape boundaries.
func (pt *paraText) segments(shapes []shapeRun) []segment {
	var (
		out   []segment
		start int
	)
	shapeAt := func(pos uint32) uint32 {
		id := uint32(0)
		for _, s := range shapes {
			if s.pos > pos {
				break
			}
			id = s.id
		}
		return id
	}

	for i := 1; i <= len(pt.runes); i++ {
		if i < len(pt.runes) && shapeAt(pt.pos[i]) == shapeAt(pt.pos[start]) {
			continue
		}
		out = append(out, segment{
			text:  string(pt.runes[start:i]),
			shape: shapeAt(pt.pos[start]),
		})
		start = i
	}
	return out
}
