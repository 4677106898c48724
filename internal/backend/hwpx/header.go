package hwpx

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/roboco-io/typodiff/internal/typo"
)

// HWPUNIT는 1/7200인치, 즉 1pt = 100 HWPUNIT
const hwpUnitsPerPoint = 100.0

// Styles holds the char and para properties of header.xml keyed by id.
type Styles struct {
	chars      map[string]typo.CharFormat
	paras      map[string]ParaStyle
	numberings map[string]numbering
}

// ParaStyle is a resolved hh:paraPr.
type ParaStyle struct {
	Alignment       typo.Alignment
	FirstLineIndent float64 // points
	LineSpacing     float64
	ListIndent      float64 // points

	// 문단 머리: NONE, OUTLINE, NUMBER, BULLET
	Heading      string
	HeadingRef   string
	HeadingLevel int
}

// IsList reports whether the paragraph carries a number or bullet head.
func (p ParaStyle) IsList() bool {
	return p.Heading == "NUMBER" || p.Heading == "BULLET"
}

type numbering struct {
	start   int
	formats map[int]string // 수준(0부터) -> numFormat
}

// localName builds a namespace-agnostic descendant query.
func localName(name string) string {
	return fmt.Sprintf(".//*[local-name()='%s']", name)
}

// ParseStyles parses Contents/header.xml.
func ParseStyles(data []byte) (*Styles, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing header XML: %w", err)
	}

	s := &Styles{
		chars:      make(map[string]typo.CharFormat),
		paras:      make(map[string]ParaStyle),
		numberings: make(map[string]numbering),
	}

	// 한글 글꼴 목록
	var faces []string
	for _, ff := range xmlquery.Find(root, localName("fontface")) {
		if !strings.EqualFold(ff.SelectAttr("lang"), "HANGUL") {
			continue
		}
		for _, font := range xmlquery.Find(ff, localName("font")) {
			id := atoi(font.SelectAttr("id"), len(faces))
			for len(faces) <= id {
				faces = append(faces, "")
			}
			faces[id] = font.SelectAttr("face")
		}
	}

	for _, n := range xmlquery.Find(root, localName("charPr")) {
		s.chars[n.SelectAttr("id")] = charFormat(n, faces)
	}
	for _, n := range xmlquery.Find(root, localName("paraPr")) {
		s.paras[n.SelectAttr("id")] = paraStyle(n)
	}
	for _, n := range xmlquery.Find(root, localName("numbering")) {
		num := numbering{start: atoi(n.SelectAttr("start"), 1), formats: make(map[int]string)}
		for _, head := range xmlquery.Find(n, localName("paraHead")) {
			num.formats[atoi(head.SelectAttr("level"), 1)-1] = head.SelectAttr("numFormat")
		}
		s.numberings[n.SelectAttr("id")] = num
	}

	return s, nil
}

func charFormat(n *xmlquery.Node, faces []string) typo.CharFormat {
	f := typo.CharFormat{
		FontSize:   float64(atoi(n.SelectAttr("height"), 1000)) / 100.0,
		Foreground: strings.ToUpper(n.SelectAttr("textColor")),
		Language:   "ko-KR",
	}
	if ref := child(n, "fontRef"); ref != nil {
		if id := atoi(ref.SelectAttr("hangul"), -1); id >= 0 && id < len(faces) {
			f.FontName = faces[id]
		}
	}
	f.Bold = child(n, "bold") != nil
	f.Italic = child(n, "italic") != nil
	if u := child(n, "underline"); u != nil {
		f.Underline = !strings.EqualFold(u.SelectAttr("type"), "NONE")
	}
	f.Superscript = child(n, "supscript") != nil
	f.Subscript = child(n, "subscript") != nil
	return f
}

func paraStyle(n *xmlquery.Node) ParaStyle {
	p := ParaStyle{Alignment: typo.AlignJustify}

	if a := child(n, "align"); a != nil {
		switch strings.ToUpper(a.SelectAttr("horizontal")) {
		case "LEFT":
			p.Alignment = typo.AlignLeft
		case "RIGHT":
			p.Alignment = typo.AlignRight
		case "CENTER":
			p.Alignment = typo.AlignCenter
		}
	}
	if h := child(n, "heading"); h != nil {
		p.Heading = strings.ToUpper(h.SelectAttr("type"))
		p.HeadingRef = h.SelectAttr("idRef")
		p.HeadingLevel = atoi(h.SelectAttr("level"), 0)
	}
	// margin은 hp:switch 안에 case/default로 중복될 수 있어 첫 값을 쓴다
	if v := xmlquery.FindOne(n, localName("intent")); v != nil {
		p.FirstLineIndent = float64(atoi(v.SelectAttr("value"), 0)) / hwpUnitsPerPoint
	}
	if v := xmlquery.FindOne(n, localName("left")); v != nil {
		p.ListIndent = float64(atoi(v.SelectAttr("value"), 0)) / hwpUnitsPerPoint
	}
	if ls := xmlquery.FindOne(n, localName("lineSpacing")); ls != nil {
		p.LineSpacing = float64(atoi(ls.SelectAttr("value"), 0)) / 100.0
	}
	return p
}

// Char returns the char format of a charPrIDRef.
func (s *Styles) Char(id string) typo.CharFormat {
	return s.chars[id]
}

// Para returns the para style of a paraPrIDRef.
func (s *Styles) Para(id string) ParaStyle {
	if p, ok := s.paras[id]; ok {
		return p
	}
	return ParaStyle{Alignment: typo.AlignJustify}
}

// ListMarker resolves the marker type and start number of a list style.
func (s *Styles) ListMarker(p ParaStyle) (typo.ListType, int) {
	if p.Heading == "BULLET" {
		return typo.ListBullet, 1
	}
	num, ok := s.numberings[p.HeadingRef]
	if !ok {
		return typo.ListDecimal, 1
	}
	switch strings.ToUpper(num.formats[p.HeadingLevel]) {
	case "LATIN_CAPITAL":
		return typo.ListUpperLetter, num.start
	case "LATIN_SMALL":
		return typo.ListLowerLetter, num.start
	case "ROMAN_CAPITAL":
		return typo.ListUpperRoman, num.start
	case "ROMAN_SMALL":
		return typo.ListLowerRoman, num.start
	}
	return typo.ListDecimal, num.start
}

// child returns the first direct element child with the local name.
func child(n *xmlquery.Node, name string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			return c
		}
	}
	return nil
}

func atoi(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}
