package htmldoc

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/roboco-io/typodiff/internal/typo"
)

// defaultFontSize is the browser default of 16px, in points.
const defaultFontSize = 12.0

// declarations parses an inline style attribute into lower-cased
// property -> value pairs.
func declarations(style string) map[string]string {
	decls := make(map[string]string)
	for _, part := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
		if name != "" && value != "" {
			decls[name] = value
		}
	}
	return decls
}

// getAttr returns the value of an attribute, or "".
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func styleOf(n *html.Node) map[string]string {
	return declarations(getAttr(n, "style"))
}

// length converts a CSS length to points. em and % resolve against base.
func length(v string, base float64) (float64, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	units := []struct {
		suffix string
		factor float64
	}{
		{"px", 0.75},
		{"pt", 1},
		{"pc", 12},
		{"cm", 72 / 2.54},
		{"mm", 72 / 25.4},
		{"in", 72},
		{"em", base},
		{"rem", defaultFontSize},
	}
	if pct, ok := strings.CutSuffix(v, "%"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return 0, false
		}
		return f * base / 100, true
	}
	for _, u := range units {
		if num, ok := strings.CutSuffix(v, u.suffix); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
			if err != nil {
				continue
			}
			return f * u.factor, true
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// fontSizes maps <font size=N> to points.
var fontSizes = map[string]float64{
	"1": 7.5, "2": 10, "3": 12, "4": 13.5, "5": 18, "6": 24, "7": 36,
}

// headingSizes are browser default heading sizes in points.
var headingSizes = map[string]float64{
	"h1": 24, "h2": 18, "h3": 14, "h4": 12, "h5": 10, "h6": 8,
}

var namedColors = map[string]string{
	"black":  "#000000",
	"white":  "#FFFFFF",
	"red":    "#FF0000",
	"green":  "#008000",
	"lime":   "#00FF00",
	"blue":   "#0000FF",
	"yellow": "#FFFF00",
	"gray":   "#808080",
	"grey":   "#808080",
	"silver": "#C0C0C0",
	"maroon": "#800000",
	"navy":   "#000080",
	"purple": "#800080",
	"teal":   "#008080",
	"orange": "#FFA500",
}

// color normalizes a CSS color to #RRGGBB. Unknown values yield "".
func color(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if c, ok := namedColors[v]; ok {
		return c
	}
	if hex, ok := strings.CutPrefix(v, "#"); ok {
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) == 6 {
			if _, err := strconv.ParseUint(hex, 16, 32); err == nil {
				return "#" + strings.ToUpper(hex)
			}
		}
		return ""
	}
	if args, ok := strings.CutPrefix(v, "rgb("); ok {
		parts := strings.Split(strings.TrimSuffix(args, ")"), ",")
		if len(parts) != 3 {
			return ""
		}
		var rgb [3]int
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || n < 0 || n > 255 {
				return ""
			}
			rgb[i] = n
		}
		return fmt.Sprintf("#%02X%02X%02X", rgb[0], rgb[1], rgb[2])
	}
	return ""
}

// applyCharStyle applies an element's presentational tags and inline CSS
// to an inherited char format.
func applyCharStyle(n *html.Node, f typo.CharFormat) typo.CharFormat {
	switch n.Data {
	case "b", "strong", "th":
		f.Bold = true
	case "i", "em", "cite", "var":
		f.Italic = true
	case "u", "ins":
		f.Underline = true
	case "sub":
		f.Subscript = true
	case "sup":
		f.Superscript = true
	case "h1", "h2", "h3", "h4", "h5", "h6":
		f.Bold = true
		f.FontSize = headingSizes[n.Data]
	case "font":
		if face := getAttr(n, "face"); face != "" {
			f.FontName = fontFamily(face)
		}
		if size, ok := fontSizes[getAttr(n, "size")]; ok {
			f.FontSize = size
		}
		if c := color(getAttr(n, "color")); c != "" {
			f.Foreground = c
		}
	}
	if lang := getAttr(n, "lang"); lang != "" {
		f.Language = lang
	}

	decls := styleOf(n)
	if v, ok := decls["font-family"]; ok {
		f.FontName = fontFamily(v)
	}
	if v, ok := decls["font-size"]; ok {
		if pt, ok := length(v, f.FontSize); ok {
			f.FontSize = pt
		}
	}
	if c := color(decls["color"]); c != "" {
		f.Foreground = c
	}
	switch strings.ToLower(decls["font-weight"]) {
	case "bold", "bolder", "600", "700", "800", "900":
		f.Bold = true
	case "normal", "lighter", "100", "200", "300", "400", "500":
		f.Bold = false
	}
	switch strings.ToLower(decls["font-style"]) {
	case "italic", "oblique":
		f.Italic = true
	case "normal":
		f.Italic = false
	}
	if v, ok := decls["text-decoration"]; ok {
		f.Underline = strings.Contains(strings.ToLower(v), "underline")
	}
	switch strings.ToLower(decls["vertical-align"]) {
	case "sub":
		f.Subscript, f.Superscript = true, false
	case "super":
		f.Subscript, f.Superscript = false, true
	case "baseline":
		f.Subscript, f.Superscript = false, false
	}
	return f
}

// fontFamily returns the first family of a font-family list, unquoted.
func fontFamily(v string) string {
	first, _, _ := strings.Cut(v, ",")
	return strings.Trim(strings.TrimSpace(first), `"'`)
}

// box reads the box and paint attributes of a block element.
func box(n *html.Node, fontSize float64) typo.Box {
	var b typo.Box
	decls := styleOf(n)

	if strings.EqualFold(getAttr(n, "dir"), "rtl") || strings.EqualFold(decls["direction"], "rtl") {
		b.FlowDirection = typo.RightToLeft
	} else if strings.EqualFold(getAttr(n, "dir"), "ltr") || strings.EqualFold(decls["direction"], "ltr") {
		b.FlowDirection = typo.LeftToRight
	}

	b.Margin = thickness(decls, "margin", "", fontSize)
	b.Padding = thickness(decls, "padding", "", fontSize)
	b.BorderThickness = thickness(decls, "border", "-width", fontSize)

	if v, ok := decls["border"]; ok {
		for _, tok := range strings.Fields(v) {
			if pt, ok := length(tok, fontSize); ok {
				b.BorderThickness = typo.Thickness{Left: pt, Top: pt, Right: pt, Bottom: pt}
			} else if c := color(tok); c != "" {
				b.BorderColor = c
			}
		}
	}
	if c := color(decls["border-color"]); c != "" {
		b.BorderColor = c
	}
	if c := color(decls["background-color"]); c != "" {
		b.Background = c
	} else if c := color(decls["background"]); c != "" {
		b.Background = c
	} else if c := color(getAttr(n, "bgcolor")); c != "" {
		b.Background = c
	}
	if c := color(decls["color"]); c != "" {
		b.Foreground = c
	}
	return b
}

// thickness reads a 1-4 value shorthand (prop+suffix) and its per-side
// longhands (prop-side+suffix).
func thickness(decls map[string]string, prop, suffix string, base float64) typo.Thickness {
	var t typo.Thickness
	if v, ok := decls[prop+suffix]; ok {
		var vals []float64
		for _, tok := range strings.Fields(v) {
			if pt, ok := length(tok, base); ok {
				vals = append(vals, pt)
			}
		}
		switch len(vals) {
		case 1:
			t = typo.Thickness{Left: vals[0], Top: vals[0], Right: vals[0], Bottom: vals[0]}
		case 2:
			t = typo.Thickness{Left: vals[1], Top: vals[0], Right: vals[1], Bottom: vals[0]}
		case 3:
			t = typo.Thickness{Left: vals[1], Top: vals[0], Right: vals[1], Bottom: vals[2]}
		case 4:
			t = typo.Thickness{Left: vals[3], Top: vals[0], Right: vals[1], Bottom: vals[2]}
		}
	}
	sides := []struct {
		name string
		dst  *float64
	}{
		{"left", &t.Left},
		{"top", &t.Top},
		{"right", &t.Right},
		{"bottom", &t.Bottom},
	}
	for _, s := range sides {
		if v, ok := decls[prop+"-"+s.name+suffix]; ok {
			if pt, ok := length(v, base); ok {
				*s.dst = pt
			}
		}
	}
	return t
}

// alignment reads text-align or the legacy align attribute.
func alignment(n *html.Node, inherited typo.Alignment) typo.Alignment {
	v := styleOf(n)["text-align"]
	if v == "" {
		v = getAttr(n, "align")
	}
	switch strings.ToLower(v) {
	case "left", "start":
		return typo.AlignLeft
	case "right", "end":
		return typo.AlignRight
	case "center":
		return typo.AlignCenter
	case "justify":
		return typo.AlignJustify
	}
	return inherited
}

// lineHeight reads line-height as a multiple of the font size.
func lineHeight(v string, fontSize float64) float64 {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "" || v == "normal" {
		return 0
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	if pct, ok := strings.CutSuffix(v, "%"); ok {
		if f, err := strconv.ParseFloat(pct, 64); err == nil {
			return f / 100
		}
	}
	if pt, ok := length(v, fontSize); ok && fontSize > 0 {
		return pt / fontSize
	}
	return 0
}
