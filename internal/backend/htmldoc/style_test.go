package htmldoc

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/roboco-io/typodiff/internal/typo"
)

func element(t *testing.T, src, tag string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	n := findElement(doc, tag)
	if n == nil {
		t.Fatalf("element %s not found", tag)
	}
	return n
}

func TestDeclarations(t *testing.T) {
	got := declarations(" Color : Red ; font-weight:bold !important;;bogus; margin: ")
	want := map[string]string{"color": "Red", "font-weight": "bold"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("declarations mismatch (-want +got):\n%s", diff)
	}
}

func TestLength(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"16px", 12, true},
		{"10pt", 10, true},
		{"1in", 72, true},
		{"2em", 20, true},
		{"1rem", 12, true},
		{"150%", 15, true},
		{"0", 0, true},
		{"auto", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := length(tt.in, 10)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("length(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestColor(t *testing.T) {
	tests := map[string]string{
		"#abc":              "#AABBCC",
		"#a1b2c3":           "#A1B2C3",
		"Navy":              "#000080",
		"rgb(255, 0, 16)":   "#FF0010",
		"rgb(300, 0, 0)":    "",
		"transparent":       "",
		"#12":               "",
		"hsl(0, 100%, 50%)": "",
	}
	for in, want := range tests {
		if got := color(in); got != want {
			t.Errorf("color(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestApplyCharStyle(t *testing.T) {
	base := typo.CharFormat{FontSize: 12, Foreground: "#000000"}

	tests := []struct {
		name string
		src  string
		tag  string
		want typo.CharFormat
	}{
		{
			name: "font element",
			src:  `<font face="Batang, serif" size="5" color="red">x</font>`,
			tag:  "font",
			want: typo.CharFormat{FontName: "Batang", FontSize: 18, Foreground: "#FF0000"},
		},
		{
			name: "span css",
			src:  `<span lang="en-US" style="font-family:'Noto Sans'; font-size:150%; font-weight:700; font-style:italic; text-decoration:underline; vertical-align:super">x</span>`,
			tag:  "span",
			want: typo.CharFormat{FontName: "Noto Sans", FontSize: 18, Foreground: "#000000", Bold: true, Italic: true, Underline: true, Superscript: true, Language: "en-US"},
		},
		{
			name: "sub",
			src:  `<sub>x</sub>`,
			tag:  "sub",
			want: typo.CharFormat{FontSize: 12, Foreground: "#000000", Subscript: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyCharStyle(element(t, tt.src, tt.tag), base)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("format mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBox(t *testing.T) {
	n := element(t, `<div dir="rtl" style="margin:1pt 2pt 3pt 4pt; padding:2pt; padding-left:5pt; border-width:1pt; border-color:#00f; background:#eee; color:blue">x</div>`, "div")

	want := typo.Box{
		FlowDirection:   typo.RightToLeft,
		Margin:          typo.Thickness{Left: 4, Top: 1, Right: 2, Bottom: 3},
		Padding:         typo.Thickness{Left: 5, Top: 2, Right: 2, Bottom: 2},
		BorderThickness: typo.Thickness{Left: 1, Top: 1, Right: 1, Bottom: 1},
		BorderColor:     "#0000FF",
		Background:      "#EEEEEE",
		Foreground:      "#0000FF",
	}
	if diff := cmp.Diff(want, box(n, 12)); diff != "" {
		t.Errorf("box mismatch (-want +got):\n%s", diff)
	}
}

func TestLineHeight(t *testing.T) {
	tests := map[string]float64{
		"":       0,
		"normal": 0,
		"1.5":    1.5,
		"120%":   1.2,
		"18pt":   1.5,
		"bogus":  0,
	}
	for in, want := range tests {
		if got := lineHeight(in, 12); got != want {
			t.Errorf("lineHeight(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestListMarker(t *testing.T) {
	tests := []struct {
		src  string
		tag  string
		want typo.ListType
	}{
		{`<ol><li>x</li></ol>`, "ol", typo.ListDecimal},
		{`<ul><li>x</li></ul>`, "ul", typo.ListBullet},
		{`<ol type="I"><li>x</li></ol>`, "ol", typo.ListUpperRoman},
		{`<ol style="list-style-type:lower-roman"><li>x</li></ol>`, "ol", typo.ListLowerRoman},
		{`<ul style="list-style-type:none"><li>x</li></ul>`, "ul", typo.ListNone},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := listMarker(element(t, tt.src, tt.tag)); got != tt.want {
				t.Errorf("listMarker = %s, want %s", got, tt.want)
			}
		})
	}
}
