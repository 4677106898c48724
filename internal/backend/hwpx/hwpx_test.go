package hwpx

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roboco-io/typodiff/internal/backend"
	"github.com/roboco-io/typodiff/internal/typo"
)

const testHeader = `<?xml version="1.0" encoding="UTF-8"?>
<hh:head xmlns:hh="http://www.hancom.co.kr/hwpml/2011/head" xmlns:hc="http://www.hancom.co.kr/hwpml/2011/core" xmlns:hp="http://www.hancom.co.kr/hwpml/2011/paragraph">
  <hh:refList>
    <hh:fontfaces>
      <hh:fontface lang="HANGUL" fontCnt="2">
        <hh:font id="0" face="함초롬바탕" type="TTF"/>
        <hh:font id="1" face="함초롬돋움" type="TTF"/>
      </hh:fontface>
      <hh:fontface lang="LATIN" fontCnt="1">
        <hh:font id="0" face="Times New Roman" type="TTF"/>
      </hh:fontface>
    </hh:fontfaces>
    <hh:charProperties>
      <hh:charPr id="0" height="1000" textColor="#000000">
        <hh:fontRef hangul="0" latin="0"/>
        <hh:underline type="NONE" shape="SOLID" color="#000000"/>
      </hh:charPr>
      <hh:charPr id="1" height="1200" textColor="#ff0000">
        <hh:fontRef hangul="1" latin="0"/>
        <hh:bold/>
        <hh:underline type="BOTTOM" shape="SOLID" color="#000000"/>
        <hh:supscript/>
      </hh:charPr>
    </hh:charProperties>
    <hh:paraProperties>
      <hh:paraPr id="0">
        <hh:align horizontal="LEFT" vertical="BASELINE"/>
        <hh:heading type="NONE" idRef="0" level="0"/>
        <hp:switch>
          <hp:case hp:required-namespace="http://www.hancom.co.kr/hwpml/2016/HwpUnitChar">
            <hh:margin>
              <hc:intent value="-1000" unit="HWPUNIT"/>
              <hc:left value="0" unit="HWPUNIT"/>
            </hh:margin>
            <hh:lineSpacing type="PERCENT" value="160" unit="HWPUNIT"/>
          </hp:case>
          <hp:default>
            <hh:margin>
              <hc:intent value="-2000" unit="HWPUNIT"/>
              <hc:left value="0" unit="HWPUNIT"/>
            </hh:margin>
            <hh:lineSpacing type="PERCENT" value="160" unit="HWPUNIT"/>
          </hp:default>
        </hp:switch>
      </hh:paraPr>
      <hh:paraPr id="1">
        <hh:align horizontal="JUSTIFY" vertical="BASELINE"/>
        <hh:heading type="NUMBER" idRef="1" level="0"/>
        <hh:margin><hc:intent value="0"/><hc:left value="2000"/></hh:margin>
      </hh:paraPr>
      <hh:paraPr id="2">
        <hh:align horizontal="JUSTIFY" vertical="BASELINE"/>
        <hh:heading type="NUMBER" idRef="1" level="1"/>
        <hh:margin><hc:intent value="0"/><hc:left value="4000"/></hh:margin>
      </hh:paraPr>
      <hh:paraPr id="3">
        <hh:align horizontal="CENTER" vertical="BASELINE"/>
        <hh:heading type="BULLET" idRef="1" level="0"/>
      </hh:paraPr>
    </hh:paraProperties>
    <hh:numberings>
      <hh:numbering id="1" start="3">
        <hh:paraHead level="1" numFormat="DIGIT"/>
        <hh:paraHead level="2" numFormat="LATIN_SMALL"/>
      </hh:numbering>
    </hh:numberings>
  </hh:refList>
</hh:head>`

const testSection = `<?xml version="1.0" encoding="UTF-8"?>
<hs:sec xmlns:hs="http://www.hancom.co.kr/hwpml/2011/section" xmlns:hp="http://www.hancom.co.kr/hwpml/2011/paragraph">
  <hp:p id="1" paraPrIDRef="0" styleIDRef="0">
    <hp:run charPrIDRef="0"><hp:t>Hello<hp:tab/>world</hp:t></hp:run>
    <hp:run charPrIDRef="1"><hp:t>!</hp:t></hp:run>
    <hp:run charPrIDRef="0">
      <hp:ctrl><hp:fieldBegin type="HYPERLINK"><hp:parameters><hp:stringParam name="Command">https\://example.com;1;0;0;</hp:stringParam></hp:parameters></hp:fieldBegin></hp:ctrl>
      <hp:t>link</hp:t>
      <hp:ctrl><hp:fieldEnd/></hp:ctrl>
    </hp:run>
  </hp:p>
  <hp:p id="2" paraPrIDRef="0">
    <hp:run charPrIDRef="0">
      <hp:tbl rowCnt="1" colCnt="2">
        <hp:tr>
          <hp:tc>
            <hp:subList><hp:p paraPrIDRef="0"><hp:run charPrIDRef="0"><hp:t>A</hp:t></hp:run></hp:p></hp:subList>
            <hp:cellAddr colAddr="0" rowAddr="0"/>
            <hp:cellSpan colSpan="2" rowSpan="1"/>
          </hp:tc>
          <hp:tc>
            <hp:subList><hp:p paraPrIDRef="0"><hp:run charPrIDRef="0"/></hp:p></hp:subList>
          </hp:tc>
        </hp:tr>
      </hp:tbl>
    </hp:run>
  </hp:p>
  <hp:p paraPrIDRef="1"><hp:run charPrIDRef="0"><hp:t>one</hp:t></hp:run></hp:p>
  <hp:p paraPrIDRef="2"><hp:run charPrIDRef="0"><hp:t>nested</hp:t></hp:run></hp:p>
  <hp:p paraPrIDRef="1"><hp:run charPrIDRef="0"><hp:t>two</hp:t></hp:run></hp:p>
  <hp:p paraPrIDRef="3"><hp:run charPrIDRef="0"><hp:t>dot</hp:t></hp:run></hp:p>
</hs:sec>`

const testManifest = `<?xml version="1.0" encoding="UTF-8"?>
<opf:package xmlns:opf="http://www.idpf.org/2007/opf/">
  <opf:manifest>
    <opf:item id="header" href="Contents/header.xml" media-type="application/xml"/>
    <opf:item id="section0" href="Contents/section0.xml" media-type="application/xml"/>
  </opf:manifest>
  <opf:spine>
    <opf:itemref idref="section0"/>
  </opf:spine>
</opf:package>`

func testFiles() map[string][]byte {
	return map[string][]byte{
		ManifestPath:              []byte(testManifest),
		HeaderPath:                []byte(testHeader),
		"Contents/section0.xml":   []byte(testSection),
		"Contents/masterpage.xml": []byte("<x/>"),
	}
}

var (
	plain = typo.CharFormat{FontName: "함초롬바탕", FontSize: 10, Foreground: "#000000", Language: "ko-KR"}
	fancy = typo.CharFormat{
		FontName:    "함초롬돋움",
		FontSize:    12,
		Foreground:  "#FF0000",
		Bold:        true,
		Underline:   true,
		Superscript: true,
		Language:    "ko-KR",
	}
)

func TestParseStyles(t *testing.T) {
	s, err := ParseStyles([]byte(testHeader))
	if err != nil {
		t.Fatalf("ParseStyles failed: %v", err)
	}

	if diff := cmp.Diff(fancy, s.Char("1")); diff != "" {
		t.Errorf("char 1 mismatch (-want +got):\n%s", diff)
	}

	p := s.Para("0")
	if p.Alignment != typo.AlignLeft || p.FirstLineIndent != -10 || p.LineSpacing != 1.6 {
		t.Errorf("para 0 = %+v", p)
	}
	if p.IsList() {
		t.Error("para 0 should not be a list")
	}
	if got := s.Para("missing").Alignment; got != typo.AlignJustify {
		t.Errorf("missing para alignment = %s, want justify", got)
	}

	tests := []struct {
		id         string
		wantMarker typo.ListType
		wantStart  int
	}{
		{"1", typo.ListDecimal, 3},
		{"2", typo.ListLowerLetter, 3},
		{"3", typo.ListBullet, 1},
	}
	for _, tt := range tests {
		t.Run("list "+tt.id, func(t *testing.T) {
			marker, start := s.ListMarker(s.Para(tt.id))
			if marker != tt.wantMarker || start != tt.wantStart {
				t.Errorf("ListMarker = %s/%d, want %s/%d", marker, start, tt.wantMarker, tt.wantStart)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tree, err := Decode(testFiles())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	cell := func(blocks ...backend.Node) backend.CellNode {
		return backend.CellNode{ColSpan: 1, RowSpan: 1, Blocks: blocks}
	}
	para := func(align typo.Alignment, indent float64, inlines ...backend.Inline) backend.Node {
		p := &backend.ParagraphNode{Alignment: align, FirstLineIndent: indent, Inlines: inlines}
		if align == typo.AlignLeft {
			p.LineSpacing = 1.6
		}
		return backend.Para(p)
	}

	wide := cell(para(typo.AlignLeft, -10, backend.Inline{Text: "A", Format: plain}))
	wide.ColSpan = 2

	nested := &backend.ListNode{Marker: typo.ListLowerLetter, Start: 3, Indent: 40, Items: []backend.ListItemNode{
		{Blocks: []backend.Node{para(typo.AlignJustify, 0, backend.Inline{Text: "nested", Format: plain})}},
	}}

	want := &backend.Tree{Blocks: []backend.Node{
		para(typo.AlignLeft, -10,
			backend.Inline{Text: "Hello\tworld", Format: plain},
			backend.Inline{Text: "!", Format: fancy},
			backend.Inline{Link: &backend.HyperlinkNode{
				URI:     "https://example.com",
				Inlines: []backend.Inline{{Text: "link", Format: plain}},
			}},
		),
		backend.TableOf(&backend.TableNode{RowGroups: []backend.RowGroupNode{{Rows: []backend.RowNode{{
			Cells: []backend.CellNode{wide, cell(para(typo.AlignLeft, -10))},
		}}}}}),
		backend.ListOf(&backend.ListNode{Marker: typo.ListDecimal, Start: 3, Indent: 20, Items: []backend.ListItemNode{
			{Blocks: []backend.Node{
				para(typo.AlignJustify, 0, backend.Inline{Text: "one", Format: plain}),
				backend.ListOf(nested),
			}},
			{Blocks: []backend.Node{para(typo.AlignJustify, 0, backend.Inline{Text: "two", Format: plain})}},
		}}),
		backend.ListOf(&backend.ListNode{Marker: typo.ListBullet, Start: 1, Items: []backend.ListItemNode{
			{Blocks: []backend.Node{para(typo.AlignCenter, 0, backend.Inline{Text: "dot", Format: plain})}},
		}}),
	}}

	if diff := cmp.Diff(want, tree); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string][]byte
	}{
		{"missing header", map[string][]byte{"Contents/section0.xml": []byte(testSection)}},
		{"no sections", map[string][]byte{HeaderPath: []byte(testHeader)}},
		{"bad header", map[string][]byte{HeaderPath: []byte("<head><a></b></head>"), "Contents/section0.xml": []byte(testSection)}},
		{"bad section", map[string][]byte{HeaderPath: []byte(testHeader), "Contents/section0.xml": []byte("<p/>")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.files); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestSectionPaths_WithoutManifest(t *testing.T) {
	files := map[string][]byte{
		"Contents/section10.xml": nil,
		"Contents/section2.xml":  nil,
		"Contents/header.xml":    nil,
		"Preview/section0.xml":   nil,
	}
	got, err := sectionPaths(files)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Contents/section2.xml", "Contents/section10.xml"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sectionPaths mismatch (-want +got):\n%s", diff)
	}
}

func TestOpener(t *testing.T) {
	o := NewOpener()
	if o.Format() != backend.FormatHWPX {
		t.Errorf("Format() = %v, want hwpx", o.Format())
	}

	path := filepath.Join(t.TempDir(), "doc.hwpx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, data := range testFiles() {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	h, err := o.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if h.IsRange() || h.Tree == nil || len(h.Tree.Blocks) != 4 {
		t.Errorf("unexpected handle: %+v", h)
	}

	if _, err := o.Open(filepath.Join(t.TempDir(), "missing.hwpx")); err == nil {
		t.Error("Expected error for missing file")
	}
}
