package hwp5

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/roboco-io/typodiff/internal/backend"
)

// node는 레벨로 묶인 레코드 트리의 한 노드
type node struct {
	rec      *Record
	children []*node
}

// buildTree nests records by level: a record is the child of the nearest
// preceding record with a lower level.
func buildTree(records []*Record) []*node {
	var (
		roots []*node
		stack []*node
	)
	for _, rec := range records {
		n := &node{rec: rec}
		for len(stack) > 0 && stack[len(stack)-1].rec.Level >= rec.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, n)
		} else {
			top := stack[len(stack)-1]
			top.children = append(top.children, n)
		}
		stack = append(stack, n)
	}
	return roots
}

// bodyWriter appends section content to a range document.
type bodyWriter struct {
	info *DocInfo
	doc  *backend.RangeDocument
}

// writeSection appends one decompressed section stream.
func (w *bodyWriter) writeSection(data []byte) error {
	records, err := NewRecordReader(data).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read section records: %w", err)
	}
	for _, n := range buildTree(records) {
		if n.rec.TagID == TagParaHeader {
			w.paragraph(n, false)
		}
	}
	return nil
}

// paragraph writes a paragraph. Tables anchored in the paragraph are
// written before its text; a paragraph holding only table anchors is
// dropped unless it closes a cell.
func (w *bodyWriter) paragraph(n *node, closesCell bool) {
	var (
		text   paraText
		shapes []shapeRun
		tables int
	)
	for _, c := range n.children {
		switch c.rec.TagID {
		case TagParaText:
			text = decodeParaText(c.rec.Data)
		case TagParaCharShape:
			shapes = decodeCharShapes(c.rec.Data)
		case TagCtrlHeader:
			if len(c.rec.Data) >= 4 && ctrlID(c.rec.Data[0:4]) == CtrlTable {
				w.table(c)
				tables++
			}
		}
	}

	if tables > 0 && len(text.runes) == 0 && !closesCell {
		return
	}

	for _, seg := range text.segments(shapes) {
		w.doc.Append(seg.text, w.info.charFormat(seg.shape))
	}

	pf := w.info.paraFormat(paraShapeID(n.rec.Data))
	if closesCell {
		w.doc.EndCell(pf)
	} else {
		w.doc.EndParagraph(pf)
	}
}

// paraShapeID reads the para shape reference of a PARA_HEADER.
// 구조: [0:4] 글자 수, [4:8] 컨트롤 마스크, [8:10] 문단 모양 ID
func paraShapeID(data []byte) uint16 {
	if len(data) < 10 {
		return 0
	}
	return binary.LittleEndian.Uint16(data[8:10])
}

// cell은 LIST_HEADER 하나와 뒤따르는 같은 레벨의 문단들
type cell struct {
	row, col int
	paras    []*node
}

// table writes a table control as delimited rows. A cell's paragraphs are
// siblings following its LIST_HEADER.
func (w *bodyWriter) table(ctrl *node) {
	var cells []*cell
	for _, c := range ctrl.children {
		switch c.rec.TagID {
		case TagListHeader:
			row, col := cellAddress(c.rec.Data)
			cells = append(cells, &cell{row: row, col: col})
		case TagParaHeader:
			if len(cells) > 0 {
				last := cells[len(cells)-1]
				last.paras = append(last.paras, c)
			}
		}
	}
	if len(cells) == 0 {
		return
	}

	sort.SliceStable(cells, func(i, j int) bool {
		if cells[i].row != cells[j].row {
			return cells[i].row < cells[j].row
		}
		return cells[i].col < cells[j].col
	})

	for i := 0; i < len(cells); {
		row := cells[i].row
		w.doc.StartRow()
		for ; i < len(cells) && cells[i].row == row; i++ {
			w.cell(cells[i])
		}
		w.doc.EndRow()
	}
}

func (w *bodyWriter) cell(c *cell) {
	if len(c.paras) == 0 {
		w.doc.EndCell(backend.ParaFormat{})
		return
	}
	for k, p := range c.paras {
		w.paragraph(p, k == len(c.paras)-1)
	}
}

// cellAddress reads the column and row address of a cell LIST_HEADER.
// 구조: [0:8] 리스트 헤더, [8:10] 열 주소, [10:12] 행 주소, [12:14] 열 병합, [14:16] 행 병합
func cellAddress(data []byte) (row, col int) {
	if len(data) < 12 {
		return 0, 0
	}
	col = int(binary.LittleEndian.Uint16(data[8:10]))
	row = int(binary.LittleEndian.Uint16(data[10:12]))
	return row, col
}
