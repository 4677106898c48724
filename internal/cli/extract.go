package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/roboco-io/typodiff/internal/backend"
	"github.com/roboco-io/typodiff/internal/compact"
	"github.com/roboco-io/typodiff/internal/extract"
	"github.com/roboco-io/typodiff/internal/typo"
	"github.com/spf13/cobra"
)

var (
	extractOutput      string
	extractFormat      string
	extractRuns        bool
	extractPrettyPrint bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "문서에서 서식 요소 모델 추출",
	Long: `문서를 해당 백엔드로 읽어 서식 요소 모델을 추출합니다.

비교 직전과 같은 상태, 즉 압축(인접한 같은 서식 병합)까지 마친 모델을
출력합니다. 출력 형식은 JSON 또는 텍스트(요약)를 지원합니다.

예시:
  typodiff extract document.hwpx
  typodiff extract document.hwp -o model.json
  typodiff extract document.html --format text --runs`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "출력 파일 경로 (기본: stdout)")
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "json", "출력 형식 (json, text)")
	extractCmd.Flags().BoolVar(&extractRuns, "runs", false, "텍스트 출력에 서식 런 포함")
	extractCmd.Flags().BoolVar(&extractPrettyPrint, "pretty", true, "JSON 들여쓰기 적용")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := cfg.ExtractOptions()
	if err != nil {
		return err
	}

	reg, err := newRegistry()
	if err != nil {
		return err
	}
	h, err := openFile(reg, inputPath)
	if err != nil {
		return err
	}

	doc, err := extractModel(h, opts)
	if err != nil {
		return fmt.Errorf("모델 추출 실패: %w", err)
	}

	output, err := formatOutput(doc, extractFormat)
	if err != nil {
		return fmt.Errorf("출력 포맷팅 실패: %w", err)
	}

	if extractOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), output)
	} else {
		if err := os.WriteFile(extractOutput, []byte(output), 0644); err != nil {
			return fmt.Errorf("파일 저장 실패: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "모델 추출 완료: %s\n", extractOutput)
	}

	return nil
}

// extractModel runs the extractor matching the handle's backend kind and
// compacts the result.
func extractModel(h *backend.Handle, opts extract.Options) (*typo.Document, error) {
	var (
		doc *typo.Document
		err error
	)
	if h.IsRange() {
		doc, err = extract.FromRange(h.Range, opts)
	} else {
		doc, err = extract.FromTree(h.Tree, opts)
	}
	if err != nil {
		return nil, err
	}
	compact.Document(doc)
	return doc, nil
}

func formatOutput(doc *typo.Document, format string) (string, error) {
	switch format {
	case "json":
		var data []byte
		var err error
		if extractPrettyPrint {
			data, err = json.MarshalIndent(doc, "", "  ")
		} else {
			data, err = json.Marshal(doc)
		}
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "text":
		return formatAsText(doc, extractRuns), nil

	default:
		return "", fmt.Errorf("지원하지 않는 출력 형식: %s", format)
	}
}

func formatAsText(doc *typo.Document, runs bool) string {
	w := &textWriter{runs: runs}
	fmt.Fprintf(&w.sb, "백엔드: %s\n\n", doc.Origin)
	w.blocks(doc.Blocks, "")
	return w.sb.String()
}

type textWriter struct {
	sb   strings.Builder
	runs bool
}

func (w *textWriter) blocks(blocks []typo.Block, indent string) {
	for _, b := range blocks {
		switch b.Type {
		case typo.BlockTypeParagraph:
			if b.Paragraph != nil {
				w.paragraph(b.Paragraph, indent, "")
			}
		case typo.BlockTypeList:
			if b.List != nil {
				w.list(b.List, indent)
			}
		case typo.BlockTypeTable:
			if b.Table != nil {
				w.table(b.Table, indent)
			}
		}
	}
}

func (w *textWriter) paragraph(p *typo.Paragraph, indent, prefix string) {
	fmt.Fprintf(&w.sb, "%s%s%s\n", indent, prefix, visible(p.Text))
	if !w.runs {
		return
	}
	for _, ch := range typo.Channels {
		runs := p.ChannelRuns(ch)
		if len(runs) == 0 {
			continue
		}
		parts := make([]string, len(runs))
		for i, r := range runs {
			parts[i] = fmt.Sprintf("%q[%d,%d)", r.Value, r.Start, r.End)
		}
		fmt.Fprintf(&w.sb, "%s    %s: %s\n", indent, ch, strings.Join(parts, " "))
	}
	for _, h := range p.Hyperlinks {
		fmt.Fprintf(&w.sb, "%s    link: %s[%d,%d)\n", indent, h.Target, h.Start, h.End)
	}
}

func (w *textWriter) list(l *typo.List, indent string) {
	for i, item := range l.Items {
		prefix := "- "
		if l.Type != typo.ListBullet && l.Type != typo.ListNone {
			prefix = fmt.Sprintf("%d. ", l.Start+i)
		}
		for j, b := range item.Blocks {
			if j == 0 && b.Type == typo.BlockTypeParagraph && b.Paragraph != nil {
				w.paragraph(b.Paragraph, indent, prefix)
				continue
			}
			w.blocks([]typo.Block{b}, indent+"  ")
		}
	}
}

func (w *textWriter) table(t *typo.Table, indent string) {
	fmt.Fprintf(&w.sb, "%s[표 %d행]\n", indent, len(t.Rows))
	for i, row := range t.Rows {
		for j, cell := range row.Cells {
			fmt.Fprintf(&w.sb, "%s  (%d,%d)\n", indent, i+1, j+1)
			w.blocks(cell.Blocks, indent+"    ")
		}
	}
}

// visible replaces control characters that would garble a terminal.
func visible(s string) string {
	return strings.NewReplacer(
		"\r", `\r`,
		"\a", `\a`,
		"\f", `\f`,
		"\v", `\v`,
		"\t", `\t`,
		"\n", `\n`,
	).Replace(s)
}
