package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/roboco-io/typodiff/internal/backend"
	"github.com/roboco-io/typodiff/internal/config"
	"github.com/roboco-io/typodiff/internal/diag"
	"github.com/roboco-io/typodiff/internal/engine"
	"github.com/roboco-io/typodiff/internal/logging"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <a> <b>",
	Short: "두 문서의 서식 요소 비교",
	Long: `두 문서를 각각의 백엔드로 읽어 서식 요소 모델을 비교합니다.

비교 결과는 진단 로그에 "<케이스>,<차이>" 또는 "<케이스>,Pass" 형식으로
기록됩니다. 차이가 하나라도 있으면 0이 아닌 종료 코드를 반환합니다.

비교 전략:
  a-vs-b   서로 다른 백엔드 간 비교 (알려진 변환 차이 보정)
  a-vs-a   같은 형식 왕복 변환 비교 (박스 속성 포함)

사용 예시:
  typodiff compare 원본.hwp 변환본.hwpx
  typodiff compare 원본.hwpx 재저장.hwpx --strategy a-vs-a
  typodiff compare a.hwp b.html --case 표-병합 --log diff.log --p0-only`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

var (
	compareStrategy string
	compareCase     string
	compareLog      string
	compareSummary  string
	compareP0Only   bool
)

func init() {
	compareCmd.Flags().StringVar(&compareStrategy, "strategy", "", "비교 전략 (a-vs-b, a-vs-a)")
	compareCmd.Flags().StringVar(&compareCase, "case", "", "케이스 이름 (기본: 첫 번째 파일 이름)")
	compareCmd.Flags().StringVar(&compareLog, "log", "", "진단 로그 파일 경로 (기본: 표준 출력)")
	compareCmd.Flags().StringVar(&compareSummary, "summary", "", "실행 요약 파일 경로")
	compareCmd.Flags().BoolVar(&compareP0Only, "p0-only", false, "우선순위 0 차이만 기록")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyDiagFlags(cmd, cfg, compareStrategy, compareLog, compareSummary, compareP0Only); err != nil {
		return err
	}

	reg, err := newRegistry()
	if err != nil {
		return err
	}

	name := compareCase
	if name == "" {
		name = filepath.Base(args[0])
	}

	log, err := diag.New(cfg.DiagConfig())
	if err != nil {
		return fmt.Errorf("진단 로그 생성 실패: %w", err)
	}
	defer log.Close()

	opts, err := engineOptions(cfg)
	if err != nil {
		return err
	}

	ctx := newRunContext()
	v, err := runCase(ctx, engine.New(log, opts), reg, name, args[0], args[1])
	if err != nil {
		return err
	}
	if err := log.Flush(); err != nil {
		return fmt.Errorf("실행 요약 저장 실패: %w", err)
	}

	if !v.Passed() {
		return fmt.Errorf("%s: %d건의 차이 발견", name, v.Findings)
	}
	return nil
}

// applyDiagFlags overrides configuration values with the flags the user
// set explicitly.
func applyDiagFlags(cmd *cobra.Command, cfg *config.Config, strategy, logPath, summaryPath string, p0Only bool) error {
	flags := cmd.Flags()
	set := func(flag, key, value string) error {
		if !flags.Changed(flag) {
			return nil
		}
		if err := cfg.Set(key, value); err != nil {
			return fmt.Errorf("--%s: %w", flag, err)
		}
		return nil
	}

	if err := set("strategy", "strategy", strategy); err != nil {
		return err
	}
	if err := set("log", "diagnostics.log_path", logPath); err != nil {
		return err
	}
	if err := set("summary", "diagnostics.summary_path", summaryPath); err != nil {
		return err
	}
	return set("p0-only", "diagnostics.log_only_priority_zero", fmt.Sprint(p0Only))
}

func engineOptions(cfg *config.Config) (engine.Options, error) {
	compareOpts, err := cfg.CompareOptions()
	if err != nil {
		return engine.Options{}, err
	}
	extractOpts, err := cfg.ExtractOptions()
	if err != nil {
		return engine.Options{}, err
	}
	return engine.Options{Compare: compareOpts, Extract: extractOpts}, nil
}

// runCase opens both files and runs one case. A file that cannot be opened
// fails the case with a backend fault instead of aborting the run.
func runCase(ctx context.Context, e *engine.Engine, reg *backend.Registry, name, a, b string) (engine.Verdict, error) {
	v, err := e.Run(ctx, name, source(reg, a), source(reg, b))
	if err != nil {
		return v, fmt.Errorf("진단 로그 기록 실패: %w", err)
	}
	logging.InfoContext(ctx, "case_verdict",
		"case", name,
		"passed", v.Passed(),
		"findings", v.Findings,
		"abandoned", v.Abandoned,
	)
	return v, nil
}

func source(reg *backend.Registry, path string) engine.Source {
	h, err := openFile(reg, path)
	if err != nil {
		return engine.Failed(err)
	}
	return engine.FromHandle(h)
}
