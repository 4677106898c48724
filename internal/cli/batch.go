package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roboco-io/typodiff/internal/compare"
	"github.com/roboco-io/typodiff/internal/config"
	"github.com/roboco-io/typodiff/internal/diag"
	"github.com/roboco-io/typodiff/internal/engine"
	"github.com/roboco-io/typodiff/internal/logging"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var batchCmd = &cobra.Command{
	Use:   "batch <cases.yaml>",
	Short: "여러 문서 쌍 일괄 비교",
	Long: `YAML 파일에 나열된 문서 쌍을 차례로 비교합니다.

한 케이스에서 백엔드 오류가 발생해도 해당 케이스만 실패로 기록하고
나머지 케이스는 계속 진행합니다. 실행이 끝나면 실행 요약을 저장하고,
실패한 케이스가 있으면 0이 아닌 종료 코드를 반환합니다.

파일 형식:
  - name: 표-병합
    a: fixtures/table.hwp
    b: fixtures/table.hwpx
  - name: 목록-왕복
    a: fixtures/list.hwpx
    b: out/list.hwpx
    strategy: a-vs-a

상대 경로는 YAML 파일이 있는 디렉토리를 기준으로 합니다.

사용 예시:
  typodiff batch cases.yaml
  typodiff batch cases.yaml --log diff.log --summary summary.log`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var (
	batchStrategy string
	batchLog      string
	batchSummary  string
	batchP0Only   bool
)

func init() {
	batchCmd.Flags().StringVar(&batchStrategy, "strategy", "", "기본 비교 전략 (a-vs-b, a-vs-a)")
	batchCmd.Flags().StringVar(&batchLog, "log", "", "진단 로그 파일 경로 (기본: 표준 출력)")
	batchCmd.Flags().StringVar(&batchSummary, "summary", "", "실행 요약 파일 경로")
	batchCmd.Flags().BoolVar(&batchP0Only, "p0-only", false, "우선순위 0 차이만 기록")

	rootCmd.AddCommand(batchCmd)
}

// batchCase is one entry of a batch file.
type batchCase struct {
	Name     string `yaml:"name"`
	A        string `yaml:"a"`
	B        string `yaml:"b"`
	Strategy string `yaml:"strategy,omitempty"`
}

func loadCases(path string) ([]batchCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("케이스 파일 읽기 실패: %w", err)
	}

	var cases []batchCase
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("케이스 파일 파싱 실패: %w", err)
	}

	dir := filepath.Dir(path)
	seen := make(map[string]bool)
	for i := range cases {
		c := &cases[i]
		if c.A == "" || c.B == "" {
			return nil, fmt.Errorf("케이스 %d: a와 b 경로가 필요합니다", i+1)
		}
		if c.Name == "" {
			c.Name = filepath.Base(c.A)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("중복된 케이스 이름: %s", c.Name)
		}
		seen[c.Name] = true
		if c.Strategy != "" {
			if _, err := compare.ParseStrategy(c.Strategy); err != nil {
				return nil, fmt.Errorf("케이스 %s: %w", c.Name, err)
			}
		}
		c.A = resolvePath(dir, c.A)
		c.B = resolvePath(dir, c.B)
	}
	return cases, nil
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyDiagFlags(cmd, cfg, batchStrategy, batchLog, batchSummary, batchP0Only); err != nil {
		return err
	}

	cases, err := loadCases(args[0])
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		logging.Warn("batch_empty", "path", args[0])
	}

	log, err := diag.New(cfg.DiagConfig())
	if err != nil {
		return fmt.Errorf("진단 로그 생성 실패: %w", err)
	}
	defer log.Close()

	failed, err := runCases(newRunContext(), cfg, log, cases)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "케이스 %d개 중 %d개 실패\n", len(cases), failed)
	if failed > 0 {
		return fmt.Errorf("%d개 케이스 실패", failed)
	}
	return nil
}

// runCases runs every case against one log and flushes the run summary.
// It returns the number of failed cases.
func runCases(ctx context.Context, cfg *config.Config, log *diag.Log, cases []batchCase) (int, error) {
	reg, err := newRegistry()
	if err != nil {
		return 0, err
	}

	engines := make(map[string]*engine.Engine)
	engineFor := func(strategy string) (*engine.Engine, error) {
		if strategy == "" {
			strategy = cfg.Strategy
		}
		if e, ok := engines[strategy]; ok {
			return e, nil
		}
		caseCfg := *cfg
		caseCfg.Strategy = strategy
		opts, err := engineOptions(&caseCfg)
		if err != nil {
			return nil, err
		}
		e := engine.New(log, opts)
		engines[strategy] = e
		return e, nil
	}

	failed := 0
	for _, c := range cases {
		e, err := engineFor(c.Strategy)
		if err != nil {
			return failed, err
		}
		v, err := runCase(ctx, e, reg, c.Name, c.A, c.B)
		if err != nil {
			return failed, err
		}
		if !v.Passed() {
			failed++
		}
	}

	if err := log.Flush(); err != nil {
		return failed, fmt.Errorf("실행 요약 저장 실패: %w", err)
	}
	return failed, nil
}
