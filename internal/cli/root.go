package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/roboco-io/typodiff/internal/backend"
	"github.com/roboco-io/typodiff/internal/backend/htmldoc"
	"github.com/roboco-io/typodiff/internal/backend/hwp5"
	"github.com/roboco-io/typodiff/internal/backend/hwpx"
	"github.com/roboco-io/typodiff/internal/config"
	"github.com/roboco-io/typodiff/internal/logging"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "typodiff",
	Short: "리치 텍스트 문서 서식 비교 도구",
	Long: `typodiff는 같은 문서를 서로 다른 백엔드로 읽어 서식 요소 모델을 만들고,
두 모델의 텍스트와 서식 차이를 진단 로그로 기록합니다.

지원 형식:
  .hwp    한글 5.x 바이너리 문서 (범위 백엔드)
  .hwpx   한글 OWPML 문서 (트리 백엔드)
  .html   HTML 문서 (트리 백엔드)

사용 예시:
  typodiff compare 원본.hwp 변환본.hwpx
  typodiff batch cases.yaml --summary summary.log
  typodiff extract 문서.hwpx --pretty`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "버전 정보 표시",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "typodiff %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "설정 파일 경로 (기본: ~/.typodiff/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "상세 로그 출력")

	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newLoader() (*config.Loader, error) {
	if configPath != "" {
		return config.NewLoaderWithPath(configPath), nil
	}
	return config.NewLoader()
}

// loadConfig loads the effective configuration and initializes logging
// from it.
func loadConfig() (*config.Config, error) {
	loader, err := newLoader()
	if err != nil {
		return nil, fmt.Errorf("설정 로더 초기화 실패: %w", err)
	}
	cfg, err := loader.LoadEffective()
	if err != nil {
		return nil, fmt.Errorf("설정 로드 실패: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = logging.LevelDebug
	}
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	logging.InitLogger(os.Stderr, level, format)

	return cfg, nil
}

func newRegistry() (*backend.Registry, error) {
	r := backend.NewRegistry()
	openers := []backend.Opener{
		hwp5.NewOpener(),
		hwpx.NewOpener(),
		htmldoc.NewOpener(),
	}
	for _, o := range openers {
		if err := r.Register(o); err != nil {
			return nil, err
		}
	}
	logging.Debug("backends_registered", "formats", r.List())
	return r, nil
}

// newRunContext tags log records of one invocation with a fresh run ID.
func newRunContext() context.Context {
	return logging.WithRunID(context.Background(), uuid.NewString())
}

func openFile(r *backend.Registry, path string) (*backend.Handle, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("파일을 찾을 수 없습니다: %s", path)
	}
	if backend.DetectFormat(path) == backend.FormatUnknown {
		return nil, fmt.Errorf("지원하지 않는 파일 형식입니다: %s", path)
	}
	h, err := r.Open(path)
	if err != nil {
		return nil, fmt.Errorf("문서 파싱 실패: %w", err)
	}
	return h, nil
}
