// Package cli はコマンドライン引数の解析と起動処理を提供する
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"clario/internal/config"
	"clario/internal/server"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// RunFunc は検証済みの設定でサーバーを動かす
type RunFunc func(ctx context.Context, cfg *config.Config) error

// Options はコマンドラインオプション
type Options struct {
	Host       string
	Dir        string
	ConfigFile string
	Watch      bool
}

// NewCommand はルートコマンドを作成する
func NewCommand(run RunFunc) *cobra.Command {
	opts := new(Options)

	command := &cobra.Command{
		Use:   "clario [port]",
		Short: "Clario development server",
		Long: `Clario development server

Serves the static site (index.html, pages/, js/, images/, config/)
located next to the executable.

Port range: 1-65535 (default: 8000)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && args[0] == "help" {
				return cmd.Help()
			}

			cfg, err := buildConfig(cmd, opts, args)
			if err != nil {
				return err
			}

			printBanner(cmd.OutOrStdout(), cfg)
			return run(cmd.Context(), cfg)
		},
	}

	command.Flags().StringVar(&opts.Host, "host", "", "Bind host. (default 0.0.0.0)")
	command.Flags().StringVarP(&opts.Dir, "dir", "d", "", "Serve this directory instead of the executable's directory.")
	command.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Use a YAML configuration file.")
	command.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Enable framework debug mode.")
	return command
}

// buildConfig は設定ファイルとコマンドライン引数から設定を組み立てる
// コマンドライン引数が設定ファイルより優先される
func buildConfig(cmd *cobra.Command, opts *Options, args []string) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	if len(args) == 1 {
		port, err := config.ParsePort(args[0])
		if err != nil {
			return nil, err
		}
		cfg.Server.Port = port
	}
	if opts.Host != "" {
		cfg.Server.Host = opts.Host
	}
	if opts.Dir != "" {
		dir, err := filepath.Abs(opts.Dir)
		if err != nil {
			return nil, fmt.Errorf("配信ディレクトリを解決できません: %w", err)
		}
		cfg.Static.BaseDir = dir
	}
	if cmd.Flags().Changed("watch") {
		cfg.Static.Watch = opts.Watch
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// printBanner は起動時のバナーを表示する
func printBanner(w io.Writer, cfg *config.Config) {
	title := color.New(color.FgCyan, color.Bold)
	title.Fprintf(w, "Clario development server: http://localhost:%d\n", cfg.Server.Port)
	fmt.Fprintf(w, "Listening on: %s\n", cfg.ServerAddress())
	fmt.Fprintf(w, "Serving from: %s\n", cfg.Static.BaseDir)
	if cfg.Static.Watch {
		fmt.Fprintln(w, "Watch mode:   "+color.GreenString("enabled"))
	} else {
		fmt.Fprintln(w, "Watch mode:   disabled")
	}
	fmt.Fprintln(w, "Ctrl+C to stop")
	fmt.Fprintln(w, strings.Repeat("=", 50))
}

// NewLogger はライフサイクルログ用のロガーを作成する
func NewLogger(out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger
}

// Serve はサーバーを起動し、停止するまでブロックする
func Serve(logger *logrus.Logger) RunFunc {
	return func(ctx context.Context, cfg *config.Config) error {
		if cfg.Static.Watch {
			logger.SetLevel(logrus.DebugLevel)
		}
		return server.New(cfg, logger).Start(ctx)
	}
}

// Execute はコマンドを実行し、プロセスの終了コードを返す
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer, run RunFunc) int {
	command := NewCommand(run)
	command.SetArgs(args)
	command.SetOut(stdout)
	command.SetErr(stderr)

	if err := command.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, color.RedString("Error:"), err)
		return 1
	}
	return 0
}
