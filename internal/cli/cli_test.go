package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clario/internal/config"
)

// recorder は RunFunc の呼び出しを記録する
type recorder struct {
	called bool
	cfg    *config.Config
	err    error
}

func (r *recorder) run(ctx context.Context, cfg *config.Config) error {
	r.called = true
	r.cfg = cfg
	return r.err
}

func TestExecuteHelp(t *testing.T) {
	for _, arg := range []string{"--help", "-h", "help"} {
		t.Run(arg, func(t *testing.T) {
			rec := &recorder{}
			var stdout, stderr bytes.Buffer

			code := Execute(context.Background(), []string{arg}, &stdout, &stderr, rec.run)
			if code != 0 {
				t.Fatalf("終了コードが一致しません: got %d, want 0 (stderr=%q)", code, stderr.String())
			}
			if rec.called {
				t.Error("ヘルプ表示でサーバーが起動されました")
			}
			if !strings.Contains(stdout.String(), "Port range: 1-65535 (default: 8000)") {
				t.Errorf("使用方法が表示されていません: %q", stdout.String())
			}
		})
	}
}

func TestExecuteInvalidPort(t *testing.T) {
	for _, arg := range []string{"0", "70000", "65536", "abc", "-1"} {
		t.Run(arg, func(t *testing.T) {
			rec := &recorder{}
			var stdout, stderr bytes.Buffer

			code := Execute(context.Background(), []string{"--dir", t.TempDir(), "--", arg}, &stdout, &stderr, rec.run)
			if code == 0 {
				t.Fatal("無効なポートで終了コードが 0 になりました")
			}
			if rec.called {
				t.Error("無効なポートでサーバーが起動されました")
			}
			if !strings.Contains(stderr.String(), config.ErrInvalidPort.Error()) {
				t.Errorf("ポート番号のエラーが出力されていません: %q", stderr.String())
			}
		})
	}
}

func TestExecuteValidPort(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want int
	}{
		{"デフォルト", nil, config.DefaultPort},
		{"最小", []string{"1"}, 1},
		{"指定", []string{"8123"}, 8123},
		{"最大", []string{"65535"}, 65535},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			rec := &recorder{}
			var stdout, stderr bytes.Buffer

			args := append([]string{"--dir", dir}, tc.args...)
			code := Execute(context.Background(), args, &stdout, &stderr, rec.run)
			if code != 0 {
				t.Fatalf("終了コードが一致しません: got %d (stderr=%q)", code, stderr.String())
			}
			if !rec.called {
				t.Fatal("サーバーが起動されませんでした")
			}
			if rec.cfg.Server.Port != tc.want {
				t.Errorf("ポートが一致しません: got %d, want %d", rec.cfg.Server.Port, tc.want)
			}
			if rec.cfg.Server.Host != "0.0.0.0" {
				t.Errorf("全インターフェースにバインドされません: got %s", rec.cfg.Server.Host)
			}
			if rec.cfg.Static.BaseDir != dir {
				t.Errorf("配信ディレクトリが一致しません: got %s, want %s", rec.cfg.Static.BaseDir, dir)
			}
			if !strings.Contains(stdout.String(), "Serving from: "+dir) {
				t.Errorf("バナーが表示されていません: %q", stdout.String())
			}
		})
	}
}

func TestExecuteTooManyArgs(t *testing.T) {
	rec := &recorder{}
	var stdout, stderr bytes.Buffer

	if code := Execute(context.Background(), []string{"8000", "9000"}, &stdout, &stderr, rec.run); code == 0 {
		t.Error("引数が多すぎても終了コードが 0 になりました")
	}
	if rec.called {
		t.Error("サーバーが起動されました")
	}
}

func TestExecuteMissingDir(t *testing.T) {
	rec := &recorder{}
	var stdout, stderr bytes.Buffer

	missing := filepath.Join(t.TempDir(), "missing")
	if code := Execute(context.Background(), []string{"--dir", missing}, &stdout, &stderr, rec.run); code == 0 {
		t.Error("存在しない配信ディレクトリで終了コードが 0 になりました")
	}
	if rec.called {
		t.Error("サーバーが起動されました")
	}
}

// TestExecuteRunError は起動失敗が非ゼロの終了コードになることをテストする
func TestExecuteRunError(t *testing.T) {
	rec := &recorder{err: errors.New("address already in use")}
	var stdout, stderr bytes.Buffer

	code := Execute(context.Background(), []string{"--dir", t.TempDir()}, &stdout, &stderr, rec.run)
	if code == 0 {
		t.Fatal("起動失敗で終了コードが 0 になりました")
	}
	if !strings.Contains(stderr.String(), "address already in use") {
		t.Errorf("エラーメッセージが出力されていません: %q", stderr.String())
	}
}

// TestExecuteConfigFile は設定ファイルとフラグの優先順位をテストする
func TestExecuteConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clario.yaml")
	content := "server:\n  host: 127.0.0.1\n  port: 9001\nstatic:\n  base_dir: " + dir + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("設定ファイルの作成に失敗しました: %v", err)
	}

	rec := &recorder{}
	var stdout, stderr bytes.Buffer

	code := Execute(context.Background(), []string{"9002", "--config", path, "--watch"}, &stdout, &stderr, rec.run)
	if code != 0 {
		t.Fatalf("終了コードが一致しません: got %d (stderr=%q)", code, stderr.String())
	}
	if rec.cfg.Server.Host != "127.0.0.1" {
		t.Errorf("設定ファイルのホストが反映されていません: got %s", rec.cfg.Server.Host)
	}
	if rec.cfg.Server.Port != 9002 {
		t.Errorf("位置引数のポートが優先されていません: got %d", rec.cfg.Server.Port)
	}
	if rec.cfg.Static.BaseDir != dir || !rec.cfg.Static.Watch {
		t.Errorf("配信設定が一致しません: %+v", rec.cfg.Static)
	}
}
