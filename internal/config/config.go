package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPort は位置引数が省略されたときのポート番号
const DefaultPort = 8000

// ErrInvalidPort はポート番号が 1-65535 の範囲外、または整数でない場合のエラー
var ErrInvalidPort = errors.New("port must be 1-65535")

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server ServerConfig `yaml:"server"`
	Static StaticConfig `yaml:"static"`
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string `yaml:"host"` // リッスンするホスト
	Port int    `yaml:"port"` // リッスンするポート番号

	// タイムアウト設定
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // 読み込みタイムアウト
	WriteTimeout time.Duration `yaml:"write_timeout"` // 書き込みタイムアウト
}

// StaticConfig は静的ファイル配信の設定
type StaticConfig struct {
	BaseDir string `yaml:"base_dir"` // 配信のルートとなるディレクトリ
	Index   string `yaml:"index"`    // "/" に対して返すファイル
	Watch   bool   `yaml:"watch"`    // フレームワークのデバッグモード
}

// Default はデフォルト設定を返す
// BaseDir は実行ファイルのあるディレクトリ
func Default() (*Config, error) {
	baseDir, err := ExecutableDir()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         DefaultPort,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Static: StaticConfig{
			BaseDir: baseDir,
			Index:   "index.html",
		},
	}, nil
}

// Load は設定を読み込む
// path が空でなければ YAML ファイルの値でデフォルトを上書きする
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("設定ファイルの解析に失敗: %w", err)
		}
	}

	return cfg, nil
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	// サーバー設定の検証
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Server.Port)
	}

	// 配信ディレクトリの検証
	if c.Static.BaseDir == "" {
		return errors.New("配信ディレクトリが指定されていません")
	}
	info, err := os.Stat(c.Static.BaseDir)
	if err != nil {
		return fmt.Errorf("配信ディレクトリを確認できません: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("配信ディレクトリではありません: %s", c.Static.BaseDir)
	}
	if c.Static.Index == "" || !filepath.IsLocal(c.Static.Index) {
		return fmt.Errorf("無効な index ファイル名: %q", c.Static.Index)
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ParsePort は位置引数のポート番号を解析する
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPort, s)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}
	return port, nil
}

// ExecutableDir は実行ファイルのあるディレクトリを返す
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("実行ファイルのパスを取得できません: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
