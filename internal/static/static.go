package static

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"clario/internal/route"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotFound はファイルが存在しない、またはルートの外を指している場合のエラー
var ErrNotFound = errors.New("file not found")

// File は解決済みの静的ファイル
type File struct {
	ContentType string
	Data        []byte
}

// Resolver はベースディレクトリ配下のファイルを解決する
type Resolver struct {
	baseDir string
	index   string
}

// NewResolver は新しい Resolver を作成する
// baseDir は起動時に一度だけ決定され、以後変更されない
func NewResolver(baseDir, index string) *Resolver {
	return &Resolver{baseDir: baseDir, index: index}
}

// Dir はルートに対応するディレクトリの絶対パスを返す
func (r *Resolver) Dir(rt route.Route) string {
	return filepath.Join(r.baseDir, filepath.FromSlash(rt.Dir))
}

// Resolve はルートと要求パスからファイルを読み込む
func (r *Resolver) Resolve(rt route.Route, requested string) (*File, error) {
	name := requested
	if name == "" {
		// ルートディレクトリだけが index を持つ
		if rt.Dir != "" {
			return nil, ErrNotFound
		}
		name = r.index
	}

	name = filepath.FromSlash(name)
	if !filepath.IsLocal(name) {
		return nil, fmt.Errorf("%w: %s escapes %s", ErrNotFound, requested, rt.Prefix)
	}

	// os.Root はシンボリックリンク経由の脱出も拒否する
	root, err := os.OpenRoot(r.Dir(rt))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	defer root.Close()

	// FIFO などを開くとブロックするため、開く前に通常ファイルか確かめる
	info, err := root.Stat(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrNotFound, requested)
	}

	f, err := root.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	defer f.Close()

	// Stat と Open の間に差し替えられていないか確かめる
	info, err = f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrNotFound, requested)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("ファイルの読み込みに失敗 %s: %w", requested, err)
	}

	return &File{
		ContentType: ContentType(name, data),
		Data:        data,
	}, nil
}

// ContentType は拡張子からコンテンツタイプを決定する
// 拡張子が未知の場合は内容から判定する
func ContentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return mimetype.Detect(data).String()
}
