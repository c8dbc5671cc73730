// Package route は URL プレフィックスから配信ディレクトリへの対応表を提供する
package route

import (
	"sort"
	"strings"
)

// Route は URL プレフィックスとベースディレクトリ配下のサブディレクトリの組
type Route struct {
	Prefix string // 末尾が "/" の URL プレフィックス
	Dir    string // ベースディレクトリからの相対パス ("" はルート)
}

// Table は最長一致で評価されるルート表
type Table struct {
	routes []Route
}

// NewTable はルート表を作成する
// 登録順に依存しないよう、プレフィックスの長い順に並べ替えて保持する
func NewTable(routes ...Route) *Table {
	sorted := make([]Route, len(routes))
	copy(sorted, routes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return &Table{routes: sorted}
}

// Default は開発サーバーの固定ルート表を返す
func Default() *Table {
	return NewTable(
		Route{Prefix: "/", Dir: ""},
		Route{Prefix: "/pages/", Dir: "pages"},
		Route{Prefix: "/js/", Dir: "js"},
		Route{Prefix: "/images/", Dir: "images"},
		Route{Prefix: "/config/", Dir: "config"},
	)
}

// Match は URL パスに最長一致するルートと、プレフィックスを除いた残りのパスを返す
func (t *Table) Match(urlPath string) (Route, string, bool) {
	for _, r := range t.routes {
		if strings.HasPrefix(urlPath, r.Prefix) {
			return r, strings.TrimPrefix(urlPath, r.Prefix), true
		}
	}
	return Route{}, "", false
}

// Routes は評価順のルート一覧を返す
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}
