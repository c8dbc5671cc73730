package main

import (
	"context"
	"os"

	"clario/internal/cli"
)

func main() {
	// ライフサイクルログは標準エラーへ
	logger := cli.NewLogger(os.Stderr)

	// コマンドを実行し、終了コードで終了する
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr, cli.Serve(logger)))
}
