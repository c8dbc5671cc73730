// Package static は、ルートに対応するディレクトリから静的ファイルを解決します。
//
// 要求パスはルートのディレクトリ配下に閉じ込められます。
// ".." による脱出、絶対パス、ディレクトリ外を指すシンボリックリンクは
// すべて ErrNotFound として扱われ、ファイルシステムの情報を外部に漏らしません。
package static
