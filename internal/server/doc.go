// Package server は、静的ファイルを配信する開発用HTTPサーバーを管理します。
//
// このパッケージは、HTTPサーバーの起動と停止、および
// ルート表に基づく静的ファイルの振り分けを担当します。
//
// 責務:
//   - HTTPサーバーの起動と管理
//   - 要求パスのルート表による振り分け（最長一致）
//   - ルートに対応するディレクトリからのファイル配信
//
// 仕様:
//   - HTTPエンジンは gin を使用
//   - ルーティングは gin のワイルドカード1本 + route.Table で行う
//   - ファイルが無い、またはディレクトリ外を指す要求は 404
//   - グレースフルシャットダウンに対応
package server
