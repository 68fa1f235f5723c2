// Package main provides localization for the fsentity CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Inspect and edit filesystem entities": "ファイルシステムのエンティティを参照・編集",
		"Error: %v":                            "エラー: %v",

		// Global flags
		"Configuration file path":                     "設定ファイルのパス",
		"Workspace root directory":                    "ワークスペースのルートディレクトリ",
		"Read entities from this git ref (read-only)": "このgit refからエンティティを読み込む（読み取り専用）",
		"Log level (debug, info, warn, error, quiet)": "ログレベル（debug, info, warn, error, quiet）",
		"Entity format (auto, serial, source)":        "エンティティの形式（auto, serial, source）",

		// Commands
		"Load an entity and print its value":                 "エンティティを読み込み値を表示",
		"Print the value as a PHP literal":                   "値をPHPリテラルとして表示",
		"Set an entity's value and save it":                  "エンティティに値を設定して保存",
		"Delete an entity's file":                            "エンティティのファイルを削除",
		"Evaluate a PHP return-file":                         "PHPのreturnファイルを評価",
		"List a directory":                                   "ディレクトリの一覧を表示",
		"Sort order (asc, desc, none)":                       "並び順（asc, desc, none）",
		"Descend into subdirectories":                        "サブディレクトリも一覧に含める",
		"Create a directory":                                 "ディレクトリを作成",
		"Serve the workspace over HTTP":                      "ワークスペースをHTTPで公開",
		"HTTP server port":                                   "HTTPサーバーのポート",
		"Directory permissions in octal (default: dir_mode)": "ディレクトリのパーミッション（8進数、デフォルト: dir_mode）",

		// Errors
		"unknown format %q":                 "不明な形式です: %q",
		"unknown order %q":                  "不明な並び順です: %q",
		"%s expects %d argument(s), got %d": "%s には %d 個の引数が必要ですが、%d 個が指定されました",

		// Logs
		"Saved %s (new: %v)":                      "%s を保存しました（新規: %v）",
		"Deleted %s":                              "%s を削除しました",
		"Made directory %s":                       "ディレクトリ %s を作成しました",
		"Config file: %s":                         "設定ファイル: %s",
		"Using default configuration: %v":         "デフォルト設定を使用します: %v",
		"Serving %s":                              "%s を公開しています",
		"Serving %s (git ref: %s, read-only)":     "%s を公開しています（git ref: %s、読み取り専用）",
		"Server starting at: http://localhost:%d": "サーバーを起動しました: http://localhost:%d",
		"Interrupted, shutting down...":           "中断されました。終了しています...",
	})
}
