// Package main provides localization for the yuvenc CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Input and Output": "入出力",
		"Encoding":         "エンコード",
		"Pipeline":         "パイプライン",
		"Reporting":        "レポート",
		"Debug":            "デバッグ",
		"Logging":          "ログ",

		// Commands
		"Encode raw YUV420P frames into a video elementary stream":      "生のYUV420Pフレームを映像エレメンタリストリームにエンコード",
		"Encode raw frames through the read, encode and write pipeline": "読み込み・エンコード・書き込みのパイプラインで生フレームをエンコード",
		"Show recent encoding runs":                                     "最近のエンコード実行を表示",

		// Input/Output flags
		"Configuration file (YAML or TOML)":                 "設定ファイル（YAMLまたはTOML）",
		"Output elementary stream path":                     "出力エレメンタリストリームのパス",
		"Frame source (file, pattern)":                      "フレームソース（file, pattern）",
		"Frame size WIDTHxHEIGHT (default: 480x272)":        "フレームサイズ 幅x高さ（デフォルト: 480x272）",
		"Maximum number of frames (0 = until end of input)": "最大フレーム数（0 = 入力の終わりまで）",
		"Encode but discard the output":                     "エンコードするが出力を破棄",

		// Encoding flags
		"Codec (h264, hevc, mpeg2, rawvideo)": "コーデック（h264, hevc, mpeg2, rawvideo）",
		"Quality preset (low, medium, high)":  "品質プリセット（low, medium, high）",
		"Target bitrate in bits per second":   "目標ビットレート（bps）",
		"Distance between keyframes":          "キーフレーム間隔",
		"Maximum consecutive B-frames":        "連続Bフレームの最大数",
		"Frames per second":                   "フレームレート",
		"Encoder speed preset":                "エンコーダ速度プリセット",
		"Path to ffmpeg executable":           "ffmpeg実行ファイルのパス",

		// Pipeline flags
		"Queue capacity (0 = unbounded)":                                          "キュー容量（0 = 無制限）",
		"Abort when a stage waits longer than this many milliseconds (0 = never)": "ステージの待機がこのミリ秒数を超えたら中断（0 = 無効）",

		// Reporting flags
		"Collect NAL unit statistics":                        "NALユニットの統計を収集",
		"Record the run in this SQLite database":             "実行をこのSQLiteデータベースに記録",
		"Output execution summary to file (Markdown format)": "実行サマリーをファイルに出力（Markdown形式）",

		// Debug flags
		"Enable debug output":           "デバッグ出力を有効化",
		"Directory for debug output":    "デバッグ出力のディレクトリ",
		"Save a preview every N frames": "Nフレームごとにプレビューを保存",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// History command
		"SQLite history database":           "SQLite履歴データベース",
		"Number of runs to show":            "表示する実行の数",
		"history database path is required": "履歴データベースのパスが必要です",
		"No runs recorded":                  "記録された実行はありません",

		// Runtime messages
		"Summary saved to %s": "サマリーを %s に保存しました",
	})
}
