package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration (info)
		"Starting pipeline run %s":                               "パイプライン %s を開始します",
		"Input: %dx%d, codec %s":                                 "入力: %dx%d, コーデック %s",
		"Pipeline completed: %d frames read, %d packets written": "パイプライン完了: %d フレーム読み込み, %d パケット書き込み",
		"Pipeline aborted: %s":                                   "パイプラインが中断されました: %s",
		"Stage %s panicked: %v":                                  "ステージ %s でパニックが発生しました: %v",
		"Encoding %s to %s":                                      "%s を %s にエンコード中",
		"Output saved to %s":                                     "出力を %s に保存しました",
		"Interrupted, shutting down...":                          "中断されました。シャットダウン中...",
		"Using ffmpeg at %s":                                     "ffmpeg を使用: %s",

		// Read stage
		"Read %d frames": "%d フレームを読み込みました",
		"Input ends inside frame %d, discarding partial frame": "入力がフレーム %d の途中で終了しました。部分フレームを破棄します",

		// Encode stage
		"Encoded %d frames into %d packets (%d flushed)": "%d フレームを %d パケットにエンコードしました (フラッシュ %d)",

		// Write stage
		"Discarded %d packets":                   "%d パケットを破棄しました",
		"Discarding packets after write failure": "書き込み失敗のため以降のパケットを破棄します",

		// Warnings
		"Failed to close source: %v":                 "入力のクローズに失敗しました: %v",
		"Failed to close encoder: %v":                "エンコーダのクローズに失敗しました: %v",
		"Failed to save frame preview: %v":           "フレームプレビューの保存に失敗しました: %v",
		"Failed to save packet dump: %v":             "パケットダンプの保存に失敗しました: %v",
		"Failed to save run report: %s":              "実行レポートの保存に失敗しました: %s",
		"Failed to encode run report: %s":            "実行レポートのエンコードに失敗しました: %s",
		"Failed to record run history: %s":           "実行履歴の記録に失敗しました: %s",
		"Failed to write summary: %s":                "サマリーの書き込みに失敗しました: %s",
		"Failed to convert frame %d for preview: %v": "フレーム %d のプレビュー変換に失敗しました: %v",
	})
}
