package domain

import "errors"

// 生成フロー全体で共有するエラー分類です。
// 呼び出し側は errors.Is で判定し、原因となったエラーは %w で併せて保持します。
var (
	// ErrConfiguration は API キーなどの必須設定が存在しないことを表します。
	ErrConfiguration = errors.New("configuration error")
	// ErrUpstream は生成 AI バックエンドの呼び出し失敗、または利用できない応答を表します。
	ErrUpstream = errors.New("upstream error")
	// ErrParse は応答テキストが期待する JSON 構造として解析できないことを表します。
	ErrParse = errors.New("parse error")
	// ErrNoImage は画像生成の応答にインライン画像が含まれていないことを表します。
	ErrNoImage = errors.New("no image generated")

	ErrInvalidInput      = errors.New("invalid input")
	ErrUnreadableImage   = errors.New("unreadable image")
	ErrInvalidTransition = errors.New("invalid state transition")
)
