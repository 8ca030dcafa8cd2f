package domain

const CategoryNotAvailable = "N/A"

// NotificationRequest は Slack 等の通知コンポーネントで共有されるデータ構造です。
// 承認された画像や生成エラーのメタデータを通知先に伝えるために使用します。
type NotificationRequest struct {
	// Headline は対象コンテンツパッケージの見出しです。
	Headline string `json:"headline"`

	// Format は投稿フォーマットです。(例: "Carousel", "Story")
	Format string `json:"format"`

	// Niche はユーザーが指定したジャンルです。
	Niche string `json:"niche"`

	// OutputCategory は通知の種別です。(例: "image-approved", "error-report")
	OutputCategory string `json:"output_category"`

	// MediaType は承認された画像のメディアタイプです。
	MediaType string `json:"media_type,omitempty"`
}
