package domain

import "strings"

// CarouselContent はカルーセル投稿の固定6スロット構成です。
type CarouselContent struct {
	Slide1   string `json:"slide_1"`
	Slide2   string `json:"slide_2"`
	Slide3   string `json:"slide_3"`
	Slide4   string `json:"slide_4"`
	Slide5   string `json:"slide_5"`
	CTASlide string `json:"cta_slide"`
}

// CarouselSlide は表示用のスロット名と本文の組です。
type CarouselSlide struct {
	Key  string
	Text string
}

// Slides はスロット順に並べたスライドを返します。本文が空のスロットは含めません。
func (c CarouselContent) Slides() []CarouselSlide {
	all := []CarouselSlide{
		{Key: "slide_1", Text: c.Slide1},
		{Key: "slide_2", Text: c.Slide2},
		{Key: "slide_3", Text: c.Slide3},
		{Key: "slide_4", Text: c.Slide4},
		{Key: "slide_5", Text: c.Slide5},
		{Key: "cta_slide", Text: c.CTASlide},
	}
	slides := make([]CarouselSlide, 0, len(all))
	for _, s := range all {
		if strings.TrimSpace(s.Text) != "" {
			slides = append(slides, s)
		}
	}
	return slides
}

// CopyContent は投稿コピーの各バリエーションです。
type CopyContent struct {
	FullText    string          `json:"full_text"`
	Carousel    CarouselContent `json:"carousel"`
	ReelsScript string          `json:"reels_script"`
	FeedVersion string          `json:"feed_version"`
}

// DesignGuide はビジュアル制作のためのデザイン指針です。
type DesignGuide struct {
	Palette        string `json:"palette"`
	Typography     string `json:"typography"`
	Layout         string `json:"layout"`
	BrandAlignment string `json:"brand_alignment"`
}

// FormatVariations はフォーマット別の画像プロンプトです。
type FormatVariations struct {
	Feed       string `json:"feed"`
	ReelsStory string `json:"reels_story"`
	Thumbnail  string `json:"thumbnail"`
}

// ContentPackage は1回の生成リクエストで得られるコンテンツ一式です。
// バックエンドの1応答から丸ごと生成され、受信後は変更しません。
type ContentPackage struct {
	Headline         string           `json:"headline"`
	Copy             CopyContent      `json:"copy"`
	CTA              string           `json:"cta"`
	DesignGuide      DesignGuide      `json:"design_guide"`
	ImagePrompt      string           `json:"image_prompt"`
	FormatVariations FormatVariations `json:"format_variations"`
}

// GeneratedImage は画像生成バックエンドが返したインライン画像です。
type GeneratedImage struct {
	Data     []byte
	MIMEType string
}
