package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// SocialFormat は投稿先の SNS フォーマットです。
type SocialFormat string

const (
	FormatFeed      SocialFormat = "Feed Post"
	FormatCarousel  SocialFormat = "Carousel"
	FormatReels     SocialFormat = "Reels/TikTok"
	FormatStory     SocialFormat = "Story"
	FormatLinkedIn  SocialFormat = "LinkedIn Article"
	FormatPinterest SocialFormat = "Pinterest Pin"
	FormatThumbnail SocialFormat = "YouTube Thumbnail"

	// DefaultFormat はフォームの初期選択値です。
	DefaultFormat = FormatCarousel
)

// SocialFormats はフォームのドロップダウンに表示する順序で全フォーマットを返します。
func SocialFormats() []SocialFormat {
	return []SocialFormat{
		FormatFeed,
		FormatCarousel,
		FormatReels,
		FormatStory,
		FormatLinkedIn,
		FormatPinterest,
		FormatThumbnail,
	}
}

// Valid は固定の列挙に含まれるかを判定します。
func (f SocialFormat) Valid() bool {
	for _, known := range SocialFormats() {
		if f == known {
			return true
		}
	}
	return false
}

// UserInput はフォーム送信1回分の入力です。生成器に渡した後は変更しません。
type UserInput struct {
	Niche  string       `json:"niche" validate:"required"`
	Format SocialFormat `json:"format" validate:"socialformat"`
	Topic  string       `json:"topic" validate:"required"`
	Style  string       `json:"style"`
	Image  *InlineImage `json:"-"`
}

// NewUserInput はフォーム値の前後空白を取り除いて UserInput を組み立て、検証します。
func NewUserInput(niche, format, topic, style string, image *InlineImage) (UserInput, error) {
	in := UserInput{
		Niche:  strings.TrimSpace(niche),
		Format: SocialFormat(strings.TrimSpace(format)),
		Topic:  strings.TrimSpace(topic),
		Style:  strings.TrimSpace(style),
		Image:  image,
	}
	if err := in.Validate(); err != nil {
		return UserInput{}, err
	}
	return in, nil
}

// HasImage は参照画像が添付されているかを返します。
func (in UserInput) HasImage() bool {
	return in.Image != nil && len(in.Image.Data) > 0
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func inputValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// oneof はスペース区切りのため "Feed Post" のような値を表現できない
		_ = v.RegisterValidation("socialformat", func(fl validator.FieldLevel) bool {
			return SocialFormat(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

// Validate は必須項目とフォーマットの列挙を検証します。
func (in UserInput) Validate() error {
	err := inputValidator().Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "socialformat":
			fields = append(fields, fmt.Sprintf("format %q is not supported", fe.Value()))
		default:
			fields = append(fields, strings.ToLower(fe.Field())+" is required")
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(fields, ", "))
}
