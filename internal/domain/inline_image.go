package domain

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageBytes は参照画像として受け付ける最大サイズです。
const MaxImageBytes = 10 << 20

// InlineImage はバックエンドへ送るインラインバイナリとメディアタイプです。
type InlineImage struct {
	Data     []byte
	MIMEType string
}


type readResult struct {
	data []byte
	err  error
}

// ReadInlineImage はアップロードされたファイルを読み込み、インライン画像に変換します。
// 読み込み失敗、ctx の期限切れ、空ファイル、サイズ超過、画像以外の内容は
// いずれも ErrUnreadableImage になります。
// メディアタイプは内容から判定し、declaredType は判定できない場合の補助にのみ使います。
func ReadInlineImage(ctx context.Context, r io.Reader, declaredType string) (*InlineImage, error) {
	done := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
		done <- readResult{data: data, err: err}
	}()

	var res readResult
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: read did not complete: %w", ErrUnreadableImage, ctx.Err())
	case res = <-done:
	}

	if res.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableImage, res.err)
	}
	if len(res.data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrUnreadableImage)
	}
	if len(res.data) > MaxImageBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrUnreadableImage, MaxImageBytes)
	}

	mediaType := detectImageType(res.data, declaredType)
	if mediaType == "" {
		return nil, fmt.Errorf("%w: content is not an image", ErrUnreadableImage)
	}

	return &InlineImage{Data: res.data, MIMEType: mediaType}, nil
}

func detectImageType(data []byte, declaredType string) string {
	detected := mimetype.Detect(data)
	if strings.HasPrefix(detected.String(), "image/") {
		return baseMediaType(detected.String())
	}
	// 判定不能なバイナリに限り、画像としての申告値を採用する
	declared := baseMediaType(declaredType)
	if detected.Is("application/octet-stream") && strings.HasPrefix(declared, "image/") {
		return declared
	}
	return ""
}

func baseMediaType(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(strings.TrimSpace(s))
}
