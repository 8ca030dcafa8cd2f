package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"post-tools-web/internal/domain"
	"post-tools-web/internal/studio"
)

const (
	imageField = "image"
	// multipartOverhead はフォームのテキスト項目とヘッダーに許容するサイズです。
	multipartOverhead = 1 << 20
)

// UploadReference は参照画像を受け取り、ワークスペースのプレビューを差し替えます。
func (h *Handler) UploadReference(w http.ResponseWriter, r *http.Request) {
	ws, session, err := h.sessions.Workspace(w, r)
	if err != nil {
		logFailure(r, "Failed to resolve workspace", err)
		http.Error(w, "セッションの初期化に失敗しました", http.StatusInternalServerError)
		return
	}

	img, err := h.readUploadedImage(w, r)
	switch {
	case err != nil:
		logFailure(r, "Failed to read reference image", err)
		h.sessions.AddFlash(w, r, session, err.Error())
	case img == nil:
		h.sessions.AddFlash(w, r, session, "画像ファイルを選択してください")
	default:
		ws.SetReference(img)
		slog.InfoContext(r.Context(), "Reference image set", "workspace_id", ws.ID, "mime_type", img.MIMEType, "bytes", len(img.Data))
	}
	redirectToTab(w, r, studio.TabCopy)
}

// ClearReference は参照画像を破棄します。
func (h *Handler) ClearReference(w http.ResponseWriter, r *http.Request) {
	ws, _, err := h.sessions.Workspace(w, r)
	if err != nil {
		logFailure(r, "Failed to resolve workspace", err)
		http.Error(w, "セッションの初期化に失敗しました", http.StatusInternalServerError)
		return
	}
	ws.ClearReference()
	redirectToTab(w, r, studio.TabCopy)
}

// ReferencePreview は現在の参照画像を返します。未設定の場合は 404 です。
func (h *Handler) ReferencePreview(w http.ResponseWriter, r *http.Request) {
	ws, _, err := h.sessions.Workspace(w, r)
	if err != nil {
		logFailure(r, "Failed to resolve workspace", err)
		http.Error(w, "セッションの初期化に失敗しました", http.StatusInternalServerError)
		return
	}

	img := ws.Reference()
	if img == nil {
		http.NotFound(w, r)
		return
	}
	writeImage(w, img.MIMEType, img.Data, "")
}

// readUploadedImage はマルチパートの image 項目を読み込みます。添付が無い場合は nil を返します。
// リクエストボディの受信は IMAGE_READ_TIMEOUT で打ち切ります。
func (h *Handler) readUploadedImage(w http.ResponseWriter, r *http.Request) (*domain.InlineImage, error) {
	// 接続の読み込み期限で低速なアップロードも止める。レコーダー等の未対応の Writer では何もしない
	rc := http.NewResponseController(w)
	if err := rc.SetReadDeadline(time.Now().Add(h.cfg.ImageReadTimeout)); err == nil {
		defer func() {
			// 以降のバックグラウンド読み込みが期限切れでコンテキストを取り消さないよう解除する
			_ = rc.SetReadDeadline(time.Time{})
		}()
	}

	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxImageBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrUnreadableImage, err)
	}

	file, header, err := r.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnreadableImage, err)
	}
	defer file.Close()

	if header.Size == 0 && header.Filename == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.ImageReadTimeout)
	defer cancel()
	return domain.ReadInlineImage(ctx, file, header.Header.Get("Content-Type"))
}

// writeImage は画像バイト列をキャッシュさせずに返します。filename を指定すると添付ファイルになります。
func writeImage(w http.ResponseWriter, mimeType string, data []byte, filename string) {
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("レスポンスの書き込みに失敗しました", "error", err)
	}
}
