package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"post-tools-web/internal/studio"
)

const downloadPrefix = "post-tools-"

// GenerateImage は Idle から画像を生成します。編集済みの prompt があればそれを使います。
func (h *Handler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	h.runImageAction(w, r, studio.ActionGenerate)
}

// RegenerateImage は Editing で編集したプロンプトから再生成します。
func (h *Handler) RegenerateImage(w http.ResponseWriter, r *http.Request) {
	h.runImageAction(w, r, studio.ActionRegenerate)
}

// AnotherImage は同じプロンプトでもう1枚生成します。
func (h *Handler) AnotherImage(w http.ResponseWriter, r *http.Request) {
	h.runImageAction(w, r, studio.ActionAnother)
}

func (h *Handler) runImageAction(w http.ResponseWriter, r *http.Request, action studio.ImageAction) {
	ws, session, err := h.sessions.Workspace(w, r)
	if err != nil {
		logFailure(r, "Failed to resolve workspace", err)
		http.Error(w, "セッションの初期化に失敗しました", http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.WarnContext(r.Context(), "フォームの解析に失敗しました", "error", err)
		http.Error(w, "リクエストの解析に失敗しました", http.StatusBadRequest)
		return
	}

	err = h.pipeline.GenerateImage(r.Context(), ws, action, r.FormValue("prompt"))
	switch {
	case errors.Is(err, studio.ErrInProgress):
		slog.InfoContext(r.Context(), "Image trigger ignored while generating", "workspace_id", ws.ID, "action", action.String())
	case err != nil && statusFor(err) == http.StatusConflict:
		logFailure(r, "Image action rejected", err)
		h.sessions.AddFlash(w, r, session, err.Error())
	case err != nil:
		// 失敗は画像ステートのエラーとして表示されます。
		logFailure(r, "Image generation failed", err)
	}
	redirectToTab(w, r, studio.TabVisual)
}

// ChangeImage は Ready から Editing へ切り替えます。
func (h *Handler) ChangeImage(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, (*studio.Workspace).EditImage)
}

// CancelEdit は Editing から Ready へ戻します。
func (h *Handler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, (*studio.Workspace).CancelEdit)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, apply func(*studio.Workspace) error) {
	ws, session, err := h.sessions.Workspace(w, r)
	if err != nil {
		logFailure(r, "Failed to resolve workspace", err)
		http.Error(w, "セッションの初期化に失敗しました", http.StatusInternalServerError)
		return
	}
	if err := apply(ws); err != nil && !errors.Is(err, studio.ErrInProgress) {
		logFailure(r, "Image transition rejected", err)
		h.sessions.AddFlash(w, r, session, err.Error())
	}
	redirectToTab(w, r, studio.TabVisual)
}

// ViewImage は表示中の生成画像を返します。
func (h *Handler) ViewImage(w http.ResponseWriter, r *http.Request) {
	ws, _, err := h.sessions.Workspace(w, r)
	if err != nil {
		logFailure(r, "Failed to resolve workspace", err)
		http.Error(w, "セッションの初期化に失敗しました", http.StatusInternalServerError)
		return
	}

	img := ws.Snapshot().Image.Image
	if img == nil {
		http.NotFound(w, r)
		return
	}
	writeImage(w, img.MIMEType, img.Data, "")
}

// ApproveImage は Ready の画像をダウンロードさせます。状態は変わりません。
func (h *Handler) ApproveImage(w http.ResponseWriter, r *http.Request) {
	ws, _, err := h.sessions.Workspace(w, r)
	if err != nil {
		logFailure(r, "Failed to resolve workspace", err)
		http.Error(w, "セッションの初期化に失敗しました", http.StatusInternalServerError)
		return
	}

	img, err := h.pipeline.Approve(r.Context(), ws)
	if err != nil {
		logFailure(r, "Approve rejected", err)
		http.Error(w, "承認できる画像がありません", statusFor(err))
		return
	}

	slog.InfoContext(r.Context(), "Image approved", "workspace_id", ws.ID, "mime_type", img.MIMEType)
	writeImage(w, img.MIMEType, img.Data, downloadFilename(time.Now(), img.MIMEType))
}

// downloadFilename は post-tools-<unix-millis>.<ext> 形式のファイル名を返します。
func downloadFilename(now time.Time, mimeType string) string {
	return fmt.Sprintf("%s%d.%s", downloadPrefix, now.UnixMilli(), extensionFor(mimeType))
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	return "png"
}
