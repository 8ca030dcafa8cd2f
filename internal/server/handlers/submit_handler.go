package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"post-tools-web/internal/domain"
	"post-tools-web/internal/studio"
)

// HandleSubmit はフォーム送信を受け取り、コンテンツパッケージを生成します。
// フォームに画像が添付されていれば参照画像を差し替えてから送信します。
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ws, session, err := h.sessions.Workspace(w, r)
	if err != nil {
		logFailure(r, "Failed to resolve workspace", err)
		http.Error(w, "セッションの初期化に失敗しました", http.StatusInternalServerError)
		return
	}

	img, err := h.readUploadedImage(w, r)
	if err != nil {
		logFailure(r, "Failed to read attached image", err)
		h.sessions.AddFlash(w, r, session, err.Error())
		redirectToTab(w, r, studio.TabCopy)
		return
	}
	if img != nil {
		ws.SetReference(img)
	}

	in, err := domain.NewUserInput(
		r.FormValue("niche"),
		r.FormValue("format"),
		r.FormValue("topic"),
		r.FormValue("style"),
		nil,
	)
	if err != nil {
		logFailure(r, "Invalid form input", err)
		h.sessions.AddFlash(w, r, session, err.Error())
		redirectToTab(w, r, studio.TabCopy)
		return
	}

	err = h.pipeline.SubmitContent(r.Context(), ws, in)
	switch {
	case errors.Is(err, studio.ErrInProgress):
		slog.InfoContext(r.Context(), "Submission ignored while generating", "workspace_id", ws.ID)
		h.sessions.AddFlash(w, r, session, "生成中です。完了までお待ちください")
	case err != nil:
		// エラーはワークスペースに記録され、フォームの横に表示されます。
		logFailure(r, "Content generation failed", err)
	}
	redirectToTab(w, r, studio.TabCopy)
}
