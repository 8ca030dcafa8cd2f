package handlers

import (
	"net/http"

	"post-tools-web/internal/domain"
	"post-tools-web/internal/studio"
)

// formValues はフォームの再表示に使う入力値です。
type formValues struct {
	Niche  string
	Format domain.SocialFormat
	Topic  string
	Style  string
}

type indexData struct {
	View          studio.View
	Form          formValues
	Formats       []domain.SocialFormat
	Tab           studio.Tab
	Tabs          []studio.Tab
	Flashes       []string
	HasCredential bool
}

// Index はフォームと結果画面を表示します。
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ws, session, err := h.sessions.Workspace(w, r)
	if err != nil {
		logFailure(r, "Failed to resolve workspace", err)
		http.Error(w, "セッションの初期化に失敗しました", http.StatusInternalServerError)
		return
	}

	view := ws.Snapshot()
	form := formValues{Format: domain.DefaultFormat}
	if view.Input != nil {
		form = formValues{
			Niche:  view.Input.Niche,
			Format: view.Input.Format,
			Topic:  view.Input.Topic,
			Style:  view.Input.Style,
		}
	}

	h.render(w, http.StatusOK, "index.html", "Content Studio", indexData{
		View:          view,
		Form:          form,
		Formats:       domain.SocialFormats(),
		Tab:           studio.ParseTab(r.URL.Query().Get("tab")),
		Tabs:          studio.Tabs(),
		Flashes:       h.sessions.Flashes(w, r, session),
		HasCredential: h.cfg.Credential.Present,
	})
}

// Healthz は稼働確認用のエンドポイントです。
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
