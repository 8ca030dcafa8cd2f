package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"post-tools-web/internal/domain"
	"post-tools-web/internal/studio"
)

// render は HTML テンプレートをレンダリングし、レスポンスを書き込みます。
func (h *Handler) render(w http.ResponseWriter, status int, pageName string, title string, data any) {
	tmpl, ok := h.templateCache[pageName]
	if !ok {
		slog.Error("キャッシュ内にテンプレートが見つかりません", "page", pageName)
		http.Error(w, "システムエラーが発生しました（テンプレート未定義）", http.StatusInternalServerError)
		return
	}

	renderData := struct {
		Title string
		Data  any
	}{
		Title: title + titleSuffix,
		Data:  data,
	}

	var buf bytes.Buffer
	// レイアウトファイルをベースに実行します
	if err := tmpl.ExecuteTemplate(&buf, layoutPage, renderData); err != nil {
		slog.Error("テンプレートのレンダリングに失敗しました", "page", pageName, "error", err)
		http.Error(w, "画面の表示中にエラーが発生しました", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("レスポンスの書き込みに失敗しました", "error", err)
	}
}

// redirectToTab は POST 後に結果画面の指定タブへ 303 で戻します。
func redirectToTab(w http.ResponseWriter, r *http.Request, tab studio.Tab) {
	target := url.URL{Path: "/", RawQuery: url.Values{"tab": {string(tab)}}.Encode()}
	http.Redirect(w, r, target.String(), http.StatusSeeOther)
}

// statusFor はエラー分類を HTTP ステータスへ対応付けます。
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnreadableImage):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, studio.ErrInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrConfiguration):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrParse), errors.Is(err, domain.ErrNoImage), errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// logFailure はクライアント起因のエラーを Warn、サーバー起因を Error で記録します。
func logFailure(r *http.Request, msg string, err error) {
	if statusFor(err) < http.StatusInternalServerError {
		slog.WarnContext(r.Context(), msg, "error", err)
		return
	}
	slog.ErrorContext(r.Context(), msg, "error", err)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("レスポンスの書き込みに失敗しました", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	logFailure(r, "API request failed", err)
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}
