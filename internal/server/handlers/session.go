package handlers

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"post-tools-web/internal/studio"

	"github.com/gorilla/sessions"
)

const (
	sessionName    = "post-tools-session"
	workspaceIDKey = "workspace_id"
	secretLength   = 32
)

// SessionConfig はセッション Cookie の設定です。
type SessionConfig struct {
	// Secret が空の場合は起動ごとにランダムな鍵を生成します。
	Secret   string
	IsSecure bool
	MaxAge   time.Duration
}

// SessionManager はブラウザの Cookie とワークスペースを対応付けます。
type SessionManager struct {
	cookies *sessions.CookieStore
	store   *studio.Store
}

// NewSessionManager は新しい SessionManager を作成します。
func NewSessionManager(cfg SessionConfig, store *studio.Store) (*SessionManager, error) {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		generated, err := generateSecret()
		if err != nil {
			return nil, fmt.Errorf("セッション鍵の生成に失敗しました: %w", err)
		}
		slog.Warn("SESSION_SECRET is not set, sessions will not survive a restart")
		secret = generated
	}

	cookies := sessions.NewCookieStore(secret)
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsSecure,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionManager{
		cookies: cookies,
		store:   store,
	}, nil
}

// Workspace はリクエストのワークスペースを返します。
// Cookie が無い、または期限切れで破棄済みの場合は新しいワークスペースを作成します。
// ワークスペースの有効期限と揃えるため、Cookie は毎回保存し直して期限を延長します。
func (m *SessionManager) Workspace(w http.ResponseWriter, r *http.Request) (*studio.Workspace, *sessions.Session, error) {
	// 署名が一致しない Cookie もエラーとして返りますが、空のセッションで続行します。
	session, err := m.cookies.Get(r, sessionName)
	if err != nil {
		slog.WarnContext(r.Context(), "Invalid session cookie, starting a new one", "error", err)
	}

	id, _ := session.Values[workspaceIDKey].(string)
	ws, created := m.store.GetOrCreate(id)
	if created {
		session.Values[workspaceIDKey] = ws.ID
		slog.InfoContext(r.Context(), "Workspace created", "workspace_id", ws.ID)
	}
	if err := session.Save(r, w); err != nil {
		return nil, nil, fmt.Errorf("failed to save session: %w", err)
	}
	return ws, session, nil
}

// AddFlash は次の画面表示で一度だけ表示するメッセージを追加します。
func (m *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, session *sessions.Session, message string) {
	session.AddFlash(message)
	if err := session.Save(r, w); err != nil {
		slog.ErrorContext(r.Context(), "Failed to save flash message", "error", err)
	}
}

// Flashes は保存されているメッセージを取り出して消去します。
func (m *SessionManager) Flashes(w http.ResponseWriter, r *http.Request, session *sessions.Session) []string {
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		slog.ErrorContext(r.Context(), "Failed to clear flash messages", "error", err)
	}

	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			messages = append(messages, s)
		}
	}
	return messages
}

func generateSecret() ([]byte, error) {
	b := make([]byte, secretLength)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
