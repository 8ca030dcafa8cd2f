package builder

import (
	"fmt"

	"post-tools-web/internal/app"
	"post-tools-web/internal/config"
	"post-tools-web/internal/server/handlers"

	"github.com/spf13/afero"
)

// AppHandlers は生成されたすべての HTTP ハンドラーを保持する構造体です。
// server パッケージはこの構造体を受け取ってルーティングを行います。
type AppHandlers struct {
	Web *handlers.Handler
	API *handlers.APIHandler
}

// BuildHandlers は各ハンドラーの依存関係をすべて組み立て、AppHandlers 構造体を返します。
func BuildHandlers(c *app.Container) (*AppHandlers, error) {
	if c.Config.ServiceURL == "" {
		return nil, fmt.Errorf("セッション Cookie の設定のために ServiceURL が必要です")
	}

	// 1. セッションストアの初期化
	sessions, err := handlers.NewSessionManager(handlers.SessionConfig{
		Secret:   c.Config.SessionSecret,
		IsSecure: config.IsSecureURL(c.Config.ServiceURL),
		MaxAge:   c.Config.WorkspaceTTL,
	}, c.Store)
	if err != nil {
		return nil, fmt.Errorf("セッションの初期化に失敗しました: %w", err)
	}

	// 2. Web UI 用Handlerの初期化
	webHandler, err := handlers.NewHandler(c.Config, afero.NewOsFs(), sessions, c.Pipeline)
	if err != nil {
		return nil, fmt.Errorf("WebHandlerの初期化に失敗しました: %w", err)
	}

	// 3. JSON API 用Handlerの初期化
	apiHandler := handlers.NewAPIHandler(c.Pipeline)

	return &AppHandlers{
		Web: webHandler,
		API: apiHandler,
	}, nil
}
