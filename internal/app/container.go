package app

import (
	"log/slog"

	"post-tools-web/internal/adapters"
	"post-tools-web/internal/config"
	"post-tools-web/internal/pipeline"
	"post-tools-web/internal/studio"
)

// Container はアプリケーションの依存関係（DIコンテナ）を保持します。
type Container struct {
	Config *config.Config

	// Session State
	Store *studio.Store

	// Business Logic
	Pipeline pipeline.Pipeline

	// External Adapters
	SlackNotifier adapters.SlackNotifier
}

// Close は、Container が保持するワークスペースをすべて解放します。
func (c *Container) Close() {
	if c.Store != nil {
		slog.Info("Releasing workspaces", "count", c.Store.Len())
		c.Store.Close()
	}
}
