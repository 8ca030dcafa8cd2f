package server

import (
	"net/http"

	"post-tools-web/internal/builder"
	"post-tools-web/internal/server/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter は、ミドルウェアとルーティングを統合した http.Handler を構築します。
func NewRouter(h *builder.AppHandlers) http.Handler {
	r := chi.NewRouter()

	setupCommonMiddleware(r)
	setupRoutes(r, h.Web, h.API)

	return r
}

func setupCommonMiddleware(r *chi.Mux) {
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)
}

func setupRoutes(r chi.Router, webHandler *handlers.Handler, apiHandler *handlers.APIHandler) {
	r.Get("/healthz", webHandler.Healthz)

	// --- Web UI ---
	r.Get("/", webHandler.Index)
	r.Post("/generate", webHandler.HandleSubmit)

	r.Post("/reference", webHandler.UploadReference)
	r.Post("/reference/clear", webHandler.ClearReference)
	r.Get("/reference/preview", webHandler.ReferencePreview)

	r.Route("/image", func(r chi.Router) {
		r.Post("/generate", webHandler.GenerateImage)
		r.Post("/change", webHandler.ChangeImage)
		r.Post("/cancel", webHandler.CancelEdit)
		r.Post("/regenerate", webHandler.RegenerateImage)
		r.Post("/another", webHandler.AnotherImage)
		r.Get("/view", webHandler.ViewImage)
		r.Post("/approve", webHandler.ApproveImage)
	})

	// --- JSON API ---
	r.Route("/api", func(r chi.Router) {
		r.Post("/content", apiHandler.Content)
		r.Post("/image", apiHandler.Image)
	})
}
