package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// setupRoutes mounts the versioned API surface
func setupRoutes(r chi.Router, handlers *routeHandlers, startupTime time.Time) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/healthcheck", healthcheck(startupTime))

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", handlers.postHandler.listPosts(false))
				r.Get("/latest", handlers.postHandler.listPosts(true))
				r.Post("/new", handlers.postHandler.createPost())
				r.Get("/{postID}", handlers.postHandler.getPost())
				r.Put("/{postID}", handlers.postHandler.likeUnlikePost())
				r.Put("/{postID}/comments/add/{commentID}", handlers.postHandler.addComment())
				r.Put("/{postID}/comments/remove/{commentID}", handlers.postHandler.removeComment())
				r.Put("/{postID}/comments/remove-all", handlers.postHandler.removeAllComments())
				r.Put("/update/{postID}", handlers.postHandler.updatePost())
				r.Delete("/delete/{postID}", handlers.postHandler.deletePost())
			})

			r.Route("/tags", func(r chi.Router) {
				r.Get("/", handlers.tagHandler.getAllTags())
				r.Get("/search/{chars}", handlers.tagHandler.searchTags())
				r.Post("/new", handlers.tagHandler.createTag())
				r.Get("/{tagSlug}", handlers.tagHandler.getTag())
				r.Delete("/delete/{tagSlug}", handlers.tagHandler.deleteTag())
			})
		})
	})
}

// healthcheck reports process liveness and uptime
func healthcheck(startupTime time.Time) http.HandlerFunc {
	responder := NewResponder(log.With().Str("handlerName", "healthcheck").Logger())

	return func(w http.ResponseWriter, r *http.Request) {
		responder.WriteJSON(w, map[string]any{
			"status": "ok",
			"uptime": time.Since(startupTime).String(),
		})
	}
}
