package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/notely/notely/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// note API. It applies JSON content-type enforcement and request
// logging, and mounts the auth, note, and notebook endpoints under
// /api. Everything except register and login sits behind JWTAuth, so
// no protected handler ever runs without a verified identity.
func NewRouter(
	authHandler *AuthHandler,
	noteHandler *NoteHandler,
	notebookHandler *NotebookHandler,
	jwtSecret []byte,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected group: requires a valid identity token
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtSecret))

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.Me)

			r.Route("/notes", func(r chi.Router) {
				r.Post("/", noteHandler.Create)
				r.Get("/", noteHandler.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", noteHandler.Get)
					r.Patch("/", noteHandler.Update)
					r.Delete("/", noteHandler.Delete)
					r.Post("/collaborators", noteHandler.AddCollaborator)
					r.Delete("/collaborators", noteHandler.RemoveCollaborator)
				})
			})

			r.Route("/notebooks", func(r chi.Router) {
				r.Post("/", notebookHandler.Create)
				r.Get("/", notebookHandler.List)
				r.Delete("/{id}", notebookHandler.Delete)
			})
		})
	})

	return r
}
