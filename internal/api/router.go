package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/recallwire/cms-api/internal/api/handler"
	mw "github.com/recallwire/cms-api/internal/api/middleware"
	"github.com/recallwire/cms-api/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Usage     *mw.Usage
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	Health http.HandlerFunc

	Posts      *handler.Posts
	PostTags   *handler.PostTags
	Tags       *handler.Tags
	Authors    *handler.Authors
	Categories *handler.Categories
	Media      *handler.Media
	Keys       *handler.Keys
	Generate   *handler.Generate
}

// NewRouter builds the Chi router with the middleware stack and all routes.
// Usage tracking sits outside auth so denied requests are still recorded.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Not Found", "Unknown resource")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method Not Allowed", "Method not allowed for this resource")
	})

	// Public health check
	r.Get("/api/v1/health", deps.Health)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Usage.Track)
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Get("/api/v1/posts", deps.Posts.List)
		r.Post("/api/v1/posts", deps.Posts.Create)
		r.Post("/api/v1/posts/generate", deps.Generate.Post)
		r.Get("/api/v1/posts/{postRef}", deps.Posts.Get)
		r.Put("/api/v1/posts/{postRef}", deps.Posts.Update)
		r.Delete("/api/v1/posts/{postRef}", deps.Posts.Delete)

		r.Get("/api/v1/posts/{postRef}/tags", deps.PostTags.List)
		r.Post("/api/v1/posts/{postRef}/tags", deps.PostTags.Replace)
		r.Delete("/api/v1/posts/{postRef}/tags/{tagID}", deps.PostTags.Remove)

		r.Get("/api/v1/tags", deps.Tags.List)
		r.Post("/api/v1/tags", deps.Tags.Create)
		r.Get("/api/v1/tags/{tagRef}", deps.Tags.Get)
		r.Put("/api/v1/tags/{tagRef}", deps.Tags.Update)
		r.Delete("/api/v1/tags/{tagRef}", deps.Tags.Delete)

		r.Get("/api/v1/authors", deps.Authors.List)
		r.Post("/api/v1/authors", deps.Authors.Create)
		r.Get("/api/v1/authors/{authorRef}", deps.Authors.Get)
		r.Put("/api/v1/authors/{authorRef}", deps.Authors.Update)
		r.Delete("/api/v1/authors/{authorRef}", deps.Authors.Delete)

		r.Get("/api/v1/categories", deps.Categories.List)
		r.Post("/api/v1/categories", deps.Categories.Create)
		r.Get("/api/v1/categories/{categoryRef}", deps.Categories.Get)
		r.Put("/api/v1/categories/{categoryRef}", deps.Categories.Update)
		r.Delete("/api/v1/categories/{categoryRef}", deps.Categories.Delete)

		r.Get("/api/v1/media", deps.Media.List)
		r.Post("/api/v1/media", deps.Media.Create)
		r.Get("/api/v1/media/{mediaID}", deps.Media.Get)
		r.Put("/api/v1/media/{mediaID}", deps.Media.Update)
		r.Delete("/api/v1/media/{mediaID}", deps.Media.Delete)

		// Admin routes
		r.Post("/api/v1/admin/keys", deps.Keys.Create)
		r.Get("/api/v1/admin/keys", deps.Keys.List)
		r.Put("/api/v1/admin/keys/{keyID}", deps.Keys.Update)
		r.Delete("/api/v1/admin/keys/{keyID}", deps.Keys.Delete)
		r.Get("/api/v1/admin/keys/{keyID}/usage", deps.Keys.Usage)
	})

	return r
}
