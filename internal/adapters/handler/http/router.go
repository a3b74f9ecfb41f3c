package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type RouterConfig struct {
	AllowedOrigins []string
}

// NewRouter assembles the API route tree. Read endpoints for tags, posts
// and comments are public; everything that mutates requires a bearer token,
// and tag mutations additionally require an admin.
func NewRouter(
	cfg RouterConfig,
	authMw *AuthMiddleware,
	auth *AuthHandler,
	users *UserHandler,
	tags *TagHandler,
	posts *PostHandler,
	comments *CommentHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", auth.Register)
			r.Post("/login", auth.Login)
			r.Get("/refresh", auth.Refresh)
			r.Get("/email-verify", auth.SendVerification)
			r.Get("/email-verify/confirm", auth.ConfirmVerification)
			r.Get("/reset-password", auth.SendReset)
			r.Post("/reset-password/confirm", auth.ConfirmReset)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMw.RequireUser)
			r.Get("/me", users.GetMe)
			r.Get("/users", users.List)
			r.Put("/users/{id}", users.Update)

			r.Group(func(r chi.Router) {
				r.Use(authMw.RequireAdmin)
				r.Get("/users/{id}", users.GetByID)
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tags.List)
			r.Get("/{slug}", tags.GetBySlug)

			r.Group(func(r chi.Router) {
				r.Use(authMw.RequireUser, authMw.RequireAdmin)
				r.Post("/", tags.Create)
				r.Put("/{slug}", tags.Update)
				r.Delete("/{slug}", tags.Delete)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", posts.List)
			r.Get("/{slug}", posts.GetBySlug)
			r.Get("/{slug}/comments", comments.ListByPost)

			r.Group(func(r chi.Router) {
				r.Use(authMw.RequireUser)
				r.Post("/", posts.Create)
				r.Put("/{slug}", posts.Update)
				r.Delete("/{slug}", posts.Delete)
				r.Post("/{slug}/comments", comments.Create)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authMw.RequireUser)
			r.Delete("/comments/{id}", comments.Delete)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	return r
}
