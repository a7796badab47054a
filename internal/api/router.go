package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/birdgotwit-be/internal/api/handlers"
	"github.com/isdelr/birdgotwit-be/internal/auth"
	"github.com/isdelr/birdgotwit-be/internal/services"
	"github.com/isdelr/birdgotwit-be/internal/views"
	"github.com/isdelr/birdgotwit-be/internal/websocket"
)

// Options holds the router settings that come from configuration.
type Options struct {
	AllowedOrigins []string
	SessionCookie  string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(hub *websocket.Hub, verifier auth.Verifier, profileService services.ProfileServiceProvider, postService services.PostServiceProvider, pages *views.Pages, opts Options) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Every route sees the caller's session, if any.
	r.Use(auth.Middleware(verifier, opts.SessionCookie))

	// Initialize handlers
	profileHandler := handlers.NewProfileHandler(profileService, postService)
	postHandler := handlers.NewPostHandler(postService)
	wsHandler := handlers.NewWebSocketHandler(hub, opts.AllowedOrigins)

	r.Get("/healthz", handlers.Health)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// Feed refresh notifications
		r.Get("/ws", wsHandler.Serve)

		r.Route("/profile/{username}", func(r chi.Router) {
			r.Get("/", profileHandler.Get)
			r.Get("/posts", profileHandler.Posts)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.GetAll)
			r.With(auth.RequireSession).Post("/", postHandler.Create)
			r.Get("/{id}", postHandler.Get)
		})
	})

	if pages != nil {
		pages.Routes(r)
	}

	return r
}
