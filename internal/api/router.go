package api

import (
	"net/http"
	"time"

	"notes_manager/internal/api/handler"
	"notes_manager/internal/api/middleware"
	"notes_manager/internal/app/service"
	"notes_manager/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	noteService *service.NoteService,
	revocations security.RevocationStore,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	// Verifies the bearer token when present and puts claims in context.
	// Enforcement happens per-route via the Authenticator middleware.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	authenticate := middleware.Authenticator(revocations)

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(api chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		api.Route("/auth", func(auth chi.Router) {
			authHandler.RegisterRoutes(auth, authenticate)
		})

		noteHandler := handler.NewNoteHandler(noteService)
		api.Route("/notes", func(notes chi.Router) {
			noteHandler.RegisterRoutes(notes, authenticate)
		})
	})

	return r
}

// corsMiddleware lets the browser-based client on another origin talk to the
// API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
