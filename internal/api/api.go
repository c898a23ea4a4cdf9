package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"traderpro/pkg/traderpro"
)

// Options configures the HTTP router.
type Options struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	Verifier       TokenVerifier
}

// NewRouter builds the HTTP API router.
func NewRouter(core *traderpro.Core, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	verifier := opts.Verifier
	if verifier == nil {
		verifier = StaticTokenVerifier{}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLoggingMiddleware(logger))
	r.Use(recoveryLoggingMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	h := &handler{core: core, logger: logger}

	r.Get("/api/health", h.health)

	// Categories are shared across users and need no token.
	r.Get("/api/categories", h.getCategories)
	r.Post("/api/categories", h.createCategory)

	// Everything else requires a verified caller.
	r.Group(func(r chi.Router) {
		r.Use(requireAuth(verifier))

		r.Post("/api/ai-analysis", h.aiAnalysis)

		r.Get("/api/accounts", h.getAccounts)
		r.Post("/api/accounts", h.createAccount)
		r.Get("/api/accounts/{id}", h.getAccount)
		r.Put("/api/accounts/{id}", h.updateAccount)
		r.Delete("/api/accounts/{id}", h.deleteAccount)

		r.Get("/api/transactions", h.getTransactions)
		r.Post("/api/transactions", h.createTransaction)
		r.Delete("/api/transactions/{id}", h.deleteTransaction)

		r.Get("/api/dashboard/stats", h.getDashboardStats)
	})

	return r
}

type handler struct {
	core   *traderpro.Core
	logger *slog.Logger
}
