package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	accountsapp "github.com/bryanwahyu/healthcare-collab/internal/application/accounts"
	aiapp "github.com/bryanwahyu/healthcare-collab/internal/application/ai"
	analysesapp "github.com/bryanwahyu/healthcare-collab/internal/application/analyses"
	decisionsapp "github.com/bryanwahyu/healthcare-collab/internal/application/decisions"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/accounts"
	"github.com/bryanwahyu/healthcare-collab/internal/infra/logger"
	"github.com/bryanwahyu/healthcare-collab/internal/middleware"
)

// Deps groups everything the HTTP layer needs.
type Deps struct {
	Accounts  *accountsapp.Service
	Analyses  *analysesapp.Service
	AI        *aiapp.Service
	Decisions *decisionsapp.Service
	Tokens    middleware.TokenParser
	// Limiter guards the AI routes. Nil disables rate limiting.
	Limiter        *middleware.RateLimiter
	Checkers       map[string]middleware.HealthChecker
	AllowedOrigins []string
	Log            *logger.Logger
}

type Router struct {
	accounts  *accountsapp.Service
	analyses  *analysesapp.Service
	ai        *aiapp.Service
	decisions *decisionsapp.Service
	log       *logger.Logger
}

func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	r := &Router{
		accounts:  d.Accounts,
		analyses:  d.Analyses,
		ai:        d.AI,
		decisions: d.Decisions,
		log:       log.With("component", "http"),
	}

	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(chimw.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	mux.Use(middleware.Logging(r.log))
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/healthz", middleware.LivenessHandler)
	mux.Get("/readyz", middleware.HealthHandler(d.Checkers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(api chi.Router) {
		api.Get("/health", middleware.APIHealthHandler)
		api.Post("/auth/register", r.wrap(r.handleRegister))
		api.Post("/auth/login", r.wrap(r.handleLogin))

		api.Group(func(rt chi.Router) {
			rt.Use(middleware.BearerAuth(d.Tokens))
			rt.Use(chimw.Timeout(75 * time.Second))

			rt.Get("/auth/me", r.wrap(r.handleMe))
			rt.With(middleware.RequireRole(accounts.RoleDoctor)).Get("/patients", r.wrap(r.handlePatients))

			rt.Group(func(ai chi.Router) {
				if d.Limiter != nil {
					ai.Use(middleware.RateLimit(d.Limiter))
				}
				ai.With(middleware.RequireRole(accounts.RoleDoctor)).Post("/ai/analyze/{patient_id}", r.wrap(r.handleAnalyze))
				ai.Post("/ai/proposal", r.wrap(r.handleProposal))
				ai.Post("/ai/chat", r.wrap(r.handleChat))
			})
			rt.Get("/ai/analyses/patient/{patient_id}", r.wrap(r.handleAnalysesByPatient))
			rt.Get("/ai/analyses/{id}", r.wrap(r.handleAnalysis))
			rt.With(middleware.RequireRole(accounts.RoleDoctor)).Get("/ai/failures", r.wrap(r.handleFailures))

			rt.With(middleware.RequireRole(accounts.RoleDoctor)).Post("/decisions/create", r.wrap(r.handleCreateDecision))
			rt.Get("/decisions/patient/{patient_id}", r.wrap(r.handleDecisionsByPatient))
			rt.Get("/decisions/{id}", r.wrap(r.handleDecision))
		})
	})

	return mux
}
