package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	querybus "datascout-backend/application/queries/bus"
	"datascout-backend/infrastructure/config"
	"datascout-backend/interfaces/http/rest/handlers"
	"datascout-backend/interfaces/http/rest/middleware"
	"datascout-backend/pkg/auth"
	"datascout-backend/pkg/observability"
)

// Router creates and configures the HTTP router
type Router struct {
	queryBus *querybus.QueryBus
	cfg      *config.Config
	logger   *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(queryBus *querybus.QueryBus, cfg *config.Config, logger *zap.Logger) *Router {
	return &Router{
		queryBus: queryBus,
		cfg:      cfg,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.RateLimit(auth.NewIPRateLimiter(rt.cfg.RequestsPerMinute)))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.datascout.gov.au"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		if rt.cfg.EnableAuth && rt.cfg.JWTSecret != "" {
			validator, err := auth.NewJWTValidator(auth.JWTConfig{
				SecretKey: rt.cfg.JWTSecret,
				Issuer:    rt.cfg.JWTIssuer,
			})
			if err != nil {
				rt.logger.Fatal("Failed to create JWT validator", zap.Error(err))
			}
			r.Use(middleware.Authenticate(validator, rt.logger))
		}

		// Search endpoint
		searchHandler := handlers.NewSearchHandler(rt.queryBus, rt.logger)
		r.Get("/search", searchHandler.Search)

		// Dataset endpoints
		r.Route("/datasets", func(r chi.Router) {
			datasetHandler := handlers.NewDatasetHandler(rt.queryBus, rt.logger)
			r.Get("/{datasetID}", datasetHandler.GetDataset)
			r.Get("/{datasetID}/related", datasetHandler.GetRelated)
		})

		// Recommendation endpoints
		r.Route("/recommendations", func(r chi.Router) {
			recHandler := handlers.NewRecommendationHandler(rt.queryBus, rt.logger)
			r.Post("/", recHandler.Recommend)
			r.Get("/trending", recHandler.Trending)
		})
	})

	// On Lambda the platform manages trace segments, so the X-Ray handler
	// wrap only applies to the standalone server.
	if rt.cfg.EnableTracing && !rt.cfg.IsLambda {
		return observability.TraceHTTP("datascout-backend", router)
	}
	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
