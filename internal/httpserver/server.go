package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/auth"
	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/blob"
	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/config"
	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/mealplans"
	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/reports"
	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/storage"
	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/storage/memory"
	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/storage/postgres"
)

// Storage is the combined persistence surface the server wires up.
type Storage interface {
	storage.MealPlansStorage
	storage.ReportsStorage
}

// Server wires config, storage and feature handlers into one HTTP surface.
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        Storage
	authMiddleware *auth.Middleware
}

func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	s.initStorage()
	s.routes()
	return s
}

// initStorage picks PostgreSQL when configured and falls back to in-memory
// storage otherwise.
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("INFO storage: using in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("INFO storage: connecting to PostgreSQL...")
	pgStorage, err := postgres.New(context.Background(), s.config.DatabaseURL)
	if err != nil {
		log.Printf("WARN storage: PostgreSQL connection failed: %v", err)
		log.Println("WARN storage: falling back to in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("INFO storage: PostgreSQL connected")
	s.storage = pgStorage
}

func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService, s.config.Env)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev - local dev token
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Meal Plans API
	planService := mealplans.NewService(s.storage)
	planHandler := mealplans.NewHandler(planService)

	s.mux.HandleFunc("GET /v1/meal-plans", planHandler.HandleList)
	s.mux.HandleFunc("POST /v1/meal-plans", planHandler.HandleCreate)

	// GET /v1/meal-plans/{id} resolves the requested view (full/day/week/month)
	s.mux.HandleFunc("GET /v1/meal-plans/{id}", planHandler.HandleResolveView)
	s.mux.HandleFunc("PATCH /v1/meal-plans/{id}", planHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/meal-plans/{id}", planHandler.HandleDelete)

	s.mux.HandleFunc("GET /v1/meal-plans/{id}/statistics", planHandler.HandleStatistics)

	s.mux.HandleFunc("POST /v1/meal-plans/{id}/recipes", planHandler.HandleAddRecipe)
	s.mux.HandleFunc("DELETE /v1/meal-plans/{id}/recipes/{assignmentId}", planHandler.HandleRemoveRecipe)

	// Reports API
	blobStore, blobMode, err := blob.NewBlobStore(s.config.Blob, log.Default())
	if err != nil {
		log.Fatalf("blob store initialization failed: %v", err)
	}
	log.Printf("INFO reports: blob mode=%s", blobMode)

	reportService := reports.NewService(
		s.storage,
		planService,
		blobStore,
		s.config.ReportsMaxPerPlan,
		s.config.Blob.S3.PresignTTLSeconds,
		s.config.Blob.S3.PublicBaseURL,
	)
	reportHandler := reports.NewHandlers(reportService)

	s.mux.HandleFunc("POST /v1/reports", reportHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/reports", reportHandler.HandleList)
	s.mux.HandleFunc("GET /v1/reports/{id}/download", reportHandler.HandleDownload)
	s.mux.HandleFunc("DELETE /v1/reports/{id}", reportHandler.HandleDelete)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Handler returns the fully assembled middleware chain, outermost first:
// CORS -> Rate Limit -> Auth -> Router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	if s.authMiddleware != nil && s.config.AuthMode != "none" {
		if s.config.AuthRequired {
			handler = s.authMiddleware.RequireAuth(handler)
		} else {
			handler = s.authMiddleware.OptionalAuth(handler)
		}
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	log.Printf("Server listening on http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Meal Plans API: http://localhost%s/v1/meal-plans\n", addr)

	return http.ListenAndServe(addr, s.Handler())
}

// Close releases storage resources.
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
