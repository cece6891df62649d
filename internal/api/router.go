package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sasakorman/taxrunner/internal/api/handler"
	apimiddleware "github.com/sasakorman/taxrunner/internal/api/middleware"
	"github.com/sasakorman/taxrunner/internal/dependencies/clock"
	"github.com/sasakorman/taxrunner/internal/dependencies/random"
	"github.com/sasakorman/taxrunner/internal/middleware"
	"github.com/sasakorman/taxrunner/internal/services/claims"
	"github.com/sasakorman/taxrunner/internal/services/leaderboard"
	"github.com/sasakorman/taxrunner/internal/services/registry"
	"github.com/sasakorman/taxrunner/internal/services/runs"
	"github.com/sasakorman/taxrunner/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger   *slog.Logger
	AdminKey string
	Registry *registry.Service
	Runs     *runs.Tracker
	Board    *leaderboard.Store
	Claims   *claims.Service
	Hub      *sse.Hub
	Clock    clock.Clock
	Random   random.Random
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.Registry, cfg.Board)
	scoreHandler := handler.NewScoreHandler(cfg.Registry, cfg.Runs, cfg.Board, cfg.Hub, cfg.Clock, cfg.Logger)
	shopHandler := handler.NewShopHandler(cfg.Registry, cfg.Board, cfg.Hub, cfg.Clock, cfg.Random, cfg.Logger)
	winnerHandler := handler.NewWinnerHandler(cfg.Claims)
	eventsHandler := handler.NewEventsHandler(cfg.Hub, cfg.Board)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(apimiddleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Player routes
	api.HandleFunc("/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/status", playerHandler.Status).Methods(http.MethodGet)
	api.HandleFunc("/me", playerHandler.Me).Methods(http.MethodGet)
	api.HandleFunc("/claim-grants", playerHandler.ClaimGrants).Methods(http.MethodGet)

	// Run and score routes
	api.HandleFunc("/start-run", scoreHandler.StartRun).Methods(http.MethodPost)
	api.HandleFunc("/submit-score", scoreHandler.SubmitScore).Methods(http.MethodPost)
	api.HandleFunc("/leaderboard", scoreHandler.Leaderboard).Methods(http.MethodGet)

	// Shop routes
	api.HandleFunc("/purchase", shopHandler.Purchase).Methods(http.MethodPost)
	api.HandleFunc("/use-item", shopHandler.UseItem).Methods(http.MethodPost)

	// Winner and claim routes
	api.HandleFunc("/me/winner", winnerHandler.MeWinner).Methods(http.MethodGet)
	api.HandleFunc("/yesterday-winner", winnerHandler.YesterdayWinner).Methods(http.MethodGet)
	api.HandleFunc("/winners", winnerHandler.Winners).Methods(http.MethodGet)
	api.HandleFunc("/verify-winner", winnerHandler.VerifyWinner).Methods(http.MethodPost)

	// Admin routes guarded by the shared key
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(apimiddleware.AdminKey(cfg.AdminKey))
	admin.HandleFunc("/verify-claim", winnerHandler.AdminVerifyClaim).Methods(http.MethodPost)

	// Real-time event stream
	api.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
