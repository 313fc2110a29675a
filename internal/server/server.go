/*
Package server implements the application's network transport layer.
It initializes the HTTP server, configures timeouts, and manages
core service dependencies: the database, the exercise catalog, and the
assistant specialists.
*/
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"healthbutler/internal/catalog"
	"healthbutler/internal/coordinator"
	"healthbutler/internal/database"
	"healthbutler/internal/fitness"
	"healthbutler/internal/nutrition"
	"healthbutler/internal/utility"
)

const (
	defaultCacheFile = "data/exercise_cache.json"

	// catalogRefreshInterval re-hydrates the snapshot out-of-band;
	// filtering requests keep using the previous snapshot meanwhile.
	catalogRefreshInterval = 24 * time.Hour
)

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	// port specifies the TCP port the server will listen on.
	port int

	// db provides access to the database service and connection pool.
	db database.Service

	// store holds the last hydrated exercise snapshot.
	store *catalog.Store

	// client fetches/caches the remote exercise catalog.
	client *catalog.Client

	nutrition *nutrition.Agent
	fitness   *fitness.Agent
	coord     *coordinator.Coordinator

	// Echo is the underlying web framework instance.
	*echo.Echo
}

// NewServer initializes a new Server instance and returns a configured
// *http.Server. It reads configuration from environment variables, kicks
// off background catalog hydration, and sets production-ready network
// timeouts.
func NewServer() *http.Server {
	// Attempt to parse port from environment; fallback to 8080 if not set or invalid.
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port == 0 {
		port = 8080
	}

	cacheFile := os.Getenv("EXERCISE_CACHE_FILE")
	if cacheFile == "" {
		cacheFile = defaultCacheFile
	}

	store := catalog.NewStore()
	client := catalog.NewClient(cacheFile)

	nutritionAgent := nutrition.NewAgent()
	fitnessAgent := fitness.NewAgent(store, client)

	newApp := &Server{
		port:      port,
		db:        database.NewService(),
		store:     store,
		client:    client,
		nutrition: nutritionAgent,
		fitness:   fitnessAgent,
		coord:     coordinator.New(nutritionAgent, fitnessAgent),
	}

	// Hydrate the catalog in the background and keep it fresh on a
	// schedule. Requests landing before the first hydration completes
	// are served from the built-in seed snapshot.
	go newApp.hydrateLoop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", newApp.port),
		Handler:      newApp.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}

func (s *Server) hydrateLoop() {
	s.hydrateOnce(false)

	ticker := time.NewTicker(catalogRefreshInterval)
	defer ticker.Stop()
	for range ticker.C {
		s.hydrateOnce(true)
	}
}

// hydrateOnce fetches a fresh catalog and swaps the snapshot. Failures
// leave the previous snapshot in place.
func (s *Server) hydrateOnce(forceRefresh bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	exercises, err := s.client.Hydrate(ctx, forceRefresh)
	if err != nil {
		log.Warn().Err(err).Msg("Catalog hydration failed, keeping current snapshot")
		return
	}
	s.store.Replace(exercises)
	utility.BroadcastRefresh()
}
