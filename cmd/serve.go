package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"proposal_ai_server/api"
	"proposal_ai_server/config"
	"proposal_ai_server/internal/ai"
	handlers "proposal_ai_server/internal/api"
	"proposal_ai_server/internal/export"
	"proposal_ai_server/internal/orchestrator"
	"proposal_ai_server/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var addr string
	var offline bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the proposal HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config")
			cfg, err := config.LoadConfig(configDir)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ServerAddress = addr
			}
			return serve(cfg, offline)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP bind address (overrides SERVER_ADDRESS)")
	cmd.Flags().BoolVar(&offline, "offline", false, "Use canned text and placeholder images instead of the AI service")
	return cmd
}

// newOrchestrator wires the AI collaborators into an orchestrator.
func newOrchestrator(cfg config.Config, offline bool) (*orchestrator.Orchestrator, error) {
	if offline {
		log.Println("Running with offline generators; no AI service will be called.")
		gen := ai.Offline{}
		return orchestrator.New(gen, gen), nil
	}
	gen, err := ai.NewGenerator(cfg.AISettings())
	if err != nil {
		return nil, err
	}
	return orchestrator.New(gen, gen), nil
}

func serve(cfg config.Config, offline bool) error {
	orch, err := newOrchestrator(cfg, offline)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := session.NewStore()
	if ttl := cfg.SessionTTL(); ttl > 0 {
		go pruneSessions(ctx, store, ttl)
	}

	apiHandler := handlers.NewAPIHandler(
		orch,
		store,
		export.New(export.NewHTTPFetcher(cfg.FetchTimeout())),
	)

	// Select Gin mode based on APP_ENV
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in Gin Debug Mode")
	}

	router := gin.New()        // Use gin.New() for more control over middleware
	router.Use(gin.Logger())   // Add structured logger middleware
	router.Use(gin.Recovery()) // Add panic recovery middleware

	api.RegisterRoutes(router, apiHandler) // Register API endpoints

	server := &http.Server{
		Addr:        cfg.ServerAddress,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Generation runs inside the request, so the write timeout is off unless configured.
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting API server on %s\n", cfg.ServerAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("API server listen error: %s\n", err)
		}
		log.Println("API server has stopped listening.")
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("Received signal: %s. Shutting down server...", sig)

	shutdownCtx, serverCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer serverCancel()

	log.Println("Cancelling main application context...")
	cancel()

	log.Println("Shutting down API server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("API server forced shutdown error: %v", err)
	} else {
		log.Println("API server gracefully stopped.")
	}

	log.Println("Application exiting.")
	return nil
}

// pruneSessions drops idle sessions until ctx is cancelled.
func pruneSessions(ctx context.Context, store *session.Store, ttl time.Duration) {
	ticker := time.NewTicker(ttl / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := store.Prune(now.Add(-ttl)); n > 0 {
				log.Printf("Pruned %d idle sessions", n)
			}
		}
	}
}
