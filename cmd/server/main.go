package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"redshift-backend/internal/api"
	"redshift-backend/internal/app"
	"redshift-backend/internal/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON config file")
	envPath := flag.String("env", ".env", "path to an optional .env file")
	flag.Parse()

	if err := config.LoadEnvFile(*envPath); err != nil {
		log.Fatalf("❌ %v", err)
	}
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Services
	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open artifact store: %v", err)
	}
	defer application.Close()

	if err := application.Predictor.Preload(ctx); err != nil {
		log.Fatalf("❌ Failed to load artifacts: %v", err)
	}

	// Initialize Handler
	handler := api.NewHandler(application.Predictor, cfg.Server.MaxUploadBytes, cfg.Server.AllowedOrigins)
	handler.ArtifactStatus = application.ArtifactStatus

	// Router Setup
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", cfg.Auth.Header},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Root endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Galaxy Redshift Predictor is Running"))
	})

	var gate func(http.Handler) http.Handler
	if cfg.Auth.Disabled {
		log.Printf("⚠️  Authentication gate disabled")
	} else {
		gate = api.RequireUser(cfg.Auth.Header)
	}
	handler.RegisterRoutes(r, gate)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("🚀 Starting Redshift Predictor on http://localhost:%d", cfg.Server.Port)
	log.Printf("📡 CORS enabled for: %v", cfg.Server.AllowedOrigins)
	log.Printf("🔭 Schema: %d features, scaler=%q model=%q",
		len(cfg.Schema.AllColumns), cfg.Artifacts.ScalerName, cfg.Artifacts.ModelName)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed to start: %v", err)
	}
}
