package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/api"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/setup"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/setup/logger"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Jury Agent API",
			Description: "LLM jury grading of medical abstract summaries",
			Version:     "1.0.0",
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "grade", Description: "Grading operations"}},
	}
}

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	cfg := setup.LoadConfig()
	lg := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Logger = lg

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Wire dependencies
	deps, err := setup.Wire(ctx, cfg, setup.Options{}, &lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("Unable to load dependencies")
	}

	// API
	handler := api.NewHandler(deps.Executor, deps.Panel.Identities(), &lg)
	container := restful.NewContainer()
	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)
	api.RegisterRoutes(container, handler)
	api.RegisterMetrics(container)

	config := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       "/api/v1/openapi.json",
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}
	container.Add(restfulspec.NewOpenAPIService(config))

	// CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	lg.Info().
		Str("address", addr).
		Strs("tasks", deps.Executor.Tasks()).
		Strs("judges", deps.Panel.Keys()).
		Msg("Starting Jury Agent API")

	// Judge calls can take minutes, so there is no write timeout.
	server := http.Server{
		Addr:              addr,
		Handler:           corsHandler.Handler(container),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Error().Err(err).Msg("Server failed")
		os.Exit(1)
	}
	lg.Info().Msg("Server stopped")
}
