package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"dogfarm/internal/adapters/auth/cloudauth"
	authmem "dogfarm/internal/adapters/auth/memory"
	blobfactory "dogfarm/internal/adapters/blob"
	"dogfarm/internal/platform/logger"
	"dogfarm/internal/ports/auth"
	"dogfarm/internal/router"
)

// @title           Dog Farm API
// @version         1.0
// @description     Backend del sitio de adopción Dog Farm: catálogo de perros, reservas de visita y panel admin.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	ctx := context.Background()

	media, err := blobfactory.Open(ctx)
	if err != nil {
		log.Error("blob store init failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	provider := buildProvider(log)

	r, cleanup := router.NewRouter(router.Options{
		Provider: provider,
		Blob:     media,
		Logger:   log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	err = srv.ListenAndServe()
	cleanup()
	if err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

// buildProvider decide el provider de identidad por env:
// con AUTH_BASE_URL usa el servicio hosted; si no, el in-memory
// con el admin seed (dev/demo).
func buildProvider(log logger.Logger) auth.Provider {
	baseURL := os.Getenv("AUTH_BASE_URL")
	if baseURL == "" {
		log.Info("auth: using in-memory provider", nil)
		return authmem.NewProvider()
	}

	client, err := cloudauth.NewClient(cloudauth.Config{
		BaseURL:      baseURL,
		APIKey:       os.Getenv("AUTH_API_KEY"),
		APIKeyHeader: os.Getenv("AUTH_API_KEY_HEADER"),
	})
	if err != nil {
		log.Error("auth: cloudauth client init failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	log.Info("auth: using cloudauth provider", map[string]any{"base_url": baseURL})
	return cloudauth.NewProvider(client)
}
