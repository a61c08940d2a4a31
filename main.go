package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/sirtec-dev/portal-backend/internal/auth"
	"github.com/sirtec-dev/portal-backend/internal/bootstrap"
	"github.com/sirtec-dev/portal-backend/internal/content"
	"github.com/sirtec-dev/portal-backend/internal/db"
	"github.com/sirtec-dev/portal-backend/internal/middleware"
	"github.com/sirtec-dev/portal-backend/internal/portal"
	"github.com/sirtec-dev/portal-backend/internal/provider"
	"github.com/sirtec-dev/portal-backend/internal/seeds"

	// Provider implementations register themselves.
	_ "github.com/sirtec-dev/portal-backend/internal/provider/hosted"
	_ "github.com/sirtec-dev/portal-backend/internal/provider/local"
	_ "github.com/sirtec-dev/portal-backend/internal/provider/memory"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	configPath := os.Getenv("PORTAL_CONFIG")
	if configPath == "" {
		configPath = "config/portal.yaml"
	}
	contentCfg, err := content.LoadConfig(configPath)
	if err != nil {
		log.Fatal("Failed to load portal config: ", err)
	}

	providerCfg := provider.LoadFromEnv()

	var catalog *content.Catalog
	if providerCfg.Provider == provider.ProviderLocal {
		db.Connect()
		if err := seeds.SeedContent(db.DB, contentCfg); err != nil {
			log.Fatal("Failed to seed content: ", err)
		}
		catalog, err = content.FromDB(db.DB, contentCfg)
		if err != nil {
			log.Fatal("Failed to load content: ", err)
		}
	} else {
		catalog = content.FromConfig(contentCfg)
	}

	idp, err := provider.NewProvider(providerCfg)
	if err != nil {
		log.Fatal("Failed to create identity provider: ", err)
	}
	log.Printf("Using %s identity provider", idp.Name())

	boot := bootstrap.New(idp)

	authHandler := &auth.Handler{Bootstrapper: boot, Units: catalog.Units}
	portalHandler := &portal.Handler{Bootstrapper: boot, Catalog: catalog}

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := idp.HealthCheck(req.Context()); err != nil {
			http.Error(w, "unhealthy: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	r.Mount("/auth", authHandler.SetupRoutes())
	r.Mount("/portal", portalHandler.SetupRoutes())

	server := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Server listening on port :%s...", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	// Single teardown path: stop accepting requests, then release the
	// change-event subscription exactly once.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}

	boot.Close()
	if closer, ok := idp.(interface{ Close() }); ok {
		closer.Close()
	}
}
