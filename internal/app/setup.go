// Package app wires the product service together.
package app

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/tienda/internal/config"
	"github.com/abgdnv/tienda/internal/service"
	"github.com/abgdnv/tienda/internal/store"
	grpcImpl "github.com/abgdnv/tienda/internal/transport/grpc"
	"github.com/abgdnv/tienda/internal/transport/rest"
	"github.com/abgdnv/tienda/pkg/messaging"
	"github.com/abgdnv/tienda/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
)

type Dependencies struct {
	ProductService service.ProductService
	Health         *grpcImpl.HealthReporter
	Metrics        http.Handler
	Logger         *slog.Logger
}

// Resources are the long-lived clients created by main before wiring.
// DbPool is nil when the in-memory store is configured; Registry may be nil.
type Resources struct {
	DbPool    *pgxpool.Pool
	Publisher messaging.Publisher
	Registry  *promclient.Registry
}

func SetupDependencies(cfg *config.Config, res Resources, logger *slog.Logger) *Dependencies {
	productStore, pinger := newStore(cfg, res.DbPool, logger)

	publisher := res.Publisher
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}

	metrics := promhttp.Handler()
	if res.Registry != nil {
		metrics = promhttp.HandlerFor(res.Registry, promhttp.HandlerOpts{})
	}

	return &Dependencies{
		ProductService: service.NewService(productStore, publisher),
		Health:         grpcImpl.NewHealthReporter(pinger, cfg.GRPC.HealthInterval, cfg.Database.Timeout, logger),
		Metrics:        metrics,
		Logger:         logger,
	}
}

// newStore picks the storage backend and, when enabled, guards it with a circuit breaker.
// The returned pinger is nil for the in-memory store.
func newStore(cfg *config.Config, dbPool *pgxpool.Pool, logger *slog.Logger) (store.ProductStore, grpcImpl.Pinger) {
	var (
		productStore store.ProductStore
		pinger       grpcImpl.Pinger
	)
	if dbPool == nil {
		productStore = store.NewMemoryStore()
	} else {
		pgStore := store.NewPgStore(dbPool)
		productStore, pinger = pgStore, pgStore
	}
	if cfg.Resilience.CircuitBreaker.Enabled {
		productStore = store.NewBreakerStore(productStore, cfg.Resilience.CircuitBreaker, logger)
	}
	return productStore, pinger
}

// SetupHttpHandler builds the router with the product routes and the metrics endpoint.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	productHandler := rest.NewHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux)
	mux.Method(http.MethodGet, "/metrics", deps.Metrics)
}

// SetupHttpServer creates and configures an HTTP server for the product service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, "product-http", mux)
}

// SetupGrpcServer creates the gRPC server that carries the health service.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	return server.NewGRPCServer(deps.Logger, reflectionEnabled, deps.Health.Register)
}
