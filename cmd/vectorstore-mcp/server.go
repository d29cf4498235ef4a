package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/Akhildas-ts/vectorstore-mcp/internal/config"
	"github.com/Akhildas-ts/vectorstore-mcp/internal/handler"
	"github.com/Akhildas-ts/vectorstore-mcp/internal/service"
	"github.com/Akhildas-ts/vectorstore-mcp/internal/storage"
)

type Server struct {
	Config   *config.Config
	Services *Services
	Handlers *Handlers
	Gatherer prometheus.Gatherer
}

type Services struct {
	Gateway   *service.Gateway
	MCPServer *service.MCPServerService
}

type Handlers struct {
	Health *handler.HealthHandler
	MCP    *handler.MCPHandler
}

func initializeServer(cfg *config.Config, reg prometheus.Registerer, opts ...storage.Option) *Server {
	opts = append([]storage.Option{storage.WithMetrics(storage.NewMetrics(reg))}, opts...)

	services := &Services{
		Gateway:   service.NewGatewayFromConfig(cfg, opts...),
		MCPServer: service.NewMCPServerService(cfg),
	}

	handlers := &Handlers{
		Health: handler.NewHealthHandler(services.Gateway),
		MCP:    handler.NewMCPHandler(services.Gateway, services.MCPServer),
	}

	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	return &Server{
		Config:   cfg,
		Services: services,
		Handlers: handlers,
		Gatherer: gatherer,
	}
}

// Routes builds the HTTP surface: the streamable MCP endpoint plus health,
// server info and metrics, behind CORS.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(requestLogger)

	r.HandleFunc("/health", s.Handlers.Health.HandleHealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/mcp-info", s.Handlers.MCP.HandleMCPRegistration).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	mcpServer := s.Handlers.MCP.Server()
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return mcpServer }, nil)
	r.Handle(s.Config.MCPPath, streamable)

	return cors.New(cors.Options{
		AllowedOrigins: s.Config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Mcp-Session-Id"},
	}).Handler(r)
}

// ListenAndServe runs the HTTP transport until ctx is cancelled, then shuts
// down within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.Config.Addr(),
		Handler:     s.Routes(),
		ReadTimeout: s.Config.HTTPReadTimeout,
		IdleTimeout: s.Config.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("mcp_path", s.Config.MCPPath).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}
