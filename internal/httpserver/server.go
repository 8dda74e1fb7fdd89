package httpserver

import (
	"context"
	"net/http"
	"strings"

	"inventory/backend/internal/config"
	productusecase "inventory/backend/internal/usecase/product"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Server wraps the HTTP server lifecycle.
type Server struct {
	httpServer     *http.Server
	router         *mux.Router
	productService *productusecase.Service
	logger         logrus.FieldLogger
	maxBodyBytes   int64
	addr           string
}

// NewServer constructs a new Server with configured dependencies.
func NewServer(cfg config.Config, productService *productusecase.Service, logger logrus.FieldLogger) *Server {
	router := mux.NewRouter()
	addr := cfg.HTTPPort
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	handler := withRequestID(withLogging(logger, withRecovery(logger, withCORS(router, cfg.AllowedOrigins))))

	srv := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		router:         router,
		productService: productService,
		logger:         logger,
		maxBodyBytes:   cfg.MaxBodyBytes,
		addr:           addr,
	}
	srv.registerRoutes()
	return srv
}

// Start listens on the configured address. It returns http.ErrServerClosed
// after Shutdown.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the fully wrapped handler chain.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the configured network address for the HTTP server.
func (s *Server) Addr() string {
	return s.addr
}
