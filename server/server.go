package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/homebox/ai"
	"github.com/hrygo/homebox/ai/metrics"
	"github.com/hrygo/homebox/internal/profile"
	apiv1 "github.com/hrygo/homebox/server/router/api/v1"
	"github.com/hrygo/homebox/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	httpServer *http.Server
}

func NewServer(_ context.Context, profile *profile.Profile, store *store.Store, assistant *ai.Assistant, m *metrics.PrometheusExporter) *Server {
	if m == nil {
		m = metrics.NewPrometheusExporter(metrics.DefaultConfig())
	}

	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(middleware.Recover())
	echoServer.Use(middleware.BodyLimit("1M"))

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})
	echoServer.GET("/metrics", echo.WrapHandler(m.Handler()))

	apiv1.NewAPIV1Service(profile, store, assistant, m).RegisterRoutes(echoServer)

	return &Server{
		Profile:    profile,
		Store:      store,
		echoServer: echoServer,
		httpServer: &http.Server{
			Handler:           echoServer,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}

// Start listens on the profile address and serves until Shutdown.
func (s *Server) Start(_ context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", addr)
	}

	slog.Info("server: listening", "addr", listener.Addr().String(), "mode", s.Profile.Mode)
	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server stopped")
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	slog.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("server: failed to shutdown", "error", err.Error())
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("server: failed to close store", "error", err.Error())
	}
	slog.Info("server: stopped")
}
