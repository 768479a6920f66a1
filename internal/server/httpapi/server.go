package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/growthpods/growthpods/internal/common"
	"github.com/growthpods/growthpods/internal/logging"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the echo instance with every route and middleware.
func NewRouter(h *Handler, registry *prometheus.Registry, logger logging.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	metrics := NewMetrics(registry)

	// Outermost first: the logger and metrics see the status of recovered panics.
	e.Use(requestLogger(logger))
	e.Use(metrics.middleware)
	e.Use(recoverer(logger))
	e.Use(echomw.BodyLimit("64K"))

	e.GET(common.PathPing, h.ping)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	e.POST(common.PathRegister, h.register)
	e.POST(common.PathLogin, h.login)
	e.POST(common.PathForgotPassword, h.forgotPassword)
	e.POST(common.PathResetPassword, h.resetPassword)
	e.POST(common.PathRefresh, h.refresh, h.requireAuth)
	e.POST(common.PathLogout, h.logout, h.requireAuth)
	e.POST(common.PathCopilot, h.chat, h.requireAuth)

	return e
}

type Server struct {
	addr   string
	echo   *echo.Echo
	logger logging.Logger
}

func NewServer(addr string, e *echo.Echo, logger logging.Logger) *Server {
	return &Server{addr: addr, echo: e, logger: logger}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.addr)
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info(ctx, "http server shutting down")
	return s.echo.Shutdown(shutdownCtx)
}
