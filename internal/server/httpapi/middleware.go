package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/growthpods/growthpods/internal/logging"
	"github.com/growthpods/growthpods/internal/server/auth"
	"github.com/growthpods/growthpods/internal/server/services"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const identityKey = "auth_identity"

// requireAuth resolves the bearer value and stores the caller's identity.
func (h *Handler) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return jsonError(c, http.StatusUnauthorized, "missing authorization header")
		}
		bearer, ok := auth.BearerToken(header)
		if !ok {
			return jsonError(c, http.StatusUnauthorized, "invalid authorization header")
		}

		id, err := h.users.Authenticate(c.Request().Context(), bearer)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(identityKey, id)
		return next(c)
	}
}

func getIdentity(c echo.Context) *services.Identity {
	id, _ := c.Get(identityKey).(*services.Identity)
	return id
}

// requestLogger logs one line per request. Header values are never logged.
func requestLogger(logger logging.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURIPath: true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			args := []any{"method", v.Method, "path", v.URIPath, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				args = append(args, "error", v.Error)
				logger.Error(c.Request().Context(), "request", args...)
				return nil
			}
			logger.Info(c.Request().Context(), "request", args...)
			return nil
		},
	})
}

// recoverer turns panics into errors returned up the chain instead of
// writing the response itself.
func recoverer(logger logging.Logger) echo.MiddlewareFunc {
	return echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableErrorHandler: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error(c.Request().Context(), "panic recovered", "error", err, "stack", string(stack))
			return err
		},
	})
}

// Metrics are the HTTP request counters exported on /metrics.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "growthpods",
				Name:      "http_requests_total",
				Help:      "HTTP requests by route, method and status.",
			},
			[]string{"route", "method", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "growthpods",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
	}
	reg.MustRegister(m.RequestsTotal, m.RequestDuration)
	return m
}

func (m *Metrics) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			// Commit the error response so the status label is final. The
			// default error handler skips committed responses, so returning
			// err afterwards only informs outer middleware.
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request().Method
		m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(c.Response().Status)).Inc()
		m.RequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
		return err
	}
}
