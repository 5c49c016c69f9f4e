package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/semaphore"

	"github.com/hrygo/homebox/ai"
	"github.com/hrygo/homebox/ai/metrics"
	"github.com/hrygo/homebox/internal/profile"
	"github.com/hrygo/homebox/store"
)

type APIV1Service struct {
	Profile   *profile.Profile
	Store     *store.Store
	Assistant *ai.Assistant
	Metrics   *metrics.PrometheusExporter

	// One batch executes at a time; concurrent submissions are rejected.
	submitSemaphore *semaphore.Weighted
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, assistant *ai.Assistant, m *metrics.PrometheusExporter) *APIV1Service {
	return &APIV1Service{
		Profile:         profile,
		Store:           store,
		Assistant:       assistant,
		Metrics:         m,
		submitSemaphore: semaphore.NewWeighted(1),
	}
}

// RegisterRoutes registers the REST API under /api/v1.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	g := echoServer.Group("/api/v1", s.metricsMiddleware)
	g.POST("/intent/parse", s.ParseIntent)
	g.POST("/intent/execute", s.ExecuteIntent)
	g.GET("/locations", s.ListLocations)
	g.GET("/items", s.ListItems)
}

func (s *APIV1Service) metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		code := c.Response().Status
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		} else if err != nil {
			code = http.StatusInternalServerError
		}
		s.Metrics.RecordAPIRequest(c.Path(), code)
		return err
	}
}
