package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/homebox/store"
)

func (s *APIV1Service) ListLocations(c echo.Context) error {
	find := &store.FindLocation{}
	if kind := c.QueryParam("type"); kind != "" {
		k := store.LocationKind(kind)
		find.Kind = &k
	}
	if parent := c.QueryParam("parentId"); parent != "" {
		find.ParentID = &parent
	}

	list, err := s.Store.ListLocations(c.Request().Context(), find)
	if err != nil {
		slog.Error("api: list locations failed", "error", err.Error())
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list locations")
	}
	return c.JSON(http.StatusOK, map[string]any{"locations": list})
}

func (s *APIV1Service) ListItems(c echo.Context) error {
	find := &store.FindItem{}
	if locationID := c.QueryParam("locationId"); locationID != "" {
		find.LocationID = &locationID
	}
	if name := c.QueryParam("name"); name != "" {
		find.Name = &name
	}

	list, err := s.Store.ListItems(c.Request().Context(), find)
	if err != nil {
		slog.Error("api: list items failed", "error", err.Error())
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list items")
	}
	return c.JSON(http.StatusOK, map[string]any{"items": list})
}
