package v1

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/homebox/ai/core/llm"
	"github.com/hrygo/homebox/ai/intent"
)

type ParseIntentRequest struct {
	Text string `json:"text"`
}

// ParseIntentResponse carries the proposal and the names an edited action may target,
// including rooms and containers the proposal itself creates.
type ParseIntentResponse struct {
	*intent.Parsed
	LocationOptions []string `json:"locationOptions"`
	RoomOptions     []string `json:"roomOptions"`
}

type ExecuteIntentRequest struct {
	Text    string         `json:"text"`
	Actions intent.Actions `json:"actions"`
	History []ChatMessage  `json:"history,omitempty"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ParseIntent proposes actions for a sentence. Nothing is written.
func (s *APIV1Service) ParseIntent(c echo.Context) error {
	var req ParseIntentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}

	parsed, err := s.Assistant.Parse(c.Request().Context(), req.Text)
	if err != nil {
		slog.Error("api: parse failed", "error", err.Error())
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to parse")
	}

	snapshot, err := s.Store.Snapshot(c.Request().Context())
	if err != nil {
		slog.Error("api: snapshot failed", "error", err.Error())
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read inventory")
	}
	return c.JSON(http.StatusOK, &ParseIntentResponse{
		Parsed:          parsed,
		LocationOptions: intent.LocationOptions(snapshot.Locations, parsed.Actions),
		RoomOptions:     intent.RoomOptions(snapshot.Locations, parsed.Actions),
	})
}

// ExecuteIntent applies the actions the user confirmed, possibly edited, and returns the reply.
// An empty action list dismisses the proposal.
func (s *APIV1Service) ExecuteIntent(c echo.Context) error {
	var req ExecuteIntentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body: "+err.Error())
	}

	if !s.submitSemaphore.TryAcquire(1) {
		return echo.NewHTTPError(http.StatusConflict, "another submission is in progress")
	}
	defer s.submitSemaphore.Release(1)

	history := make([]llm.Message, 0, len(req.History))
	for _, m := range req.History {
		if m.Role == "user" || m.Role == "assistant" {
			history = append(history, llm.Message{Role: m.Role, Content: m.Content})
		}
	}

	outcome, err := s.Assistant.Submit(c.Request().Context(), req.Text, req.Actions, history, nil)
	if err != nil {
		slog.Error("api: execute failed", "error", err.Error())
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to execute")
	}
	return c.JSON(http.StatusOK, outcome)
}
