package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tripsplit/expenses-system/internal/api/metrics"
	"github.com/tripsplit/expenses-system/internal/core/ports"
)

// WatchHandler streams project change events over Server-Sent Events.
type WatchHandler struct {
	projects   ports.ProjectService
	subscriber ports.ChangeSubscriber
}

func NewWatchHandler(projects ports.ProjectService, subscriber ports.ChangeSubscriber) *WatchHandler {
	return &WatchHandler{projects: projects, subscriber: subscriber}
}

// Watch handles GET /v1/projects/:id/watch. It verifies membership, then
// forwards change events as SSE until the client disconnects.
//
// @Summary      Subscribe to a project's change events (SSE)
// @Tags         projects
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        id  path  string  true  "Project id"
// @Success      200  "event stream"
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id}/watch [get]
func (h *WatchHandler) Watch(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	projectID := c.Param("id")
	// membership gate; also yields 404 for unknown projects
	if _, err := h.projects.GetProject(c.Request().Context(), session, projectID); err != nil {
		return err
	}

	ctx := c.Request().Context()
	events, cancel, err := h.subscriber.Subscribe(ctx, projectID)
	if err != nil {
		return err
	}
	defer cancel()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	metrics.WatchSubscribers.Inc()
	defer metrics.WatchSubscribers.Dec()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", event.Kind, payload); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
