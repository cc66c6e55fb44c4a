package httpapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// events streams the caller's notifications as server-sent events. Delivery
// is best-effort: events published while no stream is open are lost.
func (s *Server) events(c echo.Context) error {
	user := currentUser(c)

	eventCh, cancel := s.hub.Subscribe(user.IdentityKey)
	defer cancel()

	header := c.Response().Header()
	header.Set(echo.HeaderContentType, "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Flush()

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case ev, ok := <-eventCh:
			if !ok {
				return nil
			}
			if _, err := fmt.Fprintf(c.Response(), "data: %s\n\n", ev.Message); err != nil {
				return nil
			}
			c.Response().Flush()
		}
	}
}
