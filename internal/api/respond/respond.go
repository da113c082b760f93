// Package respond writes errors and live streams for the gin handlers.
package respond

import (
	"errors"
	"io"
	"net/http"

	"booking-app/internal/domain/apperr"
	"booking-app/internal/live"
	"booking-app/internal/workflow"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Status maps an error kind to an HTTP status.
func Status(err error) int {
	switch apperr.Kind(err) {
	case "validation":
		return http.StatusBadRequest
	case "policy":
		return http.StatusForbidden
	case "not_found":
		return http.StatusNotFound
	case "busy":
		return http.StatusConflict
	case "remote":
		return http.StatusBadGateway
	}
	if errors.Is(err, workflow.ErrNoModal) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Error writes err as {"error": message, "field": field}.
func Error(c *gin.Context, err error) {
	status := Status(err)
	body := gin.H{"error": workflow.Message(err)}
	var verr *apperr.ValidationError
	if errors.As(err, &verr) && verr.Field != "" {
		body["field"] = verr.Field
	}
	if status >= http.StatusInternalServerError {
		log.WithFields(log.Fields{"path": c.FullPath(), "kind": apperr.Kind(err)}).WithError(err).Error("Request failed")
	}
	c.JSON(status, body)
}

// Stream sends every value fn publishes as a server-sent event until the
// client goes away. Slow clients only see the newest value.
func Stream[T any](c *gin.Context, event string, subscribe func(put func(T)) (unsubscribe func())) {
	mb := live.NewMailbox[T]()
	unsubscribe := subscribe(mb.Put)
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case v := <-mb.C():
			c.SSEvent(event, v)
			return true
		}
	})
}
