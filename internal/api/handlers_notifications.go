// internal/api/handlers_notifications.go
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hol-manager/internal/common/logger"
	"hol-manager/internal/notify"
)

// NotificationLister reads the in-app inbox.
type NotificationLister interface {
	List(ctx context.Context, limit int) ([]notify.Notification, error)
}

type NotificationsHandler struct {
	sink   NotificationLister
	logger logger.Logger
}

func NewNotificationsHandler(sink NotificationLister, log logger.Logger) *NotificationsHandler {
	return &NotificationsHandler{sink: sink, logger: log}
}

// List returns the most recent inbox entries, newest first.
func (h *NotificationsHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	notifications, err := h.sink.List(c.Request.Context(), limit)
	if err != nil {
		respondStandardError(c, http.StatusInternalServerError, err)
		return
	}
	if notifications == nil {
		notifications = []notify.Notification{}
	}
	respondSuccess(c, http.StatusOK, gin.H{"notifications": notifications})
}
