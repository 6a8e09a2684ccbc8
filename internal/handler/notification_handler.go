package handler

import (
	"net/http"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
)

// NotificationSource is the admin notification feed.
type NotificationSource interface {
	List() []model.Notification
	Unread() int
	MarkAllRead()
	Listen() (<-chan model.Notification, func())
}

// NotificationHandler serves the admin notification feed over HTTP.
type NotificationHandler struct {
	feed NotificationSource
}

func NewNotificationHandler(feed NotificationSource) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

// List handles GET /api/admin/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": nonNil(h.feed.List()),
		"unread":        h.feed.Unread(),
	})
}

// MarkRead handles POST /api/admin/notifications/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	h.feed.MarkAllRead()
	w.WriteHeader(http.StatusNoContent)
}
