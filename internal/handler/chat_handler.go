package handler

import (
	"net/http"

	"github.com/Gilson1506/CCALLASPROJET/internal/service"
)

// ChatHandler serves the live chat for visitors and admins.
type ChatHandler struct {
	svc service.ChatService
}

func NewChatHandler(svc service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// Send handles POST /api/chat/messages. The response carries session_id;
// the widget keeps it for the next message.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req service.VisitorMessage
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := h.svc.SendVisitorMessage(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "send_failed")
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// History handles GET /api/chat/sessions/{id}/messages
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.svc.History(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "history_failed")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(msgs))
}

// Sessions handles GET /api/admin/chat/sessions
func (h *ChatHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.ListActiveSessions(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "list_failed")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(sessions))
}

// Open handles POST /api/admin/chat/sessions/{id}/open: history plus
// marking the visitor's messages read.
func (h *ChatHandler) Open(w http.ResponseWriter, r *http.Request) {
	session, msgs, err := h.svc.OpenSession(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "open_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session":  session,
		"messages": nonNil(msgs),
	})
}

type replyRequest struct {
	Content string `json:"content"`
}

// Reply handles POST /api/admin/chat/sessions/{id}/messages
func (h *ChatHandler) Reply(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := h.svc.SendAdminMessage(r.Context(), r.PathValue("id"), req.Content)
	if err != nil {
		writeServiceError(w, r, err, "send_failed")
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// Close handles POST /api/admin/chat/sessions/{id}/close
func (h *ChatHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CloseSession(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err, "close_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
