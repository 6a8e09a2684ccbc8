package handler

import (
	"net/http"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/service"
)

// InboxHandler serves the admin pages for what visitors submit: contact
// messages, newsletter subscribers and registrations.
type InboxHandler struct {
	contacts      service.ContactService
	newsletter    service.NewsletterService
	registrations service.RegistrationService
	stats         service.StatsService
}

func NewInboxHandler(contacts service.ContactService, newsletter service.NewsletterService, registrations service.RegistrationService, stats service.StatsService) *InboxHandler {
	return &InboxHandler{contacts: contacts, newsletter: newsletter, registrations: registrations, stats: stats}
}

type statusRequest struct {
	Status string `json:"status"`
}

// Messages handles GET /api/admin/messages?q=
func (h *InboxHandler) Messages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.contacts.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err, "list_failed")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(msgs))
}

// UpdateMessage handles PUT /api/admin/messages/{id}
func (h *InboxHandler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var upd model.MessageUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}
	msg, err := h.contacts.Update(r.Context(), id, upd)
	if err != nil {
		writeServiceError(w, r, err, "update_failed")
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// DeleteMessage handles DELETE /api/admin/messages/{id}
func (h *InboxHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.contacts.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "delete_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Subscribers handles GET /api/admin/newsletter?q=
func (h *InboxHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.newsletter.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err, "list_failed")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(subs))
}

// UpdateSubscriber handles PUT /api/admin/newsletter/{id} with {"status": ...}
func (h *InboxHandler) UpdateSubscriber(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sub, err := h.newsletter.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, r, err, "update_failed")
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// DeleteSubscriber handles DELETE /api/admin/newsletter/{id}
func (h *InboxHandler) DeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.newsletter.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "delete_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Registrations handles GET /api/admin/registrations?q=
func (h *InboxHandler) Registrations(w http.ResponseWriter, r *http.Request) {
	regs, err := h.registrations.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err, "list_failed")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(regs))
}

// UpdateRegistration handles PUT /api/admin/registrations/{id} with {"status": ...}
func (h *InboxHandler) UpdateRegistration(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	reg, err := h.registrations.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, r, err, "update_failed")
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

// Stats handles GET /api/admin/stats
func (h *InboxHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "stats_failed")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
