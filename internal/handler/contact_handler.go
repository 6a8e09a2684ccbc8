package handler

import (
	"net/http"
	"strings"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/service"
)

// ContactHandler handles the public contact and newsletter forms.
type ContactHandler struct {
	contactService    service.ContactService
	newsletterService service.NewsletterService
}

// NewContactHandler creates a ContactHandler with the given services.
func NewContactHandler(contactService service.ContactService, newsletterService service.NewsletterService) *ContactHandler {
	return &ContactHandler{contactService: contactService, newsletterService: newsletterService}
}

// submitRequest is the expected JSON body for POST /api/contact.
type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Submit handles POST /api/contact.
// name, email and message are required; the subject defaults to
// service.DefaultContactSubject.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg := &model.Message{
		Sender:  strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Subject: strings.TrimSpace(req.Subject),
		Content: strings.TrimSpace(req.Message),
	}
	if err := h.contactService.Submit(r.Context(), msg); err != nil {
		writeServiceError(w, r, err, "submit_failed")
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

type subscribeRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Source string `json:"source"`
}

// Subscribe handles POST /api/newsletter. A duplicate email answers 409
// already_subscribed so the site can show "already subscribed" instead of
// a generic failure.
func (h *ContactHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sub, err := h.newsletterService.Subscribe(r.Context(), req.Name, req.Email, req.Source)
	if err != nil {
		writeServiceError(w, r, err, "subscribe_failed")
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}
