package handler

import (
	"net/http"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/service"
)

// WizardFactory returns a fresh registration wizard. One is used per request.
type WizardFactory func() *service.RegistrationWizard

// RegistrationHandler serves the public registration flow.
type RegistrationHandler struct {
	newWizard WizardFactory
}

func NewRegistrationHandler(newWizard WizardFactory) *RegistrationHandler {
	return &RegistrationHandler{newWizard: newWizard}
}

// Events handles GET /api/registration/events?q=
func (h *RegistrationHandler) Events(w http.ResponseWriter, r *http.Request) {
	wiz := h.newWizard()
	if err := wiz.Open(r.Context()); err != nil {
		writeServiceError(w, r, err, "list_failed")
		return
	}
	writeJSON(w, http.StatusOK, wiz.Options(r.URL.Query().Get("q")))
}

type registerRequest struct {
	EventID string `json:"event_id"`
	service.RegistrationDetails
}

// registerResponse carries the PDF receipt base64-encoded.
type registerResponse struct {
	Registration *model.Registration `json:"registration"`
	Receipt      []byte              `json:"receipt"`
	Filename     string              `json:"filename"`
}

// Register handles POST /api/registrations. It walks the wizard in one go:
// select the event, submit the details, return the confirmation.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.EventID == "" {
		writeError(w, http.StatusBadRequest, "event_id_required")
		return
	}

	wiz := h.newWizard()
	if err := wiz.Open(r.Context()); err != nil {
		writeServiceError(w, r, err, "register_failed")
		return
	}
	if err := wiz.SelectEvent(req.EventID); err != nil {
		writeServiceError(w, r, err, "register_failed")
		return
	}
	conf, err := wiz.SubmitDetails(r.Context(), req.RegistrationDetails)
	if err != nil {
		writeServiceError(w, r, err, "register_failed")
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{
		Registration: conf.Registration,
		Receipt:      conf.Receipt,
		Filename:     conf.Filename,
	})
}
