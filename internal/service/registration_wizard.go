package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/receipt"
	"github.com/Gilson1506/CCALLASPROJET/internal/repository"
)

// WizardStep is a state of the public registration flow.
type WizardStep string

const (
	StepChooseEvent  WizardStep = "choose-event"
	StepEnterDetails WizardStep = "enter-details"
	StepConfirmation WizardStep = "confirmation"
)

// DefaultEventLocation is printed when a calendar entry has no venue.
const DefaultEventLocation = "Luanda, Angola"

var (
	ErrWrongStep    = errors.New("registration: action not allowed in current step")
	ErrUnknownEvent = errors.New("registration: unknown event")
)

// EventOption is one entry of the registration event picker.
type EventOption struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	DateDisplay string `json:"date_display"`
	Location    string `json:"location"`
	CoverImage  string `json:"cover_image"`
}

// RegistrationDetails is the contact form of the second step.
type RegistrationDetails struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Company string `json:"company" validate:"max=255"`
}

// Confirmation is the outcome of a successful registration.
type Confirmation struct {
	Registration *model.Registration
	Receipt      []byte
	Filename     string
}

// RegistrationWizard walks choose-event -> enter-details -> confirmation.
// It is not safe for concurrent use.
type RegistrationWizard struct {
	calendar      repository.CalendarRepository
	registrations repository.RegistrationRepository
	now           func() time.Time

	step         WizardStep
	options      []EventOption
	selected     *EventOption
	confirmation *Confirmation
}

// NewRegistrationWizard creates a wizard in the choose-event step.
func NewRegistrationWizard(calendar repository.CalendarRepository, registrations repository.RegistrationRepository) *RegistrationWizard {
	return &RegistrationWizard{
		calendar:      calendar,
		registrations: registrations,
		now:           time.Now,
		step:          StepChooseEvent,
	}
}

// Open resets the wizard and loads the event options.
func (w *RegistrationWizard) Open(ctx context.Context) error {
	w.Reset()
	entries, err := w.calendar.List(ctx)
	if err != nil {
		slog.Error("registration: load events failed", "error", err)
		return err
	}
	w.options = make([]EventOption, 0, len(entries))
	for _, c := range entries {
		w.options = append(w.options, optionFromCalendar(c))
	}
	return nil
}

func optionFromCalendar(c *model.CalendarEntry) EventOption {
	title := c.EventName
	if title == "" {
		title = "Evento Sem Nome"
	}
	return EventOption{
		ID:          c.ID,
		Title:       title,
		DateDisplay: c.DateDisplay(),
		Location:    DefaultEventLocation,
		CoverImage:  c.Image,
	}
}

// Reset returns to choose-event and clears the selection.
func (w *RegistrationWizard) Reset() {
	w.step = StepChooseEvent
	w.selected = nil
	w.confirmation = nil
}

func (w *RegistrationWizard) Step() WizardStep { return w.step }

// Options returns the loaded options whose title contains q, ignoring case.
func (w *RegistrationWizard) Options(q string) []EventOption {
	out := make([]EventOption, 0, len(w.options))
	for _, o := range w.options {
		if model.MatchesQuery(q, o.Title) {
			out = append(out, o)
		}
	}
	return out
}

// Selected returns the chosen option, or nil.
func (w *RegistrationWizard) Selected() *EventOption { return w.selected }

// SelectEvent chooses an option and moves to enter-details.
func (w *RegistrationWizard) SelectEvent(id string) error {
	if w.step != StepChooseEvent {
		return ErrWrongStep
	}
	for i := range w.options {
		if w.options[i].ID == id {
			opt := w.options[i]
			w.selected = &opt
			w.step = StepEnterDetails
			return nil
		}
	}
	return ErrUnknownEvent
}

// Back returns from enter-details to choose-event.
func (w *RegistrationWizard) Back() {
	if w.step == StepEnterDetails {
		w.step = StepChooseEvent
		w.selected = nil
	}
}

// SubmitDetails validates d, stores a pending registration and renders the
// receipt. On any error the wizard stays in enter-details.
func (w *RegistrationWizard) SubmitDetails(ctx context.Context, d RegistrationDetails) (*Confirmation, error) {
	if w.step != StepEnterDetails || w.selected == nil {
		return nil, ErrWrongStep
	}
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Company = strings.TrimSpace(d.Company)
	if err := model.Validate(d); err != nil {
		return nil, err
	}

	var pdf bytes.Buffer
	if err := receipt.Render(&pdf, receipt.Data{
		EventTitle:  w.selected.Title,
		DateDisplay: w.selected.DateDisplay,
		Location:    w.selected.Location,
		Name:        d.Name,
		Email:       d.Email,
		Phone:       d.Phone,
		Company:     d.Company,
		GeneratedAt: w.now(),
	}); err != nil {
		slog.Error("registration: receipt failed", "error", err)
		return nil, err
	}

	// event_id stays NULL: options come from calendar_dates, not events.
	reg := &model.Registration{
		EventName: w.selected.Title,
		UserName:  d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Status:    model.RegistrationPending,
	}
	if err := model.Validate(reg); err != nil {
		return nil, err
	}
	if err := w.registrations.Create(ctx, reg); err != nil {
		slog.Error("registration: insert failed", "event_name", reg.EventName, "error", err)
		return nil, err
	}

	w.confirmation = &Confirmation{
		Registration: reg,
		Receipt:      pdf.Bytes(),
		Filename:     receipt.Filename(d.Name),
	}
	w.step = StepConfirmation
	slog.Info("registration created", "registration_id", reg.ID, "event_name", reg.EventName)
	return w.confirmation, nil
}

// Confirmation returns the result of the last successful submit.
func (w *RegistrationWizard) Confirmation() *Confirmation { return w.confirmation }
