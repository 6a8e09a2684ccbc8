package handler

import (
	"net/http"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/service"
)

// ContentHandler serves the public site's read-only content.
type ContentHandler struct {
	events   service.EventService
	news     service.NewsService
	calendar service.CalendarService
	partners service.PartnerService
	fairs    service.FairService
	search   service.SearchService
}

// ContentServices groups the services behind ContentHandler.
type ContentServices struct {
	Events   service.EventService
	News     service.NewsService
	Calendar service.CalendarService
	Partners service.PartnerService
	Fairs    service.FairService
	Search   service.SearchService
}

func NewContentHandler(s ContentServices) *ContentHandler {
	return &ContentHandler{
		events:   s.Events,
		news:     s.News,
		calendar: s.Calendar,
		partners: s.Partners,
		fairs:    s.Fairs,
		search:   s.Search,
	}
}

// Events handles GET /api/events?category=
func (h *ContentHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListPublished(r.Context(), model.EventFilter{Category: r.URL.Query().Get("category")})
	if err != nil {
		writeServiceError(w, r, err, "list_failed")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(events))
}

// Event handles GET /api/events/{id}. Drafts are reported as not found.
func (h *ContentHandler) Event(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	e, err := h.events.GetPublished(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "get_failed")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// News handles GET /api/news
func (h *ContentHandler) News(w http.ResponseWriter, r *http.Request) {
	news, err := h.news.ListPublished(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "list_failed")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(news))
}

// Article handles GET /api/news/{id}
func (h *ContentHandler) Article(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	n, err := h.news.GetPublished(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "get_failed")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// Calendar handles GET /api/calendar
func (h *ContentHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	entries, err := h.calendar.List(r.Context(), "")
	if err != nil {
		writeServiceError(w, r, err, "list_failed")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(entries))
}

// Partners handles GET /api/partners (active only)
func (h *ContentHandler) Partners(w http.ResponseWriter, r *http.Request) {
	partners, err := h.partners.ListActive(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "list_failed")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(partners))
}

// Fairs handles GET /api/fairs?hero=true
func (h *ContentHandler) Fairs(w http.ResponseWriter, r *http.Request) {
	fairs, err := h.fairs.ListPublic(r.Context(), r.URL.Query().Get("hero") == "true")
	if err != nil {
		writeServiceError(w, r, err, "list_failed")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(fairs))
}

// Search handles GET /api/search?q=
func (h *ContentHandler) Search(w http.ResponseWriter, r *http.Request) {
	res, err := h.search.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err, "search_failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
