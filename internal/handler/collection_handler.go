package handler

import (
	"context"
	"net/http"
)

// Collection is the admin CRUD surface shared by events, news, calendar,
// partners and fairs.
type Collection[T any] interface {
	List(ctx context.Context, q string) ([]T, error)
	// Save inserts when the record has no id and updates it otherwise.
	Save(ctx context.Context, item T) error
	Delete(ctx context.Context, id string) error
}

// Reorderer is implemented by collections with a manual sort order.
type Reorderer interface {
	Reorder(ctx context.Context, ids []string) error
}

// CollectionHandler serves /api/admin/<name> for one collection.
type CollectionHandler[T any] struct {
	name   string
	svc    Collection[T]
	newT   func() T
	withID func(T, string)
}

// NewCollectionHandler creates a handler. newT allocates an empty record to
// decode into and withID stamps the path id onto it for PUT.
func NewCollectionHandler[T any](name string, svc Collection[T], newT func() T, withID func(T, string)) *CollectionHandler[T] {
	return &CollectionHandler[T]{name: name, svc: svc, newT: newT, withID: withID}
}

// Register adds the collection routes to mux behind wrap.
func (h *CollectionHandler[T]) Register(mux *http.ServeMux, wrap func(http.Handler) http.Handler) {
	base := "/api/admin/" + h.name
	mux.Handle("GET "+base, wrap(http.HandlerFunc(h.List)))
	mux.Handle("POST "+base, wrap(http.HandlerFunc(h.Save)))
	if _, ok := h.svc.(Reorderer); ok {
		mux.Handle("PUT "+base+"/reorder", wrap(http.HandlerFunc(h.Reorder)))
	}
	mux.Handle("PUT "+base+"/{id}", wrap(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE "+base+"/{id}", wrap(http.HandlerFunc(h.Delete)))
}

// List handles GET /api/admin/<name>?q=
func (h *CollectionHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err, "list_failed")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(items))
}

// Save handles POST /api/admin/<name>: insert without id, update with one.
func (h *CollectionHandler[T]) Save(w http.ResponseWriter, r *http.Request) {
	item := h.newT()
	if !decodeJSON(w, r, item) {
		return
	}
	if err := h.svc.Save(r.Context(), item); err != nil {
		writeServiceError(w, r, err, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Update handles PUT /api/admin/<name>/{id}
func (h *CollectionHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item := h.newT()
	if !decodeJSON(w, r, item) {
		return
	}
	h.withID(item, id)
	if err := h.svc.Save(r.Context(), item); err != nil {
		writeServiceError(w, r, err, "update_failed")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/admin/<name>/{id}. Unknown ids answer 404.
func (h *CollectionHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "delete_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

// Reorder handles PUT /api/admin/<name>/reorder with {"ids": [...]} in the
// new order.
func (h *CollectionHandler[T]) Reorder(w http.ResponseWriter, r *http.Request) {
	ro, ok := h.svc.(Reorderer)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := ro.Reorder(r.Context(), req.IDs); err != nil {
		writeServiceError(w, r, err, "reorder_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
