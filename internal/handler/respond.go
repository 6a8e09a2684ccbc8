package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/repository"
	"github.com/Gilson1506/CCALLASPROJET/internal/service"
	"github.com/Gilson1506/CCALLASPROJET/internal/storage"
)

const maxJSONBody = 1 << 20 // 1 MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// decodeJSON reads a JSON body into v and answers 400 invalid_json on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return false
	}
	return true
}

// pathID returns the {id} path value. Every record key is a UUID, so
// anything else cannot exist and is answered 404 not_found.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return "", false
	}
	return id, true
}

// writeServiceError maps service and repository errors to a status code.
// Anything unrecognised is logged and answered with 500 failCode.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, failCode string) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "validation_failed",
			"field": verr.Field,
			"rule":  verr.Rule,
		})
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, service.ErrAlreadySubscribed):
		writeError(w, http.StatusConflict, "already_subscribed")
	case errors.Is(err, service.ErrSessionClosed):
		writeError(w, http.StatusConflict, "session_closed")
	case errors.Is(err, service.ErrChatSchemaMissing):
		writeError(w, http.StatusServiceUnavailable, "chat_schema_missing")
	case errors.Is(err, service.ErrUnknownConfigKey):
		writeError(w, http.StatusNotFound, "unknown_config_key")
	case errors.Is(err, service.ErrUnknownEvent):
		writeError(w, http.StatusBadRequest, "unknown_event")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
	case errors.Is(err, storage.ErrUnknownBucket):
		writeError(w, http.StatusNotFound, "unknown_bucket")
	case errors.Is(err, storage.ErrInvalidContentType):
		writeError(w, http.StatusBadRequest, "invalid_content_type")
	case errors.Is(err, storage.ErrInvalidKey):
		writeError(w, http.StatusBadRequest, "invalid_path")
	case repository.IsUniqueViolation(err):
		writeError(w, http.StatusConflict, "conflict")
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", failCode,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, failCode)
	}
}

// nonNil returns an empty slice for nil so lists encode as [].
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
