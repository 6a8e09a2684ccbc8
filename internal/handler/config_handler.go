package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Gilson1506/CCALLASPROJET/internal/service"
)

// ConfigHandler serves the site_config key/value store.
type ConfigHandler struct {
	svc service.SiteConfigService
}

func NewConfigHandler(svc service.SiteConfigService) *ConfigHandler {
	return &ConfigHandler{svc: svc}
}

type configResponse struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Get handles GET /api/config/{key}. An absent key answers value null so
// the site falls back to its built-in defaults.
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	cfg, err := h.svc.Get(r.Context(), key)
	if err != nil {
		writeServiceError(w, r, err, "get_failed")
		return
	}
	resp := configResponse{Key: key, Value: json.RawMessage("null")}
	if cfg != nil {
		resp.Value = cfg.Value
	}
	writeJSON(w, http.StatusOK, resp)
}

// Put handles PUT /api/admin/config/{key}. The body replaces the stored value.
func (h *ConfigHandler) Put(w http.ResponseWriter, r *http.Request) {
	var value json.RawMessage
	if !decodeJSON(w, r, &value) {
		return
	}
	cfg, err := h.svc.Put(r.Context(), r.PathValue("key"), value)
	if err != nil {
		writeServiceError(w, r, err, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, configResponse{Key: cfg.Key, Value: cfg.Value})
}
