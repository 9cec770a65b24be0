package settings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wordplaylabs/wordquest/internal/auth"
	"github.com/wordplaylabs/wordquest/internal/session"
	httperrors "github.com/wordplaylabs/wordquest/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for player settings.
type HTTPHandlers struct {
	store  *Store
	logger zerolog.Logger
}

func NewHTTPHandlers(store *Store, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{store: store, logger: logger}
}

// Get handles GET /v1/settings
func (h *HTTPHandlers) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	settings, err := h.store.Get(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("settings fetch failed")
		httperrors.RespondInternalError(w, "Could not fetch settings")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}

// Put handles PUT /v1/settings
func (h *HTTPHandlers) Put(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	var settings session.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	if err := h.store.Put(r.Context(), userID, settings); err != nil {
		if errors.Is(err, session.ErrInvalidSettings) {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, "Invalid settings values")
			return
		}
		h.logger.Error().Err(err).Msg("settings save failed")
		httperrors.RespondInternalError(w, "Could not save settings")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}
