package progress

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wordplaylabs/wordquest/internal/auth"
	httperrors "github.com/wordplaylabs/wordquest/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for progress tracking.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{svc: svc, logger: logger}
}

type recordRequest struct {
	SessionID string   `json:"session_id"`
	Records   []Record `json:"records"`
}

// Record handles POST /v1/progress
func (h *HTTPHandlers) Record(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "Valid session id required", "session_id")
		return
	}

	resp := map[string]interface{}{"recorded": len(req.Records)}
	err = h.svc.Record(r.Context(), Batch{
		UserID:    userID,
		SessionID: sessionID,
		Records:   req.Records,
	})
	if err != nil {
		// Best effort: the player proceeds either way.
		if errors.Is(err, ErrFlushDelayed) {
			resp["warning"] = "progress sync delayed"
		} else {
			h.logger.Warn().Err(err).Msg("progress record failed")
			resp["warning"] = "progress sync failed"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(resp)
}

// Stats handles GET /v1/progress/stats
func (h *HTTPHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	stats, err := h.svc.Stats(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("stats fetch failed")
		httperrors.RespondInternalError(w, "Could not fetch stats")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
