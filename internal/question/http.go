package question

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	httperrors "github.com/wordplaylabs/wordquest/pkg/http/errors"
)

// HTTPHandlers exposes read-only question metadata.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{svc: svc, logger: logger}
}

// ListCollections handles GET /v1/collections
func (h *HTTPHandlers) ListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.svc.Collections(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list collections failed")
		httperrors.RespondInternalError(w, "Could not list collections")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"collections": collections})
}
