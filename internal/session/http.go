package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wordplaylabs/wordquest/internal/auth"
	"github.com/wordplaylabs/wordquest/internal/question"
	httperrors "github.com/wordplaylabs/wordquest/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for quiz sessions.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{svc: svc, logger: logger}
}

type createRequest struct {
	Settings
}

type submitRequest struct {
	Answer string `json:"answer"`
}

// Create handles POST /v1/sessions
func (h *HTTPHandlers) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	sess, err := h.svc.Create(r.Context(), owner, req.Settings)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSettings):
			httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
		case errors.Is(err, question.ErrNoQuestions), errors.Is(err, ErrEmptyBatch):
			httperrors.RespondNotFound(w, httperrors.ErrCodeNoQuestionsAvailable, "No questions available for these settings")
		case errors.Is(err, ErrSuperseded):
			httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeSessionSuperseded, "A newer session request replaced this one")
		default:
			h.logger.Error().Err(err).Msg("session creation failed")
			httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeQuestionFetchFailed, "Could not fetch questions, please retry")
		}
		return
	}

	view, _ := sess.Current()
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id": sess.ID().String(),
		"settings":   sess.Settings(),
		"question":   view,
	})
}

// Get handles GET /v1/sessions/{id}
func (h *HTTPHandlers) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	view, live := sess.Current()
	resp := map[string]interface{}{
		"session_id": sess.ID().String(),
		"settings":   sess.Settings(),
		"complete":   !live,
	}
	if live {
		resp["question"] = view
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// Submit handles POST /v1/sessions/{id}/answers
func (h *HTTPHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := h.identify(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	outcome, err := h.svc.Submit(id, owner, req.Answer)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, outcome)
}

// Next handles POST /v1/sessions/{id}/next
func (h *HTTPHandlers) Next(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := h.identify(w, r)
	if !ok {
		return
	}

	complete, err := h.svc.Advance(id, owner)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}

	resp := map[string]interface{}{"complete": complete}
	if !complete {
		if sess, err := h.svc.Get(id, owner); err == nil {
			if view, live := sess.Current(); live {
				resp["question"] = view
			}
		}
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// Previous handles POST /v1/sessions/{id}/previous
func (h *HTTPHandlers) Previous(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := h.identify(w, r)
	if !ok {
		return
	}

	if err := h.svc.Rewind(id, owner); err != nil {
		h.respondLookupError(w, err)
		return
	}

	sess, err := h.svc.Get(id, owner)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}
	view, _ := sess.Current()
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"question": view})
}

// Result handles GET /v1/sessions/{id}/result
func (h *HTTPHandlers) Result(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := h.identify(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Result(id, owner)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

func (h *HTTPHandlers) identify(w http.ResponseWriter, r *http.Request) (owner, id uuid.UUID, ok bool) {
	owner, authed := auth.UserIDFromContext(r.Context())
	if !authed {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid session id")
		return uuid.Nil, uuid.Nil, false
	}
	return owner, id, true
}

func (h *HTTPHandlers) lookup(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	owner, id, ok := h.identify(w, r)
	if !ok {
		return nil, false
	}

	sess, err := h.svc.Get(id, owner)
	if err != nil {
		h.respondLookupError(w, err)
		return nil, false
	}
	return sess, true
}

func (h *HTTPHandlers) respondLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeSessionNotFound, "Session not found")
	case errors.Is(err, ErrForbidden):
		httperrors.RespondForbidden(w, httperrors.ErrCodeForbidden, "Session belongs to another user")
	case errors.Is(err, ErrSessionComplete):
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeSessionComplete, "Session already complete")
	default:
		httperrors.RespondInternalError(w, "Unexpected session error")
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
