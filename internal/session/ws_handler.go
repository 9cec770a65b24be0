package session

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/wordplaylabs/wordquest/internal/auth"
	httperrors "github.com/wordplaylabs/wordquest/pkg/http/errors"
	"github.com/wordplaylabs/wordquest/pkg/http/ws"
)

// WSHandler upgrades watcher connections and runs the subscribe protocol
// for the live session feed.
type WSHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

func NewWSHandler(hub *ws.Hub, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// TODO: restrict origins once the web client's deploy domains settle
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With().Str("component", "session_feed").Logger(),
	}
}

// HandleWebSocket handles GET /ws/sessions. The watcher authenticates with a
// bearer token, then subscribes to session ids over the socket.
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	watcherID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	rawConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := ws.NewConnection(rawConn)
	h.hub.RegisterConnection(watcherID, conn)
	defer h.hub.UnregisterConnection(watcherID)

	for {
		msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		h.dispatch(conn, watcherID, msg)
	}
}

func (h *WSHandler) dispatch(conn *ws.Connection, watcherID uuid.UUID, msg ws.Message) {
	switch msg.Type {
	case ws.TypePing:
		_ = conn.Send(ws.Message{Type: ws.TypePong})

	case ws.TypeSubscribe, ws.TypeUnsubscribe:
		var payload ws.SubscribePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			h.sendError(conn, httperrors.ErrCodeInvalidPayload, "Invalid subscribe payload")
			return
		}
		sessionID, err := uuid.Parse(payload.SessionID)
		if err != nil {
			h.sendError(conn, httperrors.ErrCodeInvalidPayload, "Invalid session id")
			return
		}
		if msg.Type == ws.TypeSubscribe {
			h.hub.Subscribe(sessionID, watcherID)
			_ = conn.Send(ws.NewMessage(ws.TypeSubscribed, ws.SubscribePayload{SessionID: payload.SessionID}))
		} else {
			h.hub.Unsubscribe(sessionID, watcherID)
		}

	default:
		h.sendError(conn, httperrors.ErrCodeUnknownMessageType, "Unknown message type")
	}
}

func (h *WSHandler) sendError(conn *ws.Connection, code, message string) {
	_ = conn.Send(ws.NewMessage(ws.TypeError, ws.ErrorPayload{Code: code, Message: message}))
}
