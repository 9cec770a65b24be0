package session

import (
	"github.com/google/uuid"

	"github.com/wordplaylabs/wordquest/pkg/http/ws"
)

// WSFeed publishes session events to the WebSocket hub.
type WSFeed struct {
	hub *ws.Hub
}

var _ FeedPublisher = (*WSFeed)(nil)

func NewWSFeed(hub *ws.Hub) *WSFeed {
	return &WSFeed{hub: hub}
}

type answerEvent struct {
	SessionID string `json:"session_id"`
	SubmitOutcome
}

type completeEvent struct {
	SessionID string `json:"session_id"`
	Result
}

func (f *WSFeed) SessionAnswered(sessionID uuid.UUID, outcome SubmitOutcome) {
	f.hub.BroadcastToSession(sessionID, ws.NewMessage(ws.TypeAnswerFeedback, answerEvent{
		SessionID:     sessionID.String(),
		SubmitOutcome: outcome,
	}))
}

func (f *WSFeed) SessionCompleted(sessionID uuid.UUID, result Result) {
	f.hub.BroadcastToSession(sessionID, ws.NewMessage(ws.TypeSessionComplete, completeEvent{
		SessionID: sessionID.String(),
		Result:    result,
	}))
}
