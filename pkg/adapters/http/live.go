package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"

	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

// LiveMessage is sent by a client over the live connection of a form.
// Type is one of "build", "submit" or "ping".
type LiveMessage struct {
	ID   string            `json:"id,omitempty"`
	Type string            `json:"type"`
	Data submissionRequest `json:"data"`
}

// LiveReply answers a LiveMessage. ID echoes the client message ID.
type LiveReply struct {
	ID     string         `json:"id,omitempty"`
	Type   string         `json:"type"`
	Result *domain.Result `json:"result,omitempty"`
	Valid  *bool          `json:"valid,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// LiveForm handles GET /forms/{id}/live. It upgrades to a WebSocket and answers
// every build or submit message with the states applied to the sent values, so a
// client can re-render as the user types.
func (s *Server) LiveForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.Engine.Inspect(r.Context(), id); err != nil {
		s.fail(w, "LiveForm", err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.logger.Warn("websocket accept failed", "form", id, "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	for {
		var msg LiveMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				s.logger.Debug("live connection closed", "form", id, "status", status)
			}
			return
		}
		reply := s.handleLive(ctx, id, msg)
		if err := wsjson.Write(ctx, conn, reply); err != nil {
			s.logger.Warn("live write failed", "form", id, "error", err)
			return
		}
	}
}

func (s *Server) handleLive(ctx context.Context, id string, msg LiveMessage) LiveReply {
	reply := LiveReply{ID: msg.ID, Type: "result"}
	if msg.Type == "ping" {
		reply.Type = "pong"
		return reply
	}

	sub, err := msg.Data.submission()
	if err != nil {
		return LiveReply{ID: msg.ID, Type: "error", Error: err.Error()}
	}

	switch msg.Type {
	case "build":
		reply.Result, err = s.Engine.Build(ctx, id, sub)
	case "submit":
		reply.Result, err = s.Engine.Submit(ctx, id, sub)
		if err == nil {
			valid := len(reply.Result.Errors) == 0
			reply.Valid = &valid
		}
	default:
		err = fmt.Errorf("unknown message type: %s", msg.Type)
	}
	if err != nil {
		return LiveReply{ID: msg.ID, Type: "error", Error: err.Error()}
	}
	return reply
}
