package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/peterkuimelis/organattack/internal/game"
	oanet "github.com/peterkuimelis/organattack/internal/net"
	"github.com/peterkuimelis/organattack/internal/session"
)

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events      []oanet.EventView `json:"events"`
	State       *oanet.StateView  `json:"state,omitempty"`
	Result      *oanet.ResultView `json:"result,omitempty"`
	Player      string            `json:"player,omitempty"`
	Hand        []game.CardView   `json:"hand,omitempty"`
	Saves       []oanet.SaveView  `json:"saves,omitempty"`
	WithinLimit *bool             `json:"within_limit,omitempty"`
	GameOver    bool              `json:"game_over"`
	Winner      string            `json:"winner,omitempty"`
}

// GameSession feeds tool calls into a session and remembers which events
// the caller has already seen, so each response carries only new ones.
type GameSession struct {
	sess *session.Session

	mu      sync.Mutex
	gameID  string
	lastSeq int
}

func NewGameSession(sess *session.Session) *GameSession {
	return &GameSession{sess: sess}
}

// drainEvents returns the events logged since the previous call. A new or
// loaded game restarts the cursor.
func (g *GameSession) drainEvents() []oanet.EventView {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id := g.sess.ID(); id != g.gameID {
		g.gameID = id
		g.lastSeq = 0
	}
	events, err := g.sess.Events(g.lastSeq)
	if err != nil {
		return []oanet.EventView{}
	}
	if n := len(events); n > 0 {
		g.lastSeq = events[n-1].Seq
	}
	return oanet.NewEventViews(events)
}

// call dispatches one message and builds the tool response. A rejected
// request comes back as a non-nil error.
func (g *GameSession) call(ctx context.Context, msg oanet.ClientMessage) (*ToolResponse, error) {
	reply := oanet.Handle(ctx, g.sess, msg)
	if reply.Type == oanet.ReplyError {
		return nil, fmt.Errorf("%s (%s)", reply.Error, reply.Code)
	}

	resp := &ToolResponse{
		Events:      g.drainEvents(),
		State:       reply.State,
		Result:      reply.Result,
		Player:      reply.Player,
		Hand:        reply.Hand,
		Saves:       reply.Saves,
		WithinLimit: reply.WithinLimit,
	}
	if reply.State != nil {
		resp.GameOver = reply.State.GameOver
		resp.Winner = reply.State.Winner
	}
	return resp, nil
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
