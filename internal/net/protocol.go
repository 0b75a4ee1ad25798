package net

import (
	"errors"
	"time"

	"github.com/peterkuimelis/organattack/internal/game"
	"github.com/peterkuimelis/organattack/internal/log"
	"github.com/peterkuimelis/organattack/internal/session"
	"github.com/peterkuimelis/organattack/internal/storage"
)

// Message types for the JSON protocol spoken by the web socket, the MCP
// tools and the terminal front end.

// --- Client → Server messages ---

const (
	MsgNewGame    = "new_game"
	MsgState      = "state"
	MsgHand       = "hand"
	MsgPlay       = "play"
	MsgSkip       = "skip"
	MsgAdvance    = "advance"
	MsgDiscard    = "discard"
	MsgEvents     = "events"
	MsgSave       = "save"
	MsgLoad       = "load"
	MsgSaves      = "saves"
	MsgDeleteSave = "delete_save"
)

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "new_game"
	Players []string `json:"players,omitempty"`

	// For "play", "skip", "discard" and "hand"
	Player string   `json:"player,omitempty"`
	CardID string   `json:"card_id,omitempty"`
	Target string   `json:"target,omitempty"`
	Organ  string   `json:"organ,omitempty"`
	Cards  []string `json:"cards,omitempty"`

	// For "events"
	Since int `json:"since,omitempty"`

	// For "save", "load" and "delete_save"
	Name   string `json:"name,omitempty"`
	SaveID string `json:"save_id,omitempty"`
}

// Intent converts a "play" message into an engine intent.
func (m ClientMessage) Intent() game.Intent {
	return game.Intent{
		Player: m.Player,
		CardID: m.CardID,
		Target: m.Target,
		Organ:  game.OrganType(m.Organ),
	}
}

// --- Server → Client messages ---

const (
	ReplyState  = "state"
	ReplyHand   = "hand"
	ReplyEvents = "events"
	ReplySaves  = "saves"
	ReplySaved  = "saved"
	ReplyOK     = "ok"
	ReplyError  = "error"
)

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "state"
	State  *StateView  `json:"state,omitempty"`
	Result *ResultView `json:"result,omitempty"`

	// For "hand"
	Player string          `json:"player,omitempty"`
	Hand   []game.CardView `json:"hand,omitempty"`

	// For "events"
	Events []EventView `json:"events,omitempty"`

	// For "saves" and "saved"
	Saves []SaveView `json:"saves,omitempty"`

	// For "discard": whether the hand is now within the limit
	WithinLimit *bool `json:"within_limit,omitempty"`

	// For "error"
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

// StateView is the public state plus the hand of the player who must act.
// Games are hot-seat, so the acting player's hand is shown.
type StateView struct {
	game.Summary
	GameID  string          `json:"game_id"`
	ToAct   string          `json:"to_act"`
	ActHand []game.CardView `json:"to_act_hand,omitempty"`
}

// ToAct returns the player whose input the game is waiting for: the
// defender while an attack is pending, otherwise the current player.
func ToAct(sum game.Summary) string {
	if sum.GameOver {
		return ""
	}
	if sum.PendingAttack != nil {
		return sum.PendingAttack.Target
	}
	return sum.CurrentPlayer
}

// BuildStateView assembles the view of the session's current game.
func BuildStateView(s *session.Session, sum game.Summary) *StateView {
	sv := &StateView{Summary: sum, GameID: s.ID(), ToAct: ToAct(sum)}
	if sv.ToAct != "" {
		if hand, err := s.Hand(sv.ToAct); err == nil {
			sv.ActHand = hand
		}
	}
	return sv
}

// ResultView reports what an accepted play did.
type ResultView struct {
	CardID          string       `json:"card_id"`
	CardName        string       `json:"card_name"`
	Kind            string       `json:"kind"`
	AwaitingDefense bool         `json:"awaiting_defense,omitempty"`
	BlockedAttack   string       `json:"blocked_attack,omitempty"`
	Phase           string       `json:"phase"`
	Effects         []EffectView `json:"effects,omitempty"`
}

// EffectView is one resolved effect.
type EffectView struct {
	Action    string   `json:"action"`
	Success   bool     `json:"success"`
	Player    string   `json:"player,omitempty"`
	Organ     string   `json:"organ,omitempty"`
	Blocked   bool     `json:"blocked,omitempty"`
	Protected bool     `json:"protected,omitempty"`
	Coin      string   `json:"coin,omitempty"`
	Destroyed bool     `json:"destroyed,omitempty"`
	Drawn     []string `json:"drawn,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func NewResultView(r *game.PlayResult) *ResultView {
	if r == nil {
		return nil
	}
	rv := &ResultView{
		CardID:          r.CardID,
		CardName:        r.CardName,
		Kind:            r.Kind.String(),
		AwaitingDefense: r.AwaitingDefense,
		BlockedAttack:   r.BlockedAttack,
		Phase:           r.Phase.String(),
	}
	for _, res := range r.Results {
		ev := EffectView{
			Action:    res.Action.String(),
			Success:   res.Success,
			Player:    res.Player,
			Organ:     string(res.Organ),
			Blocked:   res.Blocked,
			Protected: res.Protected,
			Coin:      res.Coin,
			Destroyed: res.Destroyed,
			Error:     res.Error,
		}
		for _, c := range res.Drawn {
			ev.Drawn = append(ev.Drawn, c.Name)
		}
		rv.Effects = append(rv.Effects, ev)
	}
	return rv
}

// EventView is a game event as sent to clients.
type EventView struct {
	Seq     int               `json:"seq"`
	Turn    int               `json:"turn"`
	Phase   string            `json:"phase"`
	Type    string            `json:"type"`
	Player  string            `json:"player"`
	Card    string            `json:"card,omitempty"`
	Target  string            `json:"target,omitempty"`
	Organ   string            `json:"organ,omitempty"`
	Success bool              `json:"success"`
	Details map[string]string `json:"details,omitempty"`
	Text    string            `json:"text"`
}

func NewEventView(e log.GameEvent) EventView {
	return EventView{
		Seq:     e.Seq,
		Turn:    e.Turn,
		Phase:   e.Phase,
		Type:    e.Type.String(),
		Player:  e.Player,
		Card:    e.Card,
		Target:  e.Target,
		Organ:   e.Organ,
		Success: e.Success,
		Details: e.Details,
		Text:    log.FormatEvent(e),
	}
}

func NewEventViews(events []log.GameEvent) []EventView {
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		out = append(out, NewEventView(e))
	}
	return out
}

// SaveView lists one stored game.
type SaveView struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	CreatedAt string   `json:"created_at"`
	Turn      int      `json:"turn"`
	Phase     string   `json:"phase"`
	Players   []string `json:"players"`
	Winner    string   `json:"winner,omitempty"`
}

func NewSaveView(m storage.SaveMeta) SaveView {
	return SaveView{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		Turn:      m.Turn,
		Phase:     m.Phase,
		Players:   m.Players,
		Winner:    m.Winner,
	}
}

// ErrorCode maps an error to a stable machine-readable code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrWrongPhase):
		return "wrong_phase"
	case errors.Is(err, game.ErrCardNotInHand):
		return "card_not_in_hand"
	case errors.Is(err, game.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, game.ErrTargetInvalid):
		return "target_invalid"
	case errors.Is(err, game.ErrNoPendingAttack):
		return "no_pending_attack"
	case errors.Is(err, game.ErrAwaitingDefense):
		return "awaiting_defense"
	case errors.Is(err, game.ErrHandOverLimit):
		return "hand_over_limit"
	case errors.Is(err, game.ErrGameOver):
		return "game_over"
	case errors.Is(err, game.ErrUnknownPlayer):
		return "unknown_player"
	case errors.Is(err, session.ErrNoGame):
		return "no_game"
	case errors.Is(err, session.ErrNoStore):
		return "no_store"
	case errors.Is(err, storage.ErrNotFound):
		return "save_not_found"
	}
	return "error"
}

func errorReply(err error) ServerMessage {
	return ServerMessage{Type: ReplyError, Code: ErrorCode(err), Error: err.Error()}
}
