package net

import (
	"context"
	"fmt"

	"github.com/peterkuimelis/organattack/internal/session"
)

// Handle applies one client message to the session and builds the reply.
// Rejected requests produce an "error" reply; the game is unchanged.
func Handle(ctx context.Context, s *session.Session, msg ClientMessage) ServerMessage {
	switch msg.Type {
	case MsgNewGame:
		sum, err := s.Start(msg.Players)
		if err != nil {
			return errorReply(err)
		}
		return ServerMessage{Type: ReplyState, State: BuildStateView(s, sum)}

	case MsgState:
		sum, err := s.Summary()
		if err != nil {
			return errorReply(err)
		}
		return ServerMessage{Type: ReplyState, State: BuildStateView(s, sum)}

	case MsgHand:
		hand, err := s.Hand(msg.Player)
		if err != nil {
			return errorReply(err)
		}
		return ServerMessage{Type: ReplyHand, Player: msg.Player, Hand: hand}

	case MsgPlay:
		res, sum, err := s.Play(msg.Intent())
		if err != nil {
			return errorReply(err)
		}
		return ServerMessage{Type: ReplyState, State: BuildStateView(s, sum), Result: NewResultView(res)}

	case MsgSkip:
		res, sum, err := s.SkipDefense(msg.Player)
		if err != nil {
			return errorReply(err)
		}
		return ServerMessage{Type: ReplyState, State: BuildStateView(s, sum), Result: NewResultView(res)}

	case MsgAdvance:
		sum, err := s.Advance()
		if err != nil {
			return errorReply(err)
		}
		return ServerMessage{Type: ReplyState, State: BuildStateView(s, sum)}

	case MsgDiscard:
		ok, sum, err := s.Discard(msg.Player, msg.Cards)
		if err != nil {
			return errorReply(err)
		}
		return ServerMessage{Type: ReplyState, State: BuildStateView(s, sum), WithinLimit: &ok}

	case MsgEvents:
		events, err := s.Events(msg.Since)
		if err != nil {
			return errorReply(err)
		}
		return ServerMessage{Type: ReplyEvents, Events: NewEventViews(events)}

	case MsgSave:
		meta, err := s.Save(ctx, msg.Name)
		if err != nil {
			return errorReply(err)
		}
		return ServerMessage{Type: ReplySaved, Saves: []SaveView{NewSaveView(meta)}}

	case MsgLoad:
		sum, err := s.Load(ctx, msg.SaveID)
		if err != nil {
			return errorReply(err)
		}
		return ServerMessage{Type: ReplyState, State: BuildStateView(s, sum)}

	case MsgSaves:
		metas, err := s.ListSaves(ctx)
		if err != nil {
			return errorReply(err)
		}
		views := make([]SaveView, 0, len(metas))
		for _, m := range metas {
			views = append(views, NewSaveView(m))
		}
		return ServerMessage{Type: ReplySaves, Saves: views}

	case MsgDeleteSave:
		if err := s.DeleteSave(ctx, msg.SaveID); err != nil {
			return errorReply(err)
		}
		return ServerMessage{Type: ReplyOK}
	}
	return ServerMessage{Type: ReplyError, Code: "bad_request", Error: fmt.Sprintf("unknown message type %q", msg.Type)}
}
