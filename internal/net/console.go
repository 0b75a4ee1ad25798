package net

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterkuimelis/organattack/internal/game"
	"github.com/peterkuimelis/organattack/internal/session"
)

// ErrQuit is returned by ParseCommand for the quit command.
var ErrQuit = errors.New("quit")

const consoleHelp = `Commands:
  state                          show the table
  hand [player]                  show a hand (default: player to act)
  play <card-id> [player] [organ] play a card, optionally at a player's organ
  defend <card-id>               answer a pending attack with a defense card
  skip                           let a pending attack through
  advance                        move to the next phase
  discard <card-id>...           discard cards from the acting hand
  events                         show the full event log
  new <player> <player>...       start a new game
  save [name]  load <id>  saves  delete <id>
  quit`

// ParseCommand turns one console line into a client message. actor is the
// player the game is waiting for; it acts for play, defend, skip and discard.
func ParseCommand(line, actor string) (ClientMessage, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ClientMessage{}, errors.New("empty command")
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit", "q":
		return ClientMessage{}, ErrQuit
	case "state", "s":
		return ClientMessage{Type: MsgState}, nil
	case "hand", "h":
		player := actor
		if len(args) > 0 {
			player = args[0]
		}
		return ClientMessage{Type: MsgHand, Player: player}, nil
	case "play", "p":
		if len(args) < 1 || len(args) > 3 {
			return ClientMessage{}, errors.New("usage: play <card-id> [player] [organ]")
		}
		msg := ClientMessage{Type: MsgPlay, Player: actor, CardID: args[0]}
		if len(args) > 1 {
			msg.Target = args[1]
		}
		if len(args) > 2 {
			msg.Organ = args[2]
		}
		return msg, nil
	case "defend", "d":
		if len(args) != 1 {
			return ClientMessage{}, errors.New("usage: defend <card-id>")
		}
		return ClientMessage{Type: MsgPlay, Player: actor, CardID: args[0]}, nil
	case "skip":
		return ClientMessage{Type: MsgSkip, Player: actor}, nil
	case "advance", "next", "n":
		return ClientMessage{Type: MsgAdvance}, nil
	case "discard":
		if len(args) == 0 {
			return ClientMessage{}, errors.New("usage: discard <card-id>...")
		}
		return ClientMessage{Type: MsgDiscard, Player: actor, Cards: args}, nil
	case "events":
		return ClientMessage{Type: MsgEvents}, nil
	case "new":
		return ClientMessage{Type: MsgNewGame, Players: args}, nil
	case "save":
		return ClientMessage{Type: MsgSave, Name: strings.Join(args, " ")}, nil
	case "load":
		if len(args) != 1 {
			return ClientMessage{}, errors.New("usage: load <save-id>")
		}
		return ClientMessage{Type: MsgLoad, SaveID: args[0]}, nil
	case "saves":
		return ClientMessage{Type: MsgSaves}, nil
	case "delete":
		if len(args) != 1 {
			return ClientMessage{}, errors.New("usage: delete <save-id>")
		}
		return ClientMessage{Type: MsgDeleteSave, SaveID: args[0]}, nil
	}
	return ClientMessage{}, fmt.Errorf("unknown command %q (try help)", cmd)
}

// Console is a hot-seat terminal front end over a session.
type Console struct {
	sess    *session.Session
	in      *bufio.Reader
	out     io.Writer
	lastSeq int
	gameID  string
}

func NewConsole(sess *session.Session, in io.Reader, out io.Writer) *Console {
	return &Console{sess: sess, in: bufio.NewReader(in), out: out}
}

// Run reads commands until quit or end of input.
func (c *Console) Run(ctx context.Context) error {
	if sum, err := c.sess.Summary(); err == nil {
		c.printEvents()
		c.renderState(BuildStateView(c.sess, sum))
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		actor := ""
		if sum, err := c.sess.Summary(); err == nil {
			actor = ToAct(sum)
		}
		fmt.Fprintf(c.out, "%s> ", actor)

		line, err := c.in.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(c.out)
				return nil
			}
			return fmt.Errorf("read command: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "help" || line == "?" {
			fmt.Fprintln(c.out, consoleHelp)
			continue
		}

		msg, err := ParseCommand(line, actor)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(c.out, err)
			continue
		}
		c.apply(ctx, msg)
	}
}

func (c *Console) apply(ctx context.Context, msg ClientMessage) {
	reply := Handle(ctx, c.sess, msg)
	if reply.Type == ReplyError {
		fmt.Fprintf(c.out, "Rejected: %s\n", reply.Error)
		return
	}

	switch msg.Type {
	case MsgLoad:
		// Skip the restored history; it was shown when it happened.
		c.gameID = c.sess.ID()
		c.lastSeq = c.latestSeq()
		fmt.Fprintln(c.out, "Game loaded.")
	case MsgEvents:
		for _, ev := range reply.Events {
			fmt.Fprintln(c.out, ev.Text)
		}
		return
	default:
		c.printEvents()
	}

	switch reply.Type {
	case ReplyState:
		if reply.Result != nil {
			c.renderResult(reply.Result)
		}
		if reply.WithinLimit != nil && !*reply.WithinLimit {
			fmt.Fprintln(c.out, "Hand is still over the limit.")
		}
		c.renderState(reply.State)
	case ReplyHand:
		c.renderHand(reply.Player, reply.Hand)
	case ReplySaved:
		s := reply.Saves[0]
		fmt.Fprintf(c.out, "Saved %q as %s\n", s.Name, s.ID)
	case ReplySaves:
		if len(reply.Saves) == 0 {
			fmt.Fprintln(c.out, "No saved games.")
		}
		for _, s := range reply.Saves {
			fmt.Fprintf(c.out, "  %s  %-20s turn %-3d %-8s %s\n",
				s.ID, s.Name, s.Turn, s.Phase, strings.Join(s.Players, ", "))
		}
	case ReplyOK:
		fmt.Fprintln(c.out, "OK")
	}
}

func (c *Console) latestSeq() int {
	events, err := c.sess.Events(0)
	if err != nil || len(events) == 0 {
		return 0
	}
	return events[len(events)-1].Seq
}

// printEvents writes the events logged since the last call.
func (c *Console) printEvents() {
	if id := c.sess.ID(); id != c.gameID {
		c.gameID = id
		c.lastSeq = 0
	}
	events, err := c.sess.Events(c.lastSeq)
	if err != nil {
		return
	}
	for _, ev := range events {
		fmt.Fprintln(c.out, NewEventView(ev).Text)
		c.lastSeq = ev.Seq
	}
}

func (c *Console) renderState(sv *StateView) {
	if sv == nil {
		return
	}
	w := c.out
	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════════╗")
	for i, p := range sv.Players {
		if i > 0 {
			fmt.Fprintln(w, "║──────────────────────────────────────────────────────")
		}
		marker := " "
		if p.Name == sv.CurrentPlayer {
			marker = "▶"
		}
		fmt.Fprintf(w, "║ %s %s (%s)  Hand: %d  Organs: %d  Protected: %d",
			marker, p.Name, p.Status, p.HandSize, p.OrgansRemaining, p.OrgansProtected)
		if p.SkipNextTurn {
			fmt.Fprint(w, "  [skips next turn]")
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, "║    ")
		for _, o := range p.Organs {
			fmt.Fprintf(w, "%s ", formatOrgan(o))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════════╝")

	fmt.Fprintf(w, "Turn %d | %s | Deck %d | Discard %d\n", sv.Turn, sv.Phase, sv.DeckSize, sv.DiscardSize)
	if a := sv.PendingAttack; a != nil {
		fmt.Fprintf(w, "%s attacks %s's %s with %s: defend or skip\n", a.Attacker, a.Target, a.Organ, a.CardName)
	}
	if sv.GameOver {
		if sv.Winner != "" {
			fmt.Fprintf(w, "GAME OVER: %s wins\n", sv.Winner)
		} else {
			fmt.Fprintln(w, "GAME OVER: no winner")
		}
		return
	}
	c.renderHand(sv.ToAct, sv.ActHand)
}

func formatOrgan(o game.OrganView) string {
	switch {
	case o.Removed:
		return fmt.Sprintf("[x %s]", o.Name)
	case o.Protected && o.ProtectionTurns > 0:
		return fmt.Sprintf("[%s +%d]", o.Name, o.ProtectionTurns)
	case o.Protected:
		return fmt.Sprintf("[%s +]", o.Name)
	case o.Vital:
		return fmt.Sprintf("[%s!]", o.Name)
	}
	return fmt.Sprintf("[%s]", o.Name)
}

func (c *Console) renderHand(player string, hand []game.CardView) {
	if player == "" {
		return
	}
	fmt.Fprintf(c.out, "\n%s's hand:\n", player)
	if len(hand) == 0 {
		fmt.Fprintln(c.out, "  (empty)")
	}
	for _, cv := range hand {
		target := ""
		if cv.TargetOrgan != "" {
			target = " → " + cv.TargetOrgan
			if cv.Flexible {
				target += " (any)"
			}
		} else if cv.Flexible {
			target = " → any organ"
		}
		fmt.Fprintf(c.out, "  %-14s %-8s %s%s\n", cv.ID, cv.Kind, cv.Name, target)
	}
}

func (c *Console) renderResult(r *ResultView) {
	for _, e := range r.Effects {
		status := "ok"
		switch {
		case e.Blocked:
			status = "blocked by protection"
		case e.Error != "":
			status = e.Error
		case !e.Success:
			status = "no effect"
		}
		fmt.Fprintf(c.out, "  %s: %s\n", e.Action, status)
	}
}
