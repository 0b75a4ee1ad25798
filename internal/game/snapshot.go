package game

import (
	"fmt"

	"github.com/peterkuimelis/organattack/internal/log"
)

// --- Read-only summary for presentation ---

// Summary is an immutable copy of the public game state.
type Summary struct {
	Phase         string          `json:"phase"`
	Turn          int             `json:"turn"`
	Direction     int             `json:"turn_direction"`
	CurrentPlayer string          `json:"current_player"`
	Players       []PlayerSummary `json:"players"`
	DeckSize      int             `json:"deck_size"`
	DiscardSize   int             `json:"discard_size"`
	HandLimit     int             `json:"hand_limit"`
	PendingAttack *AttackView     `json:"pending_attack,omitempty"`
	Winner        string          `json:"winner,omitempty"`
	GameOver      bool            `json:"game_over"`
}

type PlayerSummary struct {
	Name            string      `json:"name"`
	Status          string      `json:"status"`
	HandSize        int         `json:"hand_size"`
	OrgansRemaining int         `json:"organs_remaining"`
	OrgansProtected int         `json:"organs_protected"`
	SkipNextTurn    bool        `json:"skip_next_turn"`
	Organs          []OrganView `json:"organs"`
}

type OrganView struct {
	Type             string `json:"type"`
	Name             string `json:"name"`
	Vital            bool   `json:"vital"`
	Removed          bool   `json:"removed"`
	Protected        bool   `json:"protected"`
	ProtectionSource string `json:"protection_source,omitempty"`
	ProtectionTurns  int    `json:"protection_turns,omitempty"`
}

type AttackView struct {
	CardID   string `json:"card_id"`
	CardName string `json:"card_name"`
	Attacker string `json:"attacker"`
	Target   string `json:"target"`
	Organ    string `json:"organ"`
}

// CardView describes a card in hand or in the catalog.
type CardView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
	TargetOrgan string `json:"target_organ,omitempty"`
	PlayerScope string `json:"player_scope,omitempty"`
	Flexible    bool   `json:"flexible,omitempty"`
}

// NewCardView builds the presentation form of a card.
func NewCardView(c *Card) CardView {
	v := CardView{
		ID:          c.ID,
		Name:        c.Name,
		Kind:        c.Kind.String(),
		Description: c.Description,
	}
	if c.Target != nil {
		v.TargetOrgan = string(c.Target.OrganType)
		v.PlayerScope = c.Target.PlayerScope.String()
		v.Flexible = c.Target.Flexible
	}
	return v
}

// StatusSummary reports a player's public state.
func (p *Player) StatusSummary() PlayerSummary {
	s := PlayerSummary{
		Name:            p.Name,
		Status:          p.Status.String(),
		HandSize:        len(p.Hand),
		OrgansRemaining: p.OrgansRemaining(),
		OrgansProtected: len(p.ProtectedOrgans()),
		SkipNextTurn:    p.SkipNextTurn,
	}
	for _, o := range p.OrganList() {
		s.Organs = append(s.Organs, OrganView{
			Type:             string(o.Type),
			Name:             o.Name,
			Vital:            o.Vital,
			Removed:          o.Removed,
			Protected:        o.Protected,
			ProtectionSource: o.ProtectionSource,
			ProtectionTurns:  o.ProtectionTurns,
		})
	}
	return s
}

// Summary returns a snapshot of the public state. It shares nothing with
// the engine.
func (e *Engine) Summary() Summary {
	s := Summary{
		Phase:         e.phase.String(),
		Turn:          e.turn,
		Direction:     e.direction,
		CurrentPlayer: e.currentPlayer().Name,
		DeckSize:      e.deck.Len(),
		DiscardSize:   e.deck.DiscardLen(),
		HandLimit:     e.handLimit,
		GameOver:      e.phase == PhaseGameOver,
	}
	for _, p := range e.players {
		s.Players = append(s.Players, p.StatusSummary())
	}
	if a := e.attack; a != nil {
		s.PendingAttack = &AttackView{
			CardID:   a.Card.ID,
			CardName: a.Card.Name,
			Attacker: a.Attacker.Name,
			Target:   a.Target.Name,
			Organ:    string(a.Organ),
		}
	}
	if e.winner != nil {
		s.Winner = e.winner.Name
	}
	return s
}

// Hand returns the player's hand.
func (e *Engine) Hand(player string) ([]CardView, error) {
	p := e.Player(player)
	if p == nil {
		return nil, reject(ErrUnknownPlayer, "unknown player %q", player)
	}
	out := make([]CardView, 0, len(p.Hand))
	for _, c := range p.Hand {
		out = append(out, NewCardView(c))
	}
	return out, nil
}

// --- Persistence snapshot ---

const SnapshotVersion = 1

// Snapshot is the persisted form of a game. Cards are stored by catalog ID.
type Snapshot struct {
	Version   int              `json:"version"`
	Players   []PlayerSnapshot `json:"players"`
	Current   int              `json:"current_player_index"`
	Phase     string           `json:"phase"`
	Direction int              `json:"turn_direction"`
	Turn      int              `json:"turn_count"`
	HandLimit int              `json:"hand_limit"`
	Deck      []string         `json:"deck"`
	Discard   []string         `json:"discard"`
	Attack    *AttackSnapshot  `json:"current_attack,omitempty"`
	Winner    string           `json:"winner,omitempty"`
	Events    []log.GameEvent  `json:"events"`
}

type PlayerSnapshot struct {
	Name         string          `json:"name"`
	Status       string          `json:"status"`
	Organs       []OrganSnapshot `json:"organs"`
	Hand         []string        `json:"hand"`
	SkipNextTurn bool            `json:"skip_next_turn"`
	CardsDrawn   int             `json:"cards_drawn"`
	CardsPlayed  int             `json:"cards_played"`
}

type OrganSnapshot struct {
	Type             string `json:"type"`
	Name             string `json:"name"`
	Vital            bool   `json:"vital"`
	CanBeProtected   bool   `json:"can_be_protected"`
	Removed          bool   `json:"removed"`
	Protected        bool   `json:"protected"`
	ProtectionSource string `json:"protection_source,omitempty"`
	ProtectionTurns  int    `json:"protection_turns,omitempty"`
}

type AttackSnapshot struct {
	CardID   string `json:"card_id"`
	Attacker string `json:"attacker"`
	Target   string `json:"target"`
	Organ    string `json:"organ"`
}

func cardIDs(cards []*Card) []string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

// Snapshot captures the complete game state, event log included.
func (e *Engine) Snapshot() *Snapshot {
	s := &Snapshot{
		Version:   SnapshotVersion,
		Current:   e.current,
		Phase:     e.phase.String(),
		Direction: e.direction,
		Turn:      e.turn,
		HandLimit: e.handLimit,
		Deck:      cardIDs(e.deck.Cards()),
		Discard:   cardIDs(e.deck.DiscardPile()),
		Events:    e.events.Events(),
	}
	for _, p := range e.players {
		ps := PlayerSnapshot{
			Name:         p.Name,
			Status:       p.Status.String(),
			Hand:         cardIDs(p.Hand),
			SkipNextTurn: p.SkipNextTurn,
			CardsDrawn:   p.CardsDrawn,
			CardsPlayed:  p.CardsPlayed,
		}
		for _, o := range p.OrganList() {
			ps.Organs = append(ps.Organs, OrganSnapshot{
				Type:             string(o.Type),
				Name:             o.Name,
				Vital:            o.Vital,
				CanBeProtected:   o.CanBeProtected,
				Removed:          o.Removed,
				Protected:        o.Protected,
				ProtectionSource: o.ProtectionSource,
				ProtectionTurns:  o.ProtectionTurns,
			})
		}
		s.Players = append(s.Players, ps)
	}
	if a := e.attack; a != nil {
		s.Attack = &AttackSnapshot{
			CardID:   a.Card.ID,
			Attacker: a.Attacker.Name,
			Target:   a.Target.Name,
			Organ:    string(a.Organ),
		}
	}
	if e.winner != nil {
		s.Winner = e.winner.Name
	}
	return s
}

// Restore rebuilds an engine from a snapshot. Card IDs are resolved against
// cfg.Catalog; an unknown ID fails the restore. Players, deck and RNG
// settings in cfg other than Catalog, Logger, Zap, Rand and Seed are ignored.
func Restore(snap *Snapshot, cfg Config) (*Engine, error) {
	if snap == nil {
		return nil, fmt.Errorf("nil snapshot")
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	names := make([]string, len(snap.Players))
	for i, ps := range snap.Players {
		names[i] = ps.Name
	}
	if err := validatePlayers(names); err != nil {
		return nil, err
	}
	cfg.HandLimit = snap.HandLimit
	cfg.applyDefaults()

	e := newEngine(cfg)
	resolve := func(ids []string) ([]*Card, error) {
		out := make([]*Card, 0, len(ids))
		for _, id := range ids {
			c, ok := cfg.Catalog.Lookup(id)
			if !ok {
				return nil, fmt.Errorf("unknown card id %q", id)
			}
			out = append(out, c)
		}
		return out, nil
	}

	for _, ps := range snap.Players {
		var organs []*Organ
		for _, saved := range ps.Organs {
			t := normalizeOrgan(saved.Type)
			if t == "" {
				return nil, fmt.Errorf("player %q: organ without type", ps.Name)
			}
			organs = append(organs, &Organ{
				Type:             t,
				Name:             saved.Name,
				Vital:            saved.Vital,
				CanBeProtected:   saved.CanBeProtected,
				Removed:          saved.Removed,
				Protected:        saved.Protected && !saved.Removed,
				ProtectionSource: saved.ProtectionSource,
				ProtectionTurns:  saved.ProtectionTurns,
			})
		}
		if len(organs) == 0 {
			return nil, fmt.Errorf("player %q has no organs", ps.Name)
		}
		p := NewPlayer(ps.Name, organs)
		hand, err := resolve(ps.Hand)
		if err != nil {
			return nil, fmt.Errorf("player %q hand: %w", ps.Name, err)
		}
		p.Hand = hand
		p.SkipNextTurn = ps.SkipNextTurn
		p.CardsDrawn = ps.CardsDrawn
		p.CardsPlayed = ps.CardsPlayed
		if _, err := ParsePlayerStatus(ps.Status); err != nil {
			return nil, fmt.Errorf("player %q: %w", ps.Name, err)
		}
		// Status follows the organs so the elimination invariant holds.
		p.checkElimination()
		e.players = append(e.players, p)
	}

	deck, err := resolve(snap.Deck)
	if err != nil {
		return nil, fmt.Errorf("deck: %w", err)
	}
	discard, err := resolve(snap.Discard)
	if err != nil {
		return nil, fmt.Errorf("discard: %w", err)
	}
	d := NewDeck(deck, cfg.Rand)
	for _, c := range discard {
		d.Discard(c)
	}
	e.attachDeck(d)

	if snap.Current < 0 || snap.Current >= len(e.players) {
		return nil, fmt.Errorf("current player index %d out of range", snap.Current)
	}
	e.current = snap.Current
	phase, err := ParsePhase(snap.Phase)
	if err != nil {
		return nil, err
	}
	e.phase = phase
	e.turn = snap.Turn
	switch snap.Direction {
	case 1, -1:
		e.direction = snap.Direction
	default:
		return nil, fmt.Errorf("invalid turn direction %d", snap.Direction)
	}

	if a := snap.Attack; a != nil {
		card, ok := cfg.Catalog.Lookup(a.CardID)
		if !ok {
			return nil, fmt.Errorf("pending attack: unknown card id %q", a.CardID)
		}
		attacker, target := e.Player(a.Attacker), e.Player(a.Target)
		if attacker == nil || target == nil {
			return nil, fmt.Errorf("pending attack names unknown players")
		}
		e.attack = &PendingAttack{Card: card, Attacker: attacker, Target: target, Organ: normalizeOrgan(a.Organ)}
	}
	if e.phase == PhaseDefend && e.attack == nil {
		return nil, fmt.Errorf("snapshot is in Defend phase without a pending attack")
	}
	if snap.Winner != "" {
		e.winner = e.Player(snap.Winner)
	}

	if r, ok := e.events.(interface{ Replay([]log.GameEvent) }); ok {
		r.Replay(snap.Events)
	}
	e.log(log.NewGameRestoredEvent(e.turn, e.phase.String()))
	e.checkWin()
	return e, nil
}
