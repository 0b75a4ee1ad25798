package game

import (
	"fmt"
	"strings"
)

// Action is the tag of an effect. The set is closed: catalog entries naming
// any other action are rejected at load time.
type Action int

const (
	ActionUnknown Action = iota
	ActionRemoveOrgan
	ActionProtectOrgan
	ActionBlockAttack
	ActionStealOrgan
	ActionDrawCards
	ActionSkipTurn
	ActionCoinFlipDestroy
)

var actionNames = [...]string{
	ActionUnknown:         "unknown",
	ActionRemoveOrgan:     "remove_organ",
	ActionProtectOrgan:    "protect_organ",
	ActionBlockAttack:     "block_attack",
	ActionStealOrgan:      "steal_organ",
	ActionDrawCards:       "draw_cards",
	ActionSkipTurn:        "skip_turn",
	ActionCoinFlipDestroy: "coin_flip_destroy",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// ParseAction accepts snake_case or kebab-case tags.
func ParseAction(s string) (Action, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, name := range actionNames {
		if i != int(ActionUnknown) && name == norm {
			return Action(i), nil
		}
	}
	return ActionUnknown, fmt.Errorf("unknown action %q", s)
}

// Effect is one entry of a card's effect list. Implementations are the
// concrete effect payloads below; the resolver switches over them.
type Effect interface {
	Action() Action
	effect()
}

// RemoveOrgan destroys the chosen organ unless it is protected.
type RemoveOrgan struct {
	Organ OrganType // preset target; the play's organ wins when given
}

// ProtectOrgan shields an organ. With Duration == DurationTurns the
// protection lasts Turns rounds of its owner.
type ProtectOrgan struct {
	Organ    OrganType
	Duration Duration
	Turns    int
}

// BlockAttack marks a defense. Its legality is checked by the phase machine.
type BlockAttack struct{}

// StealOrgan moves an organ between players. Reserved; never succeeds.
type StealOrgan struct {
	Organ OrganType
	From  string
	To    string
}

// DrawCards draws Count cards (default 1) for the acting player.
type DrawCards struct {
	Count int
}

// SkipTurn makes the target player lose their next turn.
type SkipTurn struct{}

// CoinFlipDestroy removes the target organ on a destructive coin outcome.
type CoinFlipDestroy struct {
	Organ OrganType
}

func (RemoveOrgan) Action() Action     { return ActionRemoveOrgan }
func (ProtectOrgan) Action() Action    { return ActionProtectOrgan }
func (BlockAttack) Action() Action     { return ActionBlockAttack }
func (StealOrgan) Action() Action      { return ActionStealOrgan }
func (DrawCards) Action() Action       { return ActionDrawCards }
func (SkipTurn) Action() Action        { return ActionSkipTurn }
func (CoinFlipDestroy) Action() Action { return ActionCoinFlipDestroy }

func (RemoveOrgan) effect()     {}
func (ProtectOrgan) effect()    {}
func (BlockAttack) effect()     {}
func (StealOrgan) effect()      {}
func (DrawCards) effect()       {}
func (SkipTurn) effect()        {}
func (CoinFlipDestroy) effect() {}

// presetOrgan returns the organ an effect names on its own, if any.
func presetOrgan(e Effect) OrganType {
	switch eff := e.(type) {
	case RemoveOrgan:
		return eff.Organ
	case ProtectOrgan:
		return eff.Organ
	case StealOrgan:
		return eff.Organ
	case CoinFlipDestroy:
		return eff.Organ
	}
	return ""
}

// EffectSpec is the flat, data-driven form of an effect as it appears in the
// catalog document and in snapshots.
type EffectSpec struct {
	Action      string `yaml:"action" json:"action"`
	TargetOrgan string `yaml:"target_organ,omitempty" json:"target_organ,omitempty"`
	Duration    string `yaml:"duration,omitempty" json:"duration,omitempty"`
	Value       *int   `yaml:"value,omitempty" json:"value,omitempty"`
	From        string `yaml:"from,omitempty" json:"from,omitempty"`
	To          string `yaml:"to,omitempty" json:"to,omitempty"`
}

// Build converts the spec into its typed effect.
func (s EffectSpec) Build() (Effect, error) {
	action, err := ParseAction(s.Action)
	if err != nil {
		return nil, err
	}
	organ := normalizeOrgan(s.TargetOrgan)
	value := 0
	if s.Value != nil {
		value = *s.Value
	}

	switch action {
	case ActionRemoveOrgan:
		return RemoveOrgan{Organ: organ}, nil
	case ActionProtectOrgan:
		d, err := ParseDuration(s.Duration)
		if err != nil {
			return nil, err
		}
		if d == DurationTurns && value <= 0 {
			value = 1
		}
		return ProtectOrgan{Organ: organ, Duration: d, Turns: value}, nil
	case ActionBlockAttack:
		return BlockAttack{}, nil
	case ActionStealOrgan:
		return StealOrgan{Organ: organ, From: s.From, To: s.To}, nil
	case ActionDrawCards:
		if value < 0 {
			return nil, fmt.Errorf("draw_cards value must be positive, got %d", value)
		}
		return DrawCards{Count: value}, nil
	case ActionSkipTurn:
		return SkipTurn{}, nil
	case ActionCoinFlipDestroy:
		return CoinFlipDestroy{Organ: organ}, nil
	}
	return nil, fmt.Errorf("unsupported action %q", s.Action)
}

// normalizeOrgan returns the canonical spelling for known organs and the raw
// value for anything else.
func normalizeOrgan(s string) OrganType {
	if s == "" {
		return ""
	}
	if o, err := ParseOrganType(s); err == nil {
		return o
	}
	return OrganType(s)
}
