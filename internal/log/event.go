package log

import "fmt"

// EventType enumerates all observable game events.
type EventType int

const (
	EventGameStart EventType = iota
	EventNewTurn
	EventPhaseChange
	EventDraw
	EventReshuffle
	EventCardPlayed
	EventAttackPending
	EventAttackDefended
	EventAttackResolved
	EventDefenseSkipped
	EventEffect
	EventCoinFlip
	EventOrganRemoved
	EventOrganProtected
	EventProtectionExpired
	EventPlayerEliminated
	EventDiscard
	EventHandSizeDiscard
	EventTurnSkipped
	EventGameEnd
	EventGameRestored
)

var eventTypeNames = map[EventType]string{
	EventGameStart:         "game_start",
	EventNewTurn:           "new_turn",
	EventPhaseChange:       "phase_change",
	EventDraw:              "draw",
	EventReshuffle:         "reshuffle",
	EventCardPlayed:        "card_played",
	EventAttackPending:     "attack_pending",
	EventAttackDefended:    "attack_defended",
	EventAttackResolved:    "attack_resolved",
	EventDefenseSkipped:    "defense_skipped",
	EventEffect:            "effect",
	EventCoinFlip:          "coin_flip",
	EventOrganRemoved:      "organ_removed",
	EventOrganProtected:    "organ_protected",
	EventProtectionExpired: "protection_expired",
	EventPlayerEliminated:  "player_eliminated",
	EventDiscard:           "discard",
	EventHandSizeDiscard:   "hand_size_discard",
	EventTurnSkipped:       "turn_skipped",
	EventGameEnd:           "game_end",
	EventGameRestored:      "game_restored",
}

func (e EventType) String() string {
	if name, ok := eventTypeNames[e]; ok {
		return name
	}
	return "unknown"
}

// ParseEventType is the inverse of String. Used when restoring a saved log.
func ParseEventType(s string) (EventType, bool) {
	for t, name := range eventTypeNames {
		if name == s {
			return t, true
		}
	}
	return 0, false
}

func (e EventType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *EventType) UnmarshalText(b []byte) error {
	t, ok := ParseEventType(string(b))
	if !ok {
		return fmt.Errorf("unknown event type %q", b)
	}
	*e = t
	return nil
}

// System is the acting "player" for events not caused by a player.
const System = "System"

// GameEvent represents a single observable event in a game.
type GameEvent struct {
	Seq     int               `json:"seq"`              // monotonic sequence number
	Turn    int               `json:"turn"`             // global turn counter when the event happened
	Phase   string            `json:"phase"`            // phase name at emission time
	Type    EventType         `json:"type"`             // event kind
	Player  string            `json:"player"`           // acting player name, or System
	Card    string            `json:"card,omitempty"`   // card name (if applicable)
	Target  string            `json:"target,omitempty"` // target player name (if applicable)
	Organ   string            `json:"organ,omitempty"`  // target organ (if applicable)
	Success bool              `json:"success"`
	Details map[string]string `json:"details,omitempty"`
	Message string            `json:"message"` // human-readable line
}

// Clone returns a deep copy so readers can never mutate the log.
func (e GameEvent) Clone() GameEvent {
	if e.Details != nil {
		d := make(map[string]string, len(e.Details))
		for k, v := range e.Details {
			d[k] = v
		}
		e.Details = d
	}
	return e
}
