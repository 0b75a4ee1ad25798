package log

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// EventLogger is the append-only sink for game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
	Close() error
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event.Clone())
}

// Events returns a copy of the log.
func (l *MemoryLogger) Events() []GameEvent {
	out := make([]GameEvent, len(l.events))
	for i, e := range l.events {
		out[i] = e.Clone()
	}
	return out
}

func (l *MemoryLogger) Close() error {
	return nil
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e.Clone())
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1].Clone()
}

// Replay appends previously recorded events, keeping their sequence numbers.
func (l *MemoryLogger) Replay(events []GameEvent) {
	for _, e := range events {
		if e.Seq > l.seq {
			l.seq = e.Seq
		} else {
			l.seq++
			e.Seq = l.seq
		}
		l.events = append(l.events, e.Clone())
	}
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	for len(phase) < 10 {
		phase += " "
	}
	return fmt.Sprintf("T%-2d %s| %s", e.Turn, phase, e.Message)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewGameStartEvent(players []string, starting string) GameEvent {
	return GameEvent{
		Phase:   "Setup",
		Type:    EventGameStart,
		Player:  System,
		Success: true,
		Details: map[string]string{
			"players":         strings.Join(players, ","),
			"starting_player": starting,
		},
		Message: fmt.Sprintf("Game starts: %s (%s goes first)", strings.Join(players, ", "), starting),
	}
}

func NewTurnEvent(turn int, player string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Draw",
		Type:    EventNewTurn,
		Player:  player,
		Success: true,
		Message: fmt.Sprintf("=== Turn %d (%s) ===", turn, player),
	}
}

func NewPhaseChangeEvent(turn int, phase string, player string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventPhaseChange,
		Player:  player,
		Success: true,
		Message: fmt.Sprintf("Phase → %s", phase),
	}
}

func NewDrawEvent(turn int, phase string, player string, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventDraw,
		Player:  player,
		Card:    cardName,
		Success: true,
		Message: fmt.Sprintf("%s draws %s", player, cardName),
	}
}

func NewReshuffleEvent(turn int, phase string, moved int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventReshuffle,
		Player:  System,
		Success: true,
		Details: map[string]string{"cards": strconv.Itoa(moved)},
		Message: fmt.Sprintf("Discard pile (%d cards) reshuffled into the deck", moved),
	}
}

func NewCardPlayedEvent(turn int, phase string, player, cardName, target, organ string) GameEvent {
	msg := fmt.Sprintf("%s plays %s", player, cardName)
	if target != "" {
		msg += " on " + target
		if organ != "" {
			msg += "'s " + organ
		}
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventCardPlayed,
		Player:  player,
		Card:    cardName,
		Target:  target,
		Organ:   organ,
		Success: true,
		Message: msg,
	}
}

func NewAttackPendingEvent(turn int, phase string, attacker, cardName, target, organ string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventAttackPending,
		Player:  attacker,
		Card:    cardName,
		Target:  target,
		Organ:   organ,
		Success: true,
		Message: fmt.Sprintf("%s may defend %s against %s", target, organ, cardName),
	}
}

func NewAttackDefendedEvent(turn int, phase string, defender, defenseCard, attackCard, attacker string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventAttackDefended,
		Player:  defender,
		Card:    defenseCard,
		Target:  attacker,
		Success: true,
		Details: map[string]string{"blocked_attack": attackCard, "attacker": attacker},
		Message: fmt.Sprintf("%s blocks %s with %s", defender, attackCard, defenseCard),
	}
}

func NewAttackResolvedEvent(turn int, phase string, attacker, cardName, target, organ string, success bool) GameEvent {
	outcome := "no effect"
	if success {
		outcome = "hits"
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventAttackResolved,
		Player:  attacker,
		Card:    cardName,
		Target:  target,
		Organ:   organ,
		Success: success,
		Message: fmt.Sprintf("%s's %s on %s's %s: %s", attacker, cardName, target, organ, outcome),
	}
}

func NewDefenseSkippedEvent(turn int, phase string, defender, attackCard string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventDefenseSkipped,
		Player:  defender,
		Card:    attackCard,
		Success: true,
		Message: fmt.Sprintf("%s does not defend against %s", defender, attackCard),
	}
}

func NewEffectEvent(turn int, phase string, player, cardName, action string, success bool, details map[string]string) GameEvent {
	status := "succeeded"
	if !success {
		status = "failed"
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventEffect,
		Player:  player,
		Card:    cardName,
		Target:  details["player"],
		Organ:   details["organ"],
		Success: success,
		Details: details,
		Message: fmt.Sprintf("%s effect %s %s", cardName, action, status),
	}
}

func NewCoinFlipEvent(turn int, phase string, player, cardName, outcome string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventCoinFlip,
		Player:  player,
		Card:    cardName,
		Success: true,
		Details: map[string]string{"coin": outcome},
		Message: fmt.Sprintf("%s flips a coin: %s", player, outcome),
	}
}

func NewOrganRemovedEvent(turn int, phase string, owner, organ string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventOrganRemoved,
		Player:  owner,
		Organ:   organ,
		Success: true,
		Message: fmt.Sprintf("%s's %s was removed", owner, organ),
	}
}

func NewOrganProtectedEvent(turn int, phase string, owner, organ, source string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventOrganProtected,
		Player:  owner,
		Organ:   organ,
		Success: true,
		Details: map[string]string{"source": source},
		Message: fmt.Sprintf("%s's %s is protected (%s)", owner, organ, source),
	}
}

func NewProtectionExpiredEvent(turn int, phase string, owner, organ string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventProtectionExpired,
		Player:  owner,
		Organ:   organ,
		Success: true,
		Message: fmt.Sprintf("Protection on %s's %s wore off", owner, organ),
	}
}

func NewEliminatedEvent(turn int, phase string, player string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventPlayerEliminated,
		Player:  player,
		Success: true,
		Message: fmt.Sprintf("%s has been eliminated", player),
	}
}

func NewDiscardEvent(turn int, phase string, player string, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventDiscard,
		Player:  player,
		Card:    cardName,
		Success: true,
		Message: fmt.Sprintf("%s discards %s", player, cardName),
	}
}

func NewHandSizeDiscardEvent(turn int, phase string, player string, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventHandSizeDiscard,
		Player:  player,
		Card:    cardName,
		Success: true,
		Message: fmt.Sprintf("%s discards %s to the hand limit", player, cardName),
	}
}

func NewTurnSkippedEvent(turn int, phase string, player string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventTurnSkipped,
		Player:  player,
		Success: true,
		Message: fmt.Sprintf("%s's turn is skipped", player),
	}
}

func NewGameEndEvent(turn int, winner string) GameEvent {
	msg := "Game over! No winner (all players eliminated)"
	if winner != "" {
		msg = fmt.Sprintf("Game over! %s wins", winner)
	}
	return GameEvent{
		Turn:    turn,
		Phase:   "GameOver",
		Type:    EventGameEnd,
		Player:  System,
		Success: true,
		Details: map[string]string{"winner": winner, "total_turns": strconv.Itoa(turn)},
		Message: msg,
	}
}

func NewGameRestoredEvent(turn int, phase string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventGameRestored,
		Player:  System,
		Success: true,
		Message: "Game restored from snapshot",
	}
}
