package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/peterkuimelis/organattack/internal/log"
)

const (
	MinPlayers             = 2
	MaxPlayers             = 4
	DefaultStartingHand    = 5
	DefaultOrgansPerPlayer = 6
)

// Config holds configuration for creating a new game.
type Config struct {
	Players []string
	Catalog *Catalog        // nil uses DefaultCatalog
	Logger  log.EventLogger // event sink; nil uses a MemoryLogger
	Zap     *zap.Logger     // process logger; nil is a no-op
	Rand    Rand            // nil seeds a source from Seed
	Seed    int64           // RNG seed (0 for random)

	HandLimit       int // 0 means DefaultHandLimit
	StartingHand    int // 0 means DefaultStartingHand, negative deals none
	OrgansPerPlayer int // 0 means DefaultOrgansPerPlayer

	// Optional overrides, mostly for tests.
	Organs         map[string][]OrganType // explicit organ set per player
	Deck           []*Card                // explicit deck, top card last
	NoShuffle      bool                   // skip deck shuffle
	StartingPlayer string                 // empty picks one at random
}

func (c *Config) applyDefaults() {
	if c.Catalog == nil {
		c.Catalog = DefaultCatalog()
	}
	if c.Logger == nil {
		c.Logger = log.NewMemoryLogger()
	}
	if c.Zap == nil {
		c.Zap = zap.NewNop()
	}
	if c.Rand == nil {
		c.Rand = NewRand(c.Seed)
	}
	if c.HandLimit <= 0 {
		c.HandLimit = DefaultHandLimit
	}
	if c.StartingHand < 0 {
		c.StartingHand = 0
	} else if c.StartingHand == 0 {
		c.StartingHand = DefaultStartingHand
	}
	if c.OrgansPerPlayer <= 0 {
		c.OrgansPerPlayer = DefaultOrgansPerPlayer
	}
}

func validatePlayers(names []string) error {
	if len(names) < MinPlayers || len(names) > MaxPlayers {
		return fmt.Errorf("game requires %d-%d players, got %d", MinPlayers, MaxPlayers, len(names))
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" {
			return fmt.Errorf("player name must not be empty")
		}
		if n == log.System {
			return fmt.Errorf("player name %q is reserved", n)
		}
		if seen[n] {
			return fmt.Errorf("duplicate player name %q", n)
		}
		seen[n] = true
	}
	return nil
}

// PendingAttack links an in-flight attack card to its target. It exists
// only between the attack being played and its resolution.
type PendingAttack struct {
	Card     *Card
	Attacker *Player
	Target   *Player
	Organ    OrganType
}

// Intent is a request to play a card. Target and Organ are optional.
type Intent struct {
	Player string
	CardID string
	Target string
	Organ  OrganType
}

// PlayResult describes what an accepted play or defense decision did.
type PlayResult struct {
	CardID          string
	CardName        string
	Kind            CardKind
	AwaitingDefense bool
	BlockedAttack   string // name of the attack stopped by a defense card
	Results         []Result
	Phase           Phase
}

// Engine owns the authoritative state of one game. It is not safe for
// concurrent use; callers serialize access.
type Engine struct {
	players   []*Player
	phase     Phase
	current   int
	direction int
	turn      int
	attack    *PendingAttack
	winner    *Player

	catalog   *Catalog
	deck      *Deck
	proc      *Processor
	rng       Rand
	events    log.EventLogger
	zlog      *zap.Logger
	handLimit int
}

// New sets up a game: organs are dealt, the deck is seeded and shuffled,
// starting hands are drawn and a starting player is chosen. The returned
// engine is in the Draw phase.
func New(cfg Config) (*Engine, error) {
	if err := validatePlayers(cfg.Players); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	e := newEngine(cfg)
	for _, name := range cfg.Players {
		organs, err := e.dealOrgans(name, cfg)
		if err != nil {
			return nil, err
		}
		e.players = append(e.players, NewPlayer(name, organs))
	}

	cards := cfg.Deck
	if cards == nil {
		cards = SeedCards(cfg.Catalog)
	}
	e.attachDeck(NewDeck(cards, cfg.Rand))
	if !cfg.NoShuffle {
		e.deck.Shuffle()
	}

	for i := 0; i < cfg.StartingHand; i++ {
		for _, p := range e.players {
			if card := e.deck.Draw(); card != nil {
				p.AddToHand(card)
			}
		}
	}

	if cfg.StartingPlayer != "" {
		idx := e.playerIndex(cfg.StartingPlayer)
		if idx < 0 {
			return nil, fmt.Errorf("starting player %q is not in the game", cfg.StartingPlayer)
		}
		e.current = idx
	} else {
		e.current = cfg.Rand.Intn(len(e.players))
	}

	e.zlog.Info("game initialized",
		zap.Strings("players", cfg.Players),
		zap.Int("deck", e.deck.Len()),
		zap.String("starting_player", e.currentPlayer().Name))
	e.phase = PhaseDraw
	e.turn = 1
	e.log(log.NewGameStartEvent(cfg.Players, e.currentPlayer().Name))
	e.log(log.NewTurnEvent(e.turn, e.currentPlayer().Name))
	return e, nil
}

func newEngine(cfg Config) *Engine {
	return &Engine{
		phase:     PhaseSetup,
		direction: 1,
		catalog:   cfg.Catalog,
		rng:       cfg.Rand,
		events:    cfg.Logger,
		zlog:      cfg.Zap.Named("engine"),
		handLimit: cfg.HandLimit,
	}
}

func (e *Engine) attachDeck(d *Deck) {
	e.deck = d
	d.OnReshuffle = func(moved int) {
		e.zlog.Debug("reshuffled discard pile", zap.Int("cards", moved))
		e.log(log.NewReshuffleEvent(e.turn, e.phase.String(), moved))
	}
	e.proc = NewProcessor(e.rng, e.drawFor)
}

// dealOrgans returns the organ set for a player: the configured one, or a
// random sample of distinct organ types.
func (e *Engine) dealOrgans(name string, cfg Config) ([]*Organ, error) {
	types, ok := cfg.Organs[name]
	if !ok {
		if cfg.OrgansPerPlayer > len(AllOrganTypes) {
			return nil, fmt.Errorf("cannot deal %d organs, only %d types exist", cfg.OrgansPerPlayer, len(AllOrganTypes))
		}
		pool := append([]OrganType(nil), AllOrganTypes...)
		for i := 0; i < cfg.OrgansPerPlayer; i++ {
			j := i + e.rng.Intn(len(pool)-i)
			pool[i], pool[j] = pool[j], pool[i]
		}
		types = pool[:cfg.OrgansPerPlayer]
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("player %q has no organs", name)
	}
	organs := make([]*Organ, 0, len(types))
	for _, t := range types {
		organs = append(organs, NewOrgan(t, e.catalog.OrganTemplate(t)))
	}
	return organs, nil
}

// --- Accessors ---

func (e *Engine) Phase() Phase                  { return e.phase }
func (e *Engine) Turn() int                     { return e.turn }
func (e *Engine) Direction() int                { return e.direction }
func (e *Engine) Catalog() *Catalog             { return e.catalog }
func (e *Engine) PendingAttack() *PendingAttack { return e.attack }
func (e *Engine) IsOver() bool                  { return e.phase == PhaseGameOver }

// CurrentPlayer returns the player whose turn it is.
func (e *Engine) CurrentPlayer() *Player {
	return e.currentPlayer()
}

func (e *Engine) currentPlayer() *Player {
	return e.players[e.current]
}

// Winner returns the winner once the game is over. It is nil while the game
// runs and when every player was eliminated.
func (e *Engine) Winner() *Player {
	return e.winner
}

// Player looks a player up by name.
func (e *Engine) Player(name string) *Player {
	if i := e.playerIndex(name); i >= 0 {
		return e.players[i]
	}
	return nil
}

func (e *Engine) playerIndex(name string) int {
	for i, p := range e.players {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Players returns the players in seating order.
func (e *Engine) Players() []*Player {
	return append([]*Player(nil), e.players...)
}

// ActivePlayers returns the players not yet eliminated.
func (e *Engine) ActivePlayers() []*Player {
	var out []*Player
	for _, p := range e.players {
		if !p.IsEliminated() {
			out = append(out, p)
		}
	}
	return out
}

// Events returns a copy of the event log.
func (e *Engine) Events() []log.GameEvent {
	return e.events.Events()
}

// Close flushes and closes the event sink.
func (e *Engine) Close() error {
	return e.events.Close()
}

func (e *Engine) log(ev log.GameEvent) {
	e.events.Log(ev)
}

func (e *Engine) setPhase(p Phase) {
	if e.phase == p {
		return
	}
	e.phase = p
	e.log(log.NewPhaseChangeEvent(e.turn, p.String(), e.currentPlayer().Name))
}

// drawFor moves the top card into the player's hand.
func (e *Engine) drawFor(p *Player) *Card {
	card := e.deck.Draw()
	if card == nil {
		e.zlog.Debug("no cards left to draw", zap.String("player", p.Name))
		return nil
	}
	p.AddToHand(card)
	p.CardsDrawn++
	e.log(log.NewDrawEvent(e.turn, e.phase.String(), p.Name, card.Name))
	return card
}

// --- Playing cards ---

// PlayCard validates and applies a card play. A rejected intent returns a
// *ValidationError and leaves the game untouched.
func (e *Engine) PlayCard(in Intent) (*PlayResult, error) {
	actor, card, target, organ, err := e.validatePlay(in)
	if err != nil {
		e.zlog.Debug("play rejected", zap.String("player", in.Player), zap.String("card", in.CardID), zap.Error(err))
		return nil, err
	}

	actor.RemoveFromHand(card)
	actor.CardsPlayed++
	targetName := ""
	if target != nil {
		targetName = target.Name
	}
	e.log(log.NewCardPlayedEvent(e.turn, e.phase.String(), actor.Name, card.Name, targetName, string(organ)))

	res := &PlayResult{CardID: card.ID, CardName: card.Name, Kind: card.Kind}
	alive := e.activeSet()

	switch card.Kind {
	case KindAttack:
		e.attack = &PendingAttack{Card: card, Attacker: actor, Target: target, Organ: organ}
		if target.HasCardOfKind(KindDefense) {
			e.log(log.NewAttackPendingEvent(e.turn, e.phase.String(), actor.Name, card.Name, target.Name, string(organ)))
			e.setPhase(PhaseDefend)
			res.AwaitingDefense = true
		} else {
			res.Results = e.resolveAttack()
		}
	case KindDefense:
		a := e.attack
		res.Results = e.proc.Process(card, actor, nil, a.Organ)
		e.logResults(actor, card, res.Results)
		e.deck.Discard(card)
		e.deck.Discard(a.Card)
		e.attack = nil
		res.BlockedAttack = a.Card.Name
		e.log(log.NewAttackDefendedEvent(e.turn, e.phase.String(), actor.Name, card.Name, a.Card.Name, a.Attacker.Name))
		e.setPhase(PhaseDiscard)
	default:
		res.Results = e.proc.Process(card, actor, target, organ)
		e.logResults(actor, card, res.Results)
		e.deck.Discard(card)
	}

	e.logEliminations(alive)
	e.checkWin()
	res.Phase = e.phase
	return res, nil
}

// SkipDefense declines to defend; the pending attack resolves unopposed.
// An empty player name means the attack's target.
func (e *Engine) SkipDefense(player string) (*PlayResult, error) {
	if e.phase == PhaseGameOver {
		return nil, reject(ErrGameOver, "game is over")
	}
	if e.phase != PhaseDefend || e.attack == nil {
		return nil, reject(ErrNoPendingAttack, "no defense to skip")
	}
	a := e.attack
	if player != "" && player != a.Target.Name {
		if e.Player(player) == nil {
			return nil, reject(ErrUnknownPlayer, "unknown player %q", player)
		}
		return nil, reject(ErrNotYourTurn, "only %s may answer this attack", a.Target.Name)
	}

	e.log(log.NewDefenseSkippedEvent(e.turn, e.phase.String(), a.Target.Name, a.Card.Name))
	alive := e.activeSet()
	res := &PlayResult{CardID: a.Card.ID, CardName: a.Card.Name, Kind: a.Card.Kind}
	res.Results = e.resolveAttack()
	e.logEliminations(alive)
	e.checkWin()
	res.Phase = e.phase
	return res, nil
}

// resolveAttack applies the pending attack's effects, discards it and moves
// to the Discard phase.
func (e *Engine) resolveAttack() []Result {
	a := e.attack
	results := e.proc.Process(a.Card, a.Attacker, a.Target, a.Organ)
	e.logResults(a.Attacker, a.Card, results)
	e.deck.Discard(a.Card)
	e.attack = nil

	hit := a.Target.Organs[a.Organ] != nil && a.Target.Organs[a.Organ].Removed
	e.log(log.NewAttackResolvedEvent(e.turn, e.phase.String(), a.Attacker.Name, a.Card.Name, a.Target.Name, string(a.Organ), hit))
	e.setPhase(PhaseDiscard)
	return results
}

func (e *Engine) validatePlay(in Intent) (actor *Player, card *Card, target *Player, organ OrganType, err error) {
	if e.phase == PhaseGameOver {
		return nil, nil, nil, "", reject(ErrGameOver, "game is over")
	}
	actor = e.Player(in.Player)
	if actor == nil {
		return nil, nil, nil, "", reject(ErrUnknownPlayer, "unknown player %q", in.Player)
	}
	if actor.IsEliminated() {
		return nil, nil, nil, "", reject(ErrNotYourTurn, "%s has been eliminated", actor.Name)
	}
	card = actor.FindInHand(in.CardID)
	if card == nil {
		return nil, nil, nil, "", reject(ErrCardNotInHand, "card %q not in hand", in.CardID)
	}

	if card.Kind == KindDefense {
		if e.phase != PhaseDefend || e.attack == nil {
			return nil, nil, nil, "", reject(ErrWrongPhase, "defense cards can only be played while defending")
		}
		if actor != e.attack.Target {
			return nil, nil, nil, "", reject(ErrNotYourTurn, "only %s may defend", e.attack.Target.Name)
		}
		return actor, card, nil, e.attack.Organ, nil
	}

	switch {
	case e.phase == PhaseDefend:
		return nil, nil, nil, "", reject(ErrWrongPhase, "can only play defense cards during defend phase")
	case e.phase != PhasePlay:
		return nil, nil, nil, "", reject(ErrWrongPhase, "cannot play cards during %s phase", e.phase)
	case actor != e.currentPlayer():
		return nil, nil, nil, "", reject(ErrNotYourTurn, "it is %s's turn", e.currentPlayer().Name)
	case card.Kind == KindOrgan:
		return nil, nil, nil, "", reject(ErrWrongPhase, "organ cards are dealt, not played")
	}

	if in.Target != "" {
		target = e.Player(in.Target)
		if target == nil {
			return nil, nil, nil, "", reject(ErrUnknownPlayer, "unknown player %q", in.Target)
		}
		if target.IsEliminated() {
			return nil, nil, nil, "", reject(ErrTargetInvalid, "%s has been eliminated", target.Name)
		}
	}
	organ = normalizeOrgan(string(in.Organ))

	if t := card.Target; t != nil {
		if t.OrganType != "" {
			switch {
			case organ == "":
				organ = t.OrganType
			case organ != t.OrganType && !t.Flexible:
				return nil, nil, nil, "", reject(ErrTargetInvalid, "card must target %s", t.OrganType)
			}
		}
		if t.PlayerScope == ScopeOther && target == actor {
			return nil, nil, nil, "", reject(ErrTargetInvalid, "cannot target yourself with this card")
		}
		if t.PlayerScope == ScopeSelf && target != nil && target != actor {
			return nil, nil, nil, "", reject(ErrTargetInvalid, "this card can only target yourself")
		}
	}

	if card.Kind == KindAttack {
		if target == nil || organ == "" {
			return nil, nil, nil, "", reject(ErrTargetInvalid, "attack cards require target player and organ")
		}
		if target == actor {
			return nil, nil, nil, "", reject(ErrTargetInvalid, "cannot attack yourself")
		}
	}
	if target != nil && organ != "" && !target.HasOrgan(organ) {
		return nil, nil, nil, "", reject(ErrTargetInvalid, "target player doesn't have %s", organ)
	}

	if err := checkConditions(card.Conditions, actor, target, organ); err != nil {
		return nil, nil, nil, "", err
	}
	return actor, card, target, organ, nil
}

func checkConditions(c *Conditions, actor, target *Player, organ OrganType) error {
	if c == nil {
		return nil
	}
	owner := target
	if owner == nil {
		owner = actor
	}
	if c.OrganMustBePresent && (organ == "" || !owner.HasOrgan(organ)) {
		return reject(ErrTargetInvalid, "%s must still have the organ", owner.Name)
	}
	if c.TargetOrganMustBePresent && (target == nil || organ == "" || !target.HasOrgan(organ)) {
		return reject(ErrTargetInvalid, "target organ must be present")
	}
	if c.OrganMustNotBeProtected && organ != "" && owner.IsOrganProtected(organ) {
		return reject(ErrTargetInvalid, "%s's %s is protected", owner.Name, organ)
	}
	return nil
}

// logResults records one effect event per result, plus the organ-level
// events the result implies.
func (e *Engine) logResults(actor *Player, card *Card, results []Result) {
	phase := e.phase.String()
	for _, r := range results {
		e.log(log.NewEffectEvent(e.turn, phase, actor.Name, card.Name, r.Action.String(), r.Success, r.Details()))
		switch {
		case r.Coin != "":
			e.log(log.NewCoinFlipEvent(e.turn, phase, actor.Name, card.Name, r.Coin))
			if r.Destroyed {
				e.log(log.NewOrganRemovedEvent(e.turn, phase, r.Player, string(r.Organ)))
			}
		case r.Action == ActionRemoveOrgan && r.Success:
			e.log(log.NewOrganRemovedEvent(e.turn, phase, r.Player, string(r.Organ)))
		case r.Action == ActionProtectOrgan && r.Success:
			if p := e.Player(r.Player); p != nil {
				e.log(log.NewOrganProtectedEvent(e.turn, phase, r.Player, string(r.Organ), p.Organs[r.Organ].ProtectionSource))
			}
		}
	}
}

func (e *Engine) activeSet() map[*Player]bool {
	m := make(map[*Player]bool, len(e.players))
	for _, p := range e.players {
		m[p] = !p.IsEliminated()
	}
	return m
}

func (e *Engine) logEliminations(before map[*Player]bool) {
	for _, p := range e.players {
		if before[p] && p.IsEliminated() {
			e.zlog.Info("player eliminated", zap.String("player", p.Name))
			e.log(log.NewEliminatedEvent(e.turn, e.phase.String(), p.Name))
		}
	}
}

// --- Phase machine ---

// Advance moves the game one step along Draw, Play, Discard and NextTurn.
// It refuses while a defense decision is pending, while the current player
// must still discard, and once the game is over.
func (e *Engine) Advance() error {
	p := e.currentPlayer()
	switch e.phase {
	case PhaseGameOver:
		return reject(ErrGameOver, "game is over")
	case PhaseSetup:
		e.setPhase(PhaseDraw)
	case PhaseDraw:
		if p.CardsDrawn == 0 {
			e.drawFor(p)
		}
		e.setPhase(PhasePlay)
	case PhasePlay:
		e.setPhase(PhaseDiscard)
	case PhaseDefend:
		return reject(ErrAwaitingDefense, "%s must defend or skip", e.attack.Target.Name)
	case PhaseDiscard:
		if p.NeedsToDiscard(e.handLimit) {
			return reject(ErrHandOverLimit, "%s must discard down to %d cards", p.Name, e.handLimit)
		}
		e.setPhase(PhaseNextTurn)
	case PhaseNextTurn:
		e.nextPlayer()
		e.setPhase(PhaseDraw)
	}
	e.checkWin()
	return nil
}

// nextPlayer passes the turn on, skipping eliminated players and consuming
// skip flags.
func (e *Engine) nextPlayer() {
	e.currentPlayer().ResetTurnCounters()

	n := len(e.players)
	for attempts := 0; attempts < 2*n; attempts++ {
		e.current = ((e.current+e.direction)%n + n) % n
		next := e.players[e.current]
		if next.IsEliminated() {
			continue
		}
		if next.SkipNextTurn {
			next.SkipNextTurn = false
			e.log(log.NewTurnSkippedEvent(e.turn, e.phase.String(), next.Name))
			// A skipped turn still counts toward temporary protection.
			e.logExpired(next, next.tickProtections())
			continue
		}
		break
	}

	e.turn++
	cur := e.currentPlayer()
	cur.ResetTurnCounters()
	e.zlog.Debug("new turn", zap.Int("turn", e.turn), zap.String("player", cur.Name))
	e.log(log.NewTurnEvent(e.turn, cur.Name))
	e.logExpired(cur, cur.tickProtections())
}

func (e *Engine) logExpired(p *Player, expired []*Organ) {
	for _, o := range expired {
		e.log(log.NewProtectionExpiredEvent(e.turn, e.phase.String(), p.Name, string(o.Type)))
	}
}

// checkWin ends the game once at most one player remains.
func (e *Engine) checkWin() {
	if e.phase == PhaseGameOver {
		return
	}
	active := e.ActivePlayers()
	if len(active) > 1 {
		return
	}
	e.attack = nil
	e.phase = PhaseGameOver
	name := ""
	if len(active) == 1 {
		e.winner = active[0]
		name = e.winner.Name
	}
	e.zlog.Info("game over", zap.String("winner", name), zap.Int("turns", e.turn))
	e.log(log.NewGameEndEvent(e.turn, name))
}

// ForceDiscard moves the named cards from the player's hand to the discard
// pile. Every ID must be in hand (repeats need repeated copies) or nothing
// is discarded. Only the current player may discard, and not while a defense
// is pending. It reports whether the hand is now within the limit.
func (e *Engine) ForceDiscard(player string, cardIDs []string) (bool, error) {
	if e.phase == PhaseGameOver {
		return false, reject(ErrGameOver, "game is over")
	}
	p := e.Player(player)
	if p == nil {
		return false, reject(ErrUnknownPlayer, "unknown player %q", player)
	}
	if p != e.currentPlayer() {
		return false, reject(ErrNotYourTurn, "only %s may discard now", e.currentPlayer().Name)
	}
	if e.phase == PhaseDefend {
		return false, reject(ErrAwaitingDefense, "waiting for %s to defend", e.attack.Target.Name)
	}

	remaining := append([]*Card(nil), p.Hand...)
	picked := make([]*Card, 0, len(cardIDs))
	for _, id := range cardIDs {
		idx := -1
		for i, c := range remaining {
			if c.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return false, reject(ErrCardNotInHand, "card %q not in hand", id)
		}
		picked = append(picked, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	for _, c := range picked {
		p.RemoveFromHand(c)
		e.deck.Discard(c)
		if e.phase == PhaseDiscard {
			e.log(log.NewHandSizeDiscardEvent(e.turn, e.phase.String(), p.Name, c.Name))
		} else {
			e.log(log.NewDiscardEvent(e.turn, e.phase.String(), p.Name, c.Name))
		}
	}
	return !p.NeedsToDiscard(e.handLimit), nil
}
