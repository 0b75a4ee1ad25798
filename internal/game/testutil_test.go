package game

import (
	"testing"

	"github.com/peterkuimelis/organattack/internal/log"
)

// altRand is a deterministic source: Intn cycles 0, 1, 2, ... modulo n, so
// Intn(2) alternates heads and tails. Shuffle leaves the order alone.
type altRand struct {
	calls int
}

func (r *altRand) Intn(n int) int {
	v := r.calls % n
	r.calls++
	return v
}

func (r *altRand) Shuffle(int, func(i, j int)) {}

// --- Test card helpers ---

func attackCard(id string, organ OrganType) *Card {
	return &Card{
		ID:      id,
		Name:    "Attack " + id,
		Kind:    KindAttack,
		Target:  &Target{OrganType: organ, Flexible: organ == ""},
		Effects: []Effect{RemoveOrgan{Organ: organ}},
	}
}

func defenseCard(id string) *Card {
	return &Card{
		ID:      id,
		Name:    "Defense " + id,
		Kind:    KindDefense,
		Effects: []Effect{BlockAttack{}},
	}
}

func actionCard(id string, target *Target, effects ...Effect) *Card {
	return &Card{
		ID:      id,
		Name:    "Action " + id,
		Kind:    KindAction,
		Target:  target,
		Effects: effects,
	}
}

// fillerDeck returns n effect-less action cards.
func fillerDeck(n int) []*Card {
	filler := actionCard("filler", nil)
	cards := make([]*Card, n)
	for i := range cards {
		cards[i] = filler
	}
	return cards
}

type testGame struct {
	*Engine
	logger *log.MemoryLogger
}

// newTestGame starts a game between the named players with empty hands,
// three organs each (Heart, Brain, Lungs), an unshuffled deck and the first
// player to move.
func newTestGame(t *testing.T, deck []*Card, players ...string) *testGame {
	t.Helper()
	if len(players) == 0 {
		players = []string{"P1", "P2"}
	}
	organs := make(map[string][]OrganType, len(players))
	for _, p := range players {
		organs[p] = []OrganType{Heart, Brain, Lungs}
	}
	if deck == nil {
		deck = fillerDeck(20)
	}
	logger := log.NewMemoryLogger()
	e, err := New(Config{
		Players:        players,
		Logger:         logger,
		Rand:           &altRand{},
		Organs:         organs,
		Deck:           deck,
		NoShuffle:      true,
		StartingHand:   -1,
		StartingPlayer: players[0],
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &testGame{Engine: e, logger: logger}
}

func (g *testGame) give(player string, cards ...*Card) {
	p := g.Player(player)
	for _, c := range cards {
		p.AddToHand(c)
	}
}

// toPlay advances from Draw into Play.
func (g *testGame) toPlay(t *testing.T) {
	t.Helper()
	if g.Phase() != PhaseDraw {
		t.Fatalf("expected Draw phase, got %s", g.Phase())
	}
	if err := g.Advance(); err != nil {
		t.Fatalf("Advance from Draw: %v", err)
	}
	if g.Phase() != PhasePlay {
		t.Fatalf("expected Play phase, got %s", g.Phase())
	}
}

// endTurn advances from Play or Discard to the next player's Draw phase.
func (g *testGame) endTurn(t *testing.T) {
	t.Helper()
	for i := 0; i < 3 && g.Phase() != PhaseDraw; i++ {
		if err := g.Advance(); err != nil {
			t.Fatalf("Advance from %s: %v", g.Phase(), err)
		}
	}
	if g.Phase() != PhaseDraw {
		t.Fatalf("expected Draw phase, got %s", g.Phase())
	}
}

// cardCount counts every card in the deck, discard pile, hands and the
// pending attack.
func (g *testGame) cardCount() int {
	n := g.deck.Len() + g.deck.DiscardLen()
	for _, p := range g.players {
		n += len(p.Hand)
	}
	if g.attack != nil {
		n++
	}
	return n
}

func (g *testGame) checkElimination(t *testing.T) {
	t.Helper()
	for _, p := range g.players {
		if (p.OrgansRemaining() == 0) != p.IsEliminated() {
			t.Fatalf("%s: organs remaining %d but status %s", p.Name, p.OrgansRemaining(), p.Status)
		}
	}
}
