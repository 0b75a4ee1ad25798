package game

import "testing"

func TestDeckDrawsFromTop(t *testing.T) {
	a, b := actionCard("a", nil), actionCard("b", nil)
	d := NewDeck([]*Card{a, b}, &altRand{})
	if d.Draw() != b || d.Draw() != a {
		t.Error("expected to draw the last element first")
	}
	if d.Draw() != nil {
		t.Error("expected nil from an exhausted deck with no discards")
	}
}

func TestDeckReshufflesDiscard(t *testing.T) {
	d := NewDeck(nil, &altRand{})
	moved := -1
	d.OnReshuffle = func(n int) { moved = n }

	d.Discard(actionCard("x", nil))
	d.Discard(actionCard("y", nil))
	d.Discard(actionCard("z", nil))

	if c := d.Draw(); c == nil {
		t.Fatal("expected a card after reshuffle")
	}
	if moved != 3 {
		t.Errorf("reshuffle hook: moved %d", moved)
	}
	if d.DiscardLen() != 0 || d.Len() != 2 {
		t.Errorf("after reshuffle: deck %d discard %d", d.Len(), d.DiscardLen())
	}
}

func TestDeckNoReshuffleWhileCardsRemain(t *testing.T) {
	d := NewDeck(fillerDeck(1), &altRand{})
	called := false
	d.OnReshuffle = func(int) { called = true }
	d.Discard(actionCard("x", nil))
	d.Draw()
	if called || d.DiscardLen() != 1 {
		t.Error("reshuffle must only happen when the deck is empty")
	}
}

func TestSeedCards(t *testing.T) {
	cat := NewCatalog([]*Card{
		attackCard("a", Heart),
		defenseCard("d"),
		actionCard("x", nil),
		{ID: "w", Name: "Wild", Kind: KindWildcard},
		{ID: "o", Name: "Heart", Kind: KindOrgan, OrganType: Heart},
	})
	counts := map[string]int{}
	for _, c := range SeedCards(cat) {
		counts[c.ID]++
	}
	want := map[string]int{"a": 3, "d": 3, "x": 2, "w": 2}
	for id, n := range want {
		if counts[id] != n {
			t.Errorf("%s: expected %d copies, got %d", id, n, counts[id])
		}
	}
	if counts["o"] != 0 {
		t.Error("organ cards never enter the deck")
	}
}
