package game

// Deck is the shared draw pile plus the discard pile.
type Deck struct {
	cards   []*Card // top of deck is last element (pop from end)
	discard []*Card
	rng     Rand

	// OnReshuffle, if set, is called after the discard pile has been moved
	// back into the deck, with the number of cards moved.
	OnReshuffle func(moved int)
}

// NewDeck builds a deck over the given cards in the given order.
func NewDeck(cards []*Card, rng Rand) *Deck {
	return &Deck{
		cards: append([]*Card(nil), cards...),
		rng:   rng,
	}
}

// SeedCards returns the deck contents for a catalog: three copies of every
// attack and defense card, two of every other non-organ card.
func SeedCards(cat *Catalog) []*Card {
	var out []*Card
	for _, card := range cat.NonOrganCards() {
		copies := 2
		if card.Kind == KindAttack || card.Kind == KindDefense {
			copies = 3
		}
		for i := 0; i < copies; i++ {
			out = append(out, card)
		}
	}
	return out
}

// Len returns the number of cards left to draw.
func (d *Deck) Len() int {
	return len(d.cards)
}

// DiscardLen returns the size of the discard pile.
func (d *Deck) DiscardLen() int {
	return len(d.discard)
}

// Shuffle randomizes the draw pile.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw pops the top card. An empty deck is refilled from the discard pile
// first; nil is returned only when both piles are empty.
func (d *Deck) Draw() *Card {
	if len(d.cards) == 0 {
		if len(d.discard) == 0 {
			return nil
		}
		d.reshuffle()
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card
}

func (d *Deck) reshuffle() {
	moved := len(d.discard)
	d.cards = append(d.cards, d.discard...)
	d.discard = nil
	d.Shuffle()
	if d.OnReshuffle != nil {
		d.OnReshuffle(moved)
	}
}

// Discard puts a card on the discard pile.
func (d *Deck) Discard(card *Card) {
	d.discard = append(d.discard, card)
}

// Cards returns a copy of the draw pile, bottom first.
func (d *Deck) Cards() []*Card {
	return append([]*Card(nil), d.cards...)
}

// DiscardPile returns a copy of the discard pile, oldest first.
func (d *Deck) DiscardPile() []*Card {
	return append([]*Card(nil), d.discard...)
}
