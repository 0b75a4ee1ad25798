package game

const DefaultHandLimit = 5

// Player represents one player's entire state.
type Player struct {
	Name   string
	Organs map[OrganType]*Organ
	Hand   []*Card
	Status PlayerStatus

	// Per-turn tracking
	CardsDrawn   int
	CardsPlayed  int
	SkipNextTurn bool

	organOrder []OrganType // dealing order, for stable iteration
}

// NewPlayer creates an active player holding the given organs.
func NewPlayer(name string, organs []*Organ) *Player {
	p := &Player{
		Name:   name,
		Organs: make(map[OrganType]*Organ, len(organs)),
		Status: StatusActive,
	}
	for _, o := range organs {
		if _, dup := p.Organs[o.Type]; dup {
			continue
		}
		p.Organs[o.Type] = o
		p.organOrder = append(p.organOrder, o.Type)
	}
	return p
}

// OrganList returns all organs, removed ones included, in dealing order.
func (p *Player) OrganList() []*Organ {
	out := make([]*Organ, 0, len(p.organOrder))
	for _, t := range p.organOrder {
		out = append(out, p.Organs[t])
	}
	return out
}

// HasOrgan reports whether the player holds the organ and it is not removed.
func (p *Player) HasOrgan(t OrganType) bool {
	o, ok := p.Organs[t]
	return ok && !o.Removed
}

// Organ returns the organ if present and not removed.
func (p *Player) Organ(t OrganType) *Organ {
	if p.HasOrgan(t) {
		return p.Organs[t]
	}
	return nil
}

// RemoveOrgan destroys an organ. It returns false if the organ is absent or
// already removed. Elimination is decided here, synchronously.
func (p *Player) RemoveOrgan(t OrganType) bool {
	if !p.HasOrgan(t) {
		return false
	}
	o := p.Organs[t]
	o.Removed = true
	o.clearProtection()
	p.checkElimination()
	return true
}

// ProtectOrgan shields an organ. turns > 0 makes the protection temporary.
// Existing protection is never shortened: permanent stays permanent and a
// temporary one keeps the longer of the two durations.
func (p *Player) ProtectOrgan(t OrganType, source string, turns int) bool {
	o := p.Organ(t)
	if o == nil || !o.CanBeProtected {
		return false
	}
	if turns < 0 {
		turns = 0
	}
	if o.Protected {
		if o.ProtectionTurns == 0 || turns == 0 {
			turns = 0
		} else {
			turns = max(o.ProtectionTurns, turns)
		}
	}
	o.Protected = true
	o.ProtectionSource = source
	o.ProtectionTurns = turns
	return true
}

// UnprotectOrgan removes protection. False if the organ is missing or was
// not protected.
func (p *Player) UnprotectOrgan(t OrganType) bool {
	o := p.Organ(t)
	if o == nil || !o.Protected {
		return false
	}
	o.clearProtection()
	return true
}

func (p *Player) IsOrganProtected(t OrganType) bool {
	o := p.Organ(t)
	return o != nil && o.Protected
}

// AvailableOrgans returns the organs not yet removed.
func (p *Player) AvailableOrgans() []*Organ {
	var out []*Organ
	for _, t := range p.organOrder {
		if o := p.Organs[t]; !o.Removed {
			out = append(out, o)
		}
	}
	return out
}

func (p *Player) ProtectedOrgans() []*Organ {
	var out []*Organ
	for _, o := range p.AvailableOrgans() {
		if o.Protected {
			out = append(out, o)
		}
	}
	return out
}

func (p *Player) OrgansRemaining() int {
	return len(p.AvailableOrgans())
}

func (p *Player) checkElimination() {
	if p.OrgansRemaining() == 0 {
		p.Status = StatusEliminated
	}
}

func (p *Player) IsEliminated() bool {
	return p.Status == StatusEliminated
}

// tickProtections counts down temporary protections at the start of the
// player's turn and returns the organs whose protection just ended.
func (p *Player) tickProtections() []*Organ {
	var expired []*Organ
	for _, o := range p.AvailableOrgans() {
		if !o.Protected || o.ProtectionTurns == 0 {
			continue
		}
		o.ProtectionTurns--
		if o.ProtectionTurns == 0 {
			o.clearProtection()
			expired = append(expired, o)
		}
	}
	return expired
}

// --- Hand ---

func (p *Player) HandCount() int {
	return len(p.Hand)
}

func (p *Player) AddToHand(card *Card) {
	p.Hand = append(p.Hand, card)
}

// FindInHand returns the first card in hand with the given ID.
func (p *Player) FindInHand(id string) *Card {
	for _, c := range p.Hand {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// RemoveFromHand removes one copy of the card from the hand.
func (p *Player) RemoveFromHand(card *Card) bool {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// CardsOfKind returns the hand cards of a given kind.
func (p *Player) CardsOfKind(kind CardKind) []*Card {
	var out []*Card
	for _, c := range p.Hand {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func (p *Player) HasCardOfKind(kind CardKind) bool {
	for _, c := range p.Hand {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

// NeedsToDiscard reports whether the hand is over the limit.
func (p *Player) NeedsToDiscard(limit int) bool {
	return len(p.Hand) > limit
}

// ResetTurnCounters resets per-turn tracking.
func (p *Player) ResetTurnCounters() {
	p.CardsDrawn = 0
	p.CardsPlayed = 0
}
