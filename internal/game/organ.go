package game

import "fmt"

// Organ is a per-player organ instance. It is owned by exactly one Player and
// never shared, unlike catalog cards.
type Organ struct {
	Type           OrganType
	Name           string
	Vital          bool
	CanBeProtected bool

	Removed          bool
	Protected        bool
	ProtectionSource string
	// ProtectionTurns counts the owner's turns left before a temporary
	// protection wears off. Zero means the protection does not expire.
	ProtectionTurns int
}

// NewOrgan builds a fresh organ, taking name and flags from the catalog
// template when one is given.
func NewOrgan(t OrganType, template *Card) *Organ {
	o := &Organ{
		Type:           t,
		Name:           string(t),
		Vital:          t.IsVital(),
		CanBeProtected: true,
	}
	if template != nil {
		o.Name = template.Name
		o.Vital = template.Vital
		o.CanBeProtected = template.CanBeProtected
	}
	return o
}

func (o *Organ) String() string {
	switch {
	case o.Removed:
		return fmt.Sprintf("%s (removed)", o.Name)
	case o.Protected:
		return fmt.Sprintf("%s (protected)", o.Name)
	default:
		return o.Name
	}
}

func (o *Organ) clearProtection() {
	o.Protected = false
	o.ProtectionSource = ""
	o.ProtectionTurns = 0
}
