package game

// DefaultCatalog returns the built-in card set used when the catalog document
// cannot be loaded. It is small but enough to play a full game.
func DefaultCatalog() *Catalog {
	return NewCatalog([]*Card{
		{
			ID:          "attack_001",
			Name:        "Heart Attack",
			Kind:        KindAttack,
			Description: "Attack the heart organ.",
			Target:      &Target{OrganType: Heart},
			Effects:     []Effect{RemoveOrgan{Organ: Heart}},
		},
		{
			ID:          "attack_002",
			Name:        "Brain Freeze",
			Kind:        KindAttack,
			Description: "Attack the brain organ.",
			Target:      &Target{OrganType: Brain},
			Effects:     []Effect{RemoveOrgan{Organ: Brain}},
		},
		{
			ID:          "attack_003",
			Name:        "Organ Failure",
			Kind:        KindAttack,
			Description: "Attack any organ of another player.",
			Target:      &Target{Flexible: true},
			Effects:     []Effect{RemoveOrgan{}},
		},
		{
			ID:          "defense_001",
			Name:        "Medical Kit",
			Kind:        KindDefense,
			Description: "Block any attack.",
			Effects:     []Effect{BlockAttack{}},
		},
	})
}
