package game

import (
	"fmt"
	"strings"
)

// --- Enums ---

type Phase int

const (
	PhaseSetup Phase = iota
	PhaseDraw
	PhasePlay
	PhaseDefend
	PhaseDiscard
	PhaseNextTurn
	PhaseGameOver
)

var phaseNames = [...]string{
	PhaseSetup:    "Setup",
	PhaseDraw:     "Draw",
	PhasePlay:     "Play",
	PhaseDefend:   "Defend",
	PhaseDiscard:  "Discard",
	PhaseNextTurn: "NextTurn",
	PhaseGameOver: "GameOver",
}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "Unknown"
}

// ParsePhase accepts the names produced by Phase.String, case-insensitively.
func ParsePhase(s string) (Phase, error) {
	for i, name := range phaseNames {
		if strings.EqualFold(name, s) {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

type CardKind int

const (
	KindOrgan CardKind = iota
	KindAttack
	KindDefense
	KindAction
	KindWildcard
)

var cardKindNames = [...]string{
	KindOrgan:    "Organ",
	KindAttack:   "Attack",
	KindDefense:  "Defense",
	KindAction:   "Action",
	KindWildcard: "Wildcard",
}

func (k CardKind) String() string {
	if k >= 0 && int(k) < len(cardKindNames) {
		return cardKindNames[k]
	}
	return "Unknown"
}

func ParseCardKind(s string) (CardKind, error) {
	for i, name := range cardKindNames {
		if strings.EqualFold(name, s) {
			return CardKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown card type %q", s)
}

type PlayerStatus int

const (
	StatusActive PlayerStatus = iota
	StatusEliminated
)

func (s PlayerStatus) String() string {
	if s == StatusEliminated {
		return "eliminated"
	}
	return "active"
}

func ParsePlayerStatus(s string) (PlayerStatus, error) {
	switch strings.ToLower(s) {
	case "active":
		return StatusActive, nil
	case "eliminated":
		return StatusEliminated, nil
	}
	return 0, fmt.Errorf("unknown player status %q", s)
}

// PlayerScope says whose organs a card may target.
type PlayerScope int

const (
	ScopeOther PlayerScope = iota
	ScopeSelf
	ScopeAny
	ScopeAll
)

var playerScopeNames = [...]string{
	ScopeOther: "Other",
	ScopeSelf:  "Self",
	ScopeAny:   "Any",
	ScopeAll:   "All",
}

func (s PlayerScope) String() string {
	if s >= 0 && int(s) < len(playerScopeNames) {
		return playerScopeNames[s]
	}
	return "Unknown"
}

func ParsePlayerScope(s string) (PlayerScope, error) {
	if s == "" {
		return ScopeOther, nil
	}
	for i, name := range playerScopeNames {
		if strings.EqualFold(name, s) {
			return PlayerScope(i), nil
		}
	}
	return 0, fmt.Errorf("unknown player scope %q", s)
}

type OrganScope int

const (
	OrganSingle OrganScope = iota
	OrganMultiple
	OrganAll
)

var organScopeNames = [...]string{
	OrganSingle:   "Single",
	OrganMultiple: "Multiple",
	OrganAll:      "All",
}

func (s OrganScope) String() string {
	if s >= 0 && int(s) < len(organScopeNames) {
		return organScopeNames[s]
	}
	return "Unknown"
}

func ParseOrganScope(s string) (OrganScope, error) {
	if s == "" {
		return OrganSingle, nil
	}
	for i, name := range organScopeNames {
		if strings.EqualFold(name, s) {
			return OrganScope(i), nil
		}
	}
	return 0, fmt.Errorf("unknown organ scope %q", s)
}

type Duration int

const (
	DurationInstant Duration = iota
	DurationPermanent
	DurationTurns
)

func (d Duration) String() string {
	switch d {
	case DurationPermanent:
		return "permanent"
	case DurationTurns:
		return "turns"
	default:
		return "instant"
	}
}

func ParseDuration(s string) (Duration, error) {
	switch strings.ToLower(s) {
	case "", "instant":
		return DurationInstant, nil
	case "permanent":
		return DurationPermanent, nil
	case "turns":
		return DurationTurns, nil
	}
	return 0, fmt.Errorf("unknown duration %q", s)
}

// --- Organs ---

type OrganType string

const (
	Heart       OrganType = "Heart"
	Brain       OrganType = "Brain"
	Lungs       OrganType = "Lungs"
	Kidneys     OrganType = "Kidneys"
	Eyes        OrganType = "Eyes"
	Liver       OrganType = "Liver"
	Stomach     OrganType = "Stomach"
	Intestines  OrganType = "Intestines"
	Bladder     OrganType = "Bladder"
	Bowels      OrganType = "Bowels"
	Pancreas    OrganType = "Pancreas"
	Spleen      OrganType = "Spleen"
	Appendix    OrganType = "Appendix"
	Tongue      OrganType = "Tongue"
	Tonsils     OrganType = "Tonsils"
	Thyroid     OrganType = "Thyroid"
	Teeth       OrganType = "Teeth"
	Gallbladder OrganType = "Gallbladder"
	Esophagus   OrganType = "Esophagus"
)

// AllOrganTypes lists every organ in the game, in dealing order.
var AllOrganTypes = []OrganType{
	Heart, Brain, Lungs, Kidneys, Eyes, Liver, Stomach, Intestines, Bladder,
	Bowels, Pancreas, Spleen, Appendix, Tongue, Tonsils, Thyroid, Teeth,
	Gallbladder, Esophagus,
}

// IsVital reports whether the organ type is one of the six vital organs.
func (o OrganType) IsVital() bool {
	switch o {
	case Heart, Brain, Lungs, Kidneys, Eyes, Liver:
		return true
	}
	return false
}

// ParseOrganType matches a known organ name case-insensitively.
func ParseOrganType(s string) (OrganType, error) {
	for _, o := range AllOrganTypes {
		if strings.EqualFold(string(o), s) {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown organ %q", s)
}
