package game

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// --- Card definition (static, from the catalog document) ---

type Card struct {
	ID          string
	Name        string
	Description string
	Kind        CardKind
	Target      *Target
	Conditions  *Conditions
	Effects     []Effect

	// Organ-kind entries only: template for the organs dealt to players.
	OrganType      OrganType
	Vital          bool
	CanBeProtected bool
}

func (c *Card) String() string {
	return c.Name
}

// Target constrains who and what a card may be played on.
type Target struct {
	OrganType   OrganType // fixed organ; empty means any organ
	PlayerScope PlayerScope
	OrganScope  OrganScope
	Flexible    bool // player may pick a different organ than OrganType
}

// Conditions are extra play-time requirements.
type Conditions struct {
	OrganMustBePresent            bool
	OrganMustNotBeProtected       bool
	TargetOrganMustBePresent      bool
	PlayerMustHaveAvailableSlot   bool
	MustBePlayedInResponseOrPhase bool
}

// --- Catalog document ---

// CatalogFile represents the top-level YAML structure.
type CatalogFile struct {
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry is one card as written in the catalog document.
type CardEntry struct {
	ID             string          `yaml:"id"`
	Name           string          `yaml:"name"`
	Type           string          `yaml:"type"`
	Description    string          `yaml:"description"`
	Target         *TargetEntry    `yaml:"target,omitempty"`
	Conditions     *ConditionEntry `yaml:"conditions,omitempty"`
	Effects        []EffectSpec    `yaml:"effects,omitempty"`
	OrganType      string          `yaml:"organ_type,omitempty"`
	IsVital        bool            `yaml:"is_vital,omitempty"`
	CanBeProtected *bool           `yaml:"can_be_protected,omitempty"`
}

type TargetEntry struct {
	OrganType   string `yaml:"organ_type,omitempty"`
	PlayerScope string `yaml:"player_scope,omitempty"`
	OrganScope  string `yaml:"organ_scope,omitempty"`
	Flexible    bool   `yaml:"flexible,omitempty"`
}

type ConditionEntry struct {
	OrganMustBePresent                  bool `yaml:"organ_must_be_present,omitempty"`
	OrganMustNotBeProtected             bool `yaml:"organ_must_not_be_protected,omitempty"`
	TargetOrganMustBePresent            bool `yaml:"target_organ_must_be_present,omitempty"`
	PlayerMustHaveAvailableSlot         bool `yaml:"player_must_have_available_slot,omitempty"`
	MustBePlayedInResponseOrAttackPhase bool `yaml:"must_be_played_in_response_or_attack_phase,omitempty"`
}

// Build validates the entry and converts it into a Card.
func (e CardEntry) Build() (*Card, error) {
	if e.ID == "" {
		return nil, errors.New("missing id")
	}
	if e.Name == "" {
		return nil, errors.New("missing name")
	}
	kind, err := ParseCardKind(e.Type)
	if err != nil {
		return nil, err
	}

	card := &Card{
		ID:             e.ID,
		Name:           e.Name,
		Description:    e.Description,
		Kind:           kind,
		OrganType:      normalizeOrgan(e.OrganType),
		Vital:          e.IsVital,
		CanBeProtected: true,
	}
	if e.CanBeProtected != nil {
		card.CanBeProtected = *e.CanBeProtected
	}
	if kind == KindOrgan && card.OrganType == "" {
		return nil, errors.New("organ card without organ_type")
	}

	if e.Target != nil {
		ps, err := ParsePlayerScope(e.Target.PlayerScope)
		if err != nil {
			return nil, err
		}
		scope, err := ParseOrganScope(e.Target.OrganScope)
		if err != nil {
			return nil, err
		}
		card.Target = &Target{
			OrganType:   normalizeOrgan(e.Target.OrganType),
			PlayerScope: ps,
			OrganScope:  scope,
			Flexible:    e.Target.Flexible,
		}
	}

	if e.Conditions != nil {
		card.Conditions = &Conditions{
			OrganMustBePresent:            e.Conditions.OrganMustBePresent,
			OrganMustNotBeProtected:       e.Conditions.OrganMustNotBeProtected,
			TargetOrganMustBePresent:      e.Conditions.TargetOrganMustBePresent,
			PlayerMustHaveAvailableSlot:   e.Conditions.PlayerMustHaveAvailableSlot,
			MustBePlayedInResponseOrPhase: e.Conditions.MustBePlayedInResponseOrAttackPhase,
		}
	}

	for i, spec := range e.Effects {
		eff, err := spec.Build()
		if err != nil {
			return nil, fmt.Errorf("effect %d: %w", i, err)
		}
		card.Effects = append(card.Effects, eff)
	}
	return card, nil
}

// --- Catalog ---

// Catalog is the immutable registry of card definitions.
type Catalog struct {
	byID   map[string]*Card
	order  []*Card
	byKind map[CardKind][]*Card
}

// NewCatalog indexes the given cards. Later duplicates of an ID are ignored.
func NewCatalog(cards []*Card) *Catalog {
	c := &Catalog{
		byID:   make(map[string]*Card, len(cards)),
		byKind: make(map[CardKind][]*Card),
	}
	for _, card := range cards {
		if card == nil {
			continue
		}
		if _, dup := c.byID[card.ID]; dup {
			continue
		}
		c.byID[card.ID] = card
		c.order = append(c.order, card)
		c.byKind[card.Kind] = append(c.byKind[card.Kind], card)
	}
	return c
}

// ParseCatalog parses a catalog document. Malformed card entries are logged
// and skipped; only a document that cannot be parsed at all is an error.
func ParseCatalog(data []byte, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var doc CatalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}

	var cards []*Card
	seen := make(map[string]bool)
	for i, entry := range doc.Cards {
		card, err := entry.Build()
		if err != nil {
			logger.Error("skipping malformed card",
				zap.Int("index", i),
				zap.String("id", entry.ID),
				zap.Error(err))
			continue
		}
		if seen[card.ID] {
			logger.Warn("skipping duplicate card id", zap.String("id", card.ID))
			continue
		}
		seen[card.ID] = true
		cards = append(cards, card)
	}
	if len(cards) == 0 {
		return nil, errors.New("catalog contains no valid cards")
	}
	return NewCatalog(cards), nil
}

// LoadCatalog reads the catalog document at path. It never fails: on any
// error the built-in default catalog is returned and the failure is logged.
func LoadCatalog(path string, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("cards file unreadable, using default card set", zap.String("path", path), zap.Error(err))
		return DefaultCatalog()
	}
	cat, err := ParseCatalog(data, logger)
	if err != nil {
		logger.Error("cards file invalid, using default card set", zap.String("path", path), zap.Error(err))
		return DefaultCatalog()
	}
	logger.Info("loaded cards", zap.String("path", path), zap.Int("count", cat.Len()))
	return cat
}

// Lookup returns the card with the given ID.
func (c *Catalog) Lookup(id string) (*Card, bool) {
	card, ok := c.byID[id]
	return card, ok
}

// ByKind returns all cards of a kind in insertion order.
func (c *Catalog) ByKind(kind CardKind) []*Card {
	return append([]*Card(nil), c.byKind[kind]...)
}

// NonOrganCards returns every card that may go into the draw deck.
func (c *Catalog) NonOrganCards() []*Card {
	var out []*Card
	for _, card := range c.order {
		if card.Kind != KindOrgan {
			out = append(out, card)
		}
	}
	return out
}

// All returns every card in insertion order.
func (c *Catalog) All() []*Card {
	return append([]*Card(nil), c.order...)
}

// Len returns the number of distinct cards.
func (c *Catalog) Len() int {
	return len(c.order)
}

// OrganTemplate returns the organ-kind card describing the organ type, if any.
func (c *Catalog) OrganTemplate(t OrganType) *Card {
	for _, card := range c.byKind[KindOrgan] {
		if card.OrganType == t {
			return card
		}
	}
	return nil
}
