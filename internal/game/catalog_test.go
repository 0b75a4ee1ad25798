package game

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const sampleCatalog = `
cards:
  - id: atk
    name: Heart Attack
    type: Attack
    description: Attack the heart.
    target: {organ_type: heart, player_scope: Other}
    effects:
      - action: remove_organ
        target_organ: Heart
  - id: broken
    name: Broken
    type: Attack
    effects:
      - action: explode
  - id: nameless
    type: Defense
  - id: atk
    name: Duplicate
    type: Attack
  - id: vax
    name: Vaccination
    type: Action
    effects:
      - action: protect-organ
        duration: turns
  - id: kit
    name: Medical Kit
    type: Defense
    effects:
      - action: block_attack
  - id: organ_appendix
    name: Appendix
    type: Organ
    organ_type: Appendix
    can_be_protected: false
`

func TestParseCatalogSkipsMalformedEntries(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cat, err := ParseCatalog([]byte(sampleCatalog), zap.New(core))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	if cat.Len() != 4 {
		t.Fatalf("expected 4 valid cards, got %d", cat.Len())
	}
	if logs.Len() != 3 {
		t.Errorf("expected 3 skipped-entry log lines, got %d", logs.Len())
	}

	atk, ok := cat.Lookup("atk")
	if !ok || atk.Name != "Heart Attack" {
		t.Fatalf("lookup atk: %+v", atk)
	}
	if atk.Target.OrganType != Heart || atk.Target.PlayerScope != ScopeOther {
		t.Errorf("target not normalized: %+v", atk.Target)
	}
	if _, ok := cat.Lookup("broken"); ok {
		t.Error("card with an unknown action must be skipped")
	}

	vax, _ := cat.Lookup("vax")
	p, ok := vax.Effects[0].(ProtectOrgan)
	if !ok || p.Duration != DurationTurns || p.Turns != 1 {
		t.Errorf("turn-limited protection defaults to one turn: %+v", vax.Effects[0])
	}

	if got := len(cat.NonOrganCards()); got != 3 {
		t.Errorf("non-organ cards: %d", got)
	}
	if got := cat.ByKind(KindDefense); len(got) != 1 || got[0].ID != "kit" {
		t.Errorf("ByKind(Defense): %v", got)
	}
	if tmpl := cat.OrganTemplate(Appendix); tmpl == nil || tmpl.CanBeProtected {
		t.Errorf("organ template: %+v", tmpl)
	}
}

func TestParseCatalogErrors(t *testing.T) {
	if _, err := ParseCatalog([]byte("cards: [unterminated"), nil); err == nil {
		t.Error("expected a YAML error")
	}
	if _, err := ParseCatalog([]byte("cards:\n  - id: x\n"), nil); err == nil {
		t.Error("expected an error for a catalog without valid cards")
	}
}

func TestLoadCatalogFallsBackToDefault(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	cat := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"), zap.New(core))
	if cat.Len() != DefaultCatalog().Len() {
		t.Errorf("expected the default catalog, got %d cards", cat.Len())
	}
	if logs.Len() == 0 {
		t.Error("expected the failure to be logged")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("{{{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if cat := LoadCatalog(bad, nil); cat.Len() != DefaultCatalog().Len() {
		t.Error("invalid file should fall back to the default catalog")
	}
}

func TestDefaultCatalogStartsAGame(t *testing.T) {
	cat := DefaultCatalog()
	if len(cat.ByKind(KindAttack)) == 0 || len(cat.ByKind(KindDefense)) == 0 {
		t.Fatal("default catalog needs attacks and defenses")
	}
	if _, ok := cat.Lookup("attack_001"); !ok {
		t.Error("expected Heart Attack in the default catalog")
	}
}

func TestShippedCatalog(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "data", "cards.yaml"))
	if err != nil {
		t.Fatalf("read shipped catalog: %v", err)
	}
	core, logs := observer.New(zap.WarnLevel)
	cat, err := ParseCatalog(data, zap.New(core))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("shipped catalog has %d bad entries: %v", logs.Len(), logs.All())
	}
	for _, kind := range []CardKind{KindOrgan, KindAttack, KindDefense, KindAction, KindWildcard} {
		if len(cat.ByKind(kind)) == 0 {
			t.Errorf("no %s cards", kind)
		}
	}
	if _, err := New(Config{Players: []string{"A", "B", "C", "D"}, Catalog: cat, Seed: 1}); err != nil {
		t.Errorf("four-player game from shipped catalog: %v", err)
	}
}

func TestEffectSpecBuild(t *testing.T) {
	neg := -1
	tests := []struct {
		spec    EffectSpec
		want    Action
		wantErr bool
	}{
		{EffectSpec{Action: "remove_organ"}, ActionRemoveOrgan, false},
		{EffectSpec{Action: "Coin-Flip-Destroy"}, ActionCoinFlipDestroy, false},
		{EffectSpec{Action: "skip_turn"}, ActionSkipTurn, false},
		{EffectSpec{Action: "steal_organ", From: "target", To: "self"}, ActionStealOrgan, false},
		{EffectSpec{Action: "draw_cards", Value: &neg}, ActionUnknown, true},
		{EffectSpec{Action: "protect_organ", Duration: "forever"}, ActionUnknown, true},
		{EffectSpec{Action: "mimic"}, ActionUnknown, true},
	}
	for _, tt := range tests {
		eff, err := tt.spec.Build()
		if tt.wantErr {
			if err == nil {
				t.Errorf("%+v: expected error", tt.spec)
			}
			continue
		}
		if err != nil {
			t.Errorf("%+v: %v", tt.spec, err)
			continue
		}
		if eff.Action() != tt.want {
			t.Errorf("%+v: got %s", tt.spec, eff.Action())
		}
	}
}
