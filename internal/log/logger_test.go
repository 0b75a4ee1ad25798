package log

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMemoryLoggerSequencesEvents(t *testing.T) {
	l := NewMemoryLogger()
	l.Log(NewTurnEvent(1, "P1"))
	l.Log(NewDrawEvent(1, "Draw", "P1", "Heart Attack"))

	events := l.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Seq != 1 || events[1].Seq != 2 {
		t.Errorf("expected sequence 1,2 got %d,%d", events[0].Seq, events[1].Seq)
	}
	if got := l.EventsOfType(EventDraw); len(got) != 1 || got[0].Card != "Heart Attack" {
		t.Errorf("EventsOfType(Draw) = %+v", got)
	}
}

func TestEventsAreCopies(t *testing.T) {
	l := NewMemoryLogger()
	l.Log(NewReshuffleEvent(3, "Draw", 7))

	events := l.Events()
	events[0].Details["cards"] = "999"
	events[0].Player = "mallory"

	again := l.LastEvent()
	if again.Details["cards"] != "7" {
		t.Errorf("log was mutated through a returned copy: %v", again.Details)
	}
	if again.Player != System {
		t.Errorf("player mutated: %q", again.Player)
	}
}

func TestReplayKeepsSequence(t *testing.T) {
	src := NewMemoryLogger()
	src.Log(NewTurnEvent(1, "P1"))
	src.Log(NewTurnEvent(2, "P2"))

	dst := NewMemoryLogger()
	dst.Replay(src.Events())
	dst.Log(NewTurnEvent(3, "P1"))

	events := dst.Events()
	if events[2].Seq != 3 {
		t.Errorf("expected next seq 3 after replay, got %d", events[2].Seq)
	}
}

func TestTextLoggerWritesLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf)
	l.Log(NewOrganRemovedEvent(4, "Play", "P2", "Heart"))

	out := buf.String()
	if !strings.Contains(out, "P2's Heart was removed") {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.HasPrefix(out, "T4 ") {
		t.Errorf("expected turn prefix, got %q", out)
	}
}

func TestZapLoggerMirrorsEvents(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	l := NewZapLogger(zap.New(core))
	l.Log(NewCardPlayedEvent(2, "Play", "P1", "Heart Attack", "P2", "Heart"))

	if len(l.Events()) != 1 {
		t.Fatalf("expected event kept in memory")
	}
	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 zap entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["type"] != "card_played" || fields["organ"] != "Heart" {
		t.Errorf("unexpected fields %v", fields)
	}
	if err := l.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestParseEventType(t *testing.T) {
	for typ := EventGameStart; typ <= EventGameRestored; typ++ {
		got, ok := ParseEventType(typ.String())
		if !ok || got != typ {
			t.Errorf("ParseEventType(%q) = %v, %v", typ.String(), got, ok)
		}
	}
	if _, ok := ParseEventType("nope"); ok {
		t.Error("expected unknown name to fail")
	}
}

func TestNewProcessLoggerRejectsBadLevel(t *testing.T) {
	if _, err := NewProcessLogger("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	z, err := NewProcessLogger("warn")
	if err != nil {
		t.Fatalf("NewProcessLogger: %v", err)
	}
	if z.Core().Enabled(zap.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
}
