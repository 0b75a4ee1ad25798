package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"gopkg.in/yaml.v3"

	"github.com/peterkuimelis/organattack/internal/game"
	"github.com/peterkuimelis/organattack/internal/log"
	oanet "github.com/peterkuimelis/organattack/internal/net"
	"github.com/peterkuimelis/organattack/internal/session"
)

func newTestServer(t *testing.T) (*httptest.Server, *session.Session) {
	t.Helper()
	sess := session.New(session.Options{
		Game:      game.Config{Seed: 5},
		EventSink: func() log.EventLogger { return log.NewMemoryLogger() },
	})
	ts := httptest.NewServer(NewServer(sess, nil).Handler())
	t.Cleanup(func() {
		ts.Close()
		sess.Close()
	})
	return ts, sess
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestIndex(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "Organ Attack") {
		t.Fatal("index page not served")
	}

	resp, _ = get(t, ts.URL+"/static/app.js")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("static asset: expected 200, got %d", resp.StatusCode)
	}
	resp, _ = get(t, ts.URL+"/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCardsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	_, body := get(t, ts.URL+"/api/cards")
	var cards []CardInfo
	if err := json.Unmarshal(body, &cards); err != nil {
		t.Fatalf("decode cards: %v", err)
	}
	if len(cards) != game.DefaultCatalog().Len() {
		t.Fatalf("expected %d cards, got %d", game.DefaultCatalog().Len(), len(cards))
	}
	var heart *CardInfo
	for i := range cards {
		if cards[i].ID == "attack_001" {
			heart = &cards[i]
		}
	}
	if heart == nil {
		t.Fatal("attack_001 missing")
	}
	if heart.Copies != 3 || heart.TargetOrgan != "Heart" || len(heart.Effects) != 1 || heart.Effects[0] != "remove_organ" {
		t.Fatalf("unexpected card info %+v", heart)
	}

	resp, body := get(t, ts.URL+"/api/cards?format=yaml")
	if ct := resp.Header.Get("Content-Type"); ct != "application/yaml" {
		t.Fatalf("expected yaml content type, got %q", ct)
	}
	var doc map[string][]map[string]any
	if err := yaml.Unmarshal(body, &doc); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if len(doc["cards"]) != len(cards) {
		t.Fatalf("yaml lists %d cards, json %d", len(doc["cards"]), len(cards))
	}
}

func TestStateEndpoint(t *testing.T) {
	ts, sess := newTestServer(t)

	resp, body := get(t, ts.URL+"/api/state")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 without a game, got %d: %s", resp.StatusCode, body)
	}

	if _, err := sess.Start([]string{"Ann", "Bo"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	resp, body = get(t, ts.URL+"/api/state")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var msg oanet.ServerMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.State == nil || len(msg.State.Players) != 2 || msg.State.Phase != "Draw" {
		t.Fatalf("unexpected state %s", body)
	}

	resp, _ = get(t, ts.URL+"/api/events?since=x")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad since, got %d", resp.StatusCode)
	}
	_, body = get(t, ts.URL+"/api/events?since=1")
	if err := json.Unmarshal(body, &msg); err != nil {
		t.Fatalf("decode events: %v", err)
	}
	for _, ev := range msg.Events {
		if ev.Seq <= 1 {
			t.Fatalf("event %d returned for since=1", ev.Seq)
		}
	}

	resp, _ = get(t, ts.URL+"/api/saves")
	if resp.StatusCode != http.StatusNotImplemented {
		t.Fatalf("expected 501 without a store, got %d", resp.StatusCode)
	}
}

func readState(t *testing.T, ctx context.Context, c *websocket.Conn) *oanet.StateView {
	t.Helper()
	for {
		var msg oanet.ServerMessage
		if err := wsjson.Read(ctx, c, &msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Type == oanet.ReplyError {
			t.Fatalf("server error: %s", msg.Error)
		}
		if msg.Type == oanet.ReplyState {
			return msg.State
		}
	}
}

func TestWebSocketBroadcast(t *testing.T) {
	ts, _ := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	a, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial a: %v", err)
	}
	defer a.CloseNow()
	b, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial b: %v", err)
	}
	defer b.CloseNow()

	// Both sockets must be registered as watchers before the game starts.
	if err := wsjson.Write(ctx, b, oanet.ClientMessage{Type: oanet.MsgState}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var reply oanet.ServerMessage
	if err := wsjson.Read(ctx, b, &reply); err != nil || reply.Code != "no_game" {
		t.Fatalf("expected no_game, got %+v, %v", reply, err)
	}

	if err := wsjson.Write(ctx, a, oanet.ClientMessage{Type: oanet.MsgNewGame, Players: []string{"Ann", "Bo"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if sv := readState(t, ctx, a); sv.Phase != "Draw" {
		t.Fatalf("a: expected Draw, got %s", sv.Phase)
	}
	if sv := readState(t, ctx, b); sv.Phase != "Draw" || len(sv.Players) != 2 {
		t.Fatalf("b: unexpected broadcast %+v", sv)
	}
}
