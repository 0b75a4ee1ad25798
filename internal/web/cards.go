package web

import (
	"net/http"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/peterkuimelis/organattack/internal/game"
)

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	game.CardView `yaml:",inline"`
	Effects       []string `json:"effects,omitempty" yaml:"effects,omitempty"`
	OrganType     string   `json:"organ_type,omitempty" yaml:"organ_type,omitempty"`
	Vital         bool     `json:"vital,omitempty" yaml:"vital,omitempty"`
	Copies        int      `json:"copies" yaml:"copies"`
}

func cardInfos(cat *game.Catalog) []CardInfo {
	copies := make(map[string]int)
	for _, c := range game.SeedCards(cat) {
		copies[c.ID]++
	}

	cards := make([]CardInfo, 0, cat.Len())
	for _, c := range cat.All() {
		ci := CardInfo{
			CardView:  game.NewCardView(c),
			OrganType: string(c.OrganType),
			Vital:     c.Vital,
			Copies:    copies[c.ID],
		}
		for _, e := range c.Effects {
			ci.Effects = append(ci.Effects, e.Action().String())
		}
		cards = append(cards, ci)
	}
	return cards
}

// handleCards lists the catalog. ?format=yaml returns it as YAML.
func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	cards := cardInfos(s.sess.Catalog())
	if r.URL.Query().Get("format") == "yaml" {
		w.Header().Set("Content-Type", "application/yaml")
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string][]CardInfo{"cards": cards}); err != nil {
			s.log.Warn("encode cards", zap.Error(err))
		}
		enc.Close()
		return
	}
	writeJSON(w, http.StatusOK, cards)
}
