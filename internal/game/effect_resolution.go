package game

import "fmt"

// Result is the outcome of resolving a single effect.
type Result struct {
	Action    Action
	Success   bool
	Player    string    // affected player
	Organ     OrganType // affected organ
	Blocked   bool      // removal stopped by protection
	Protected bool      // organ is now protected
	Drawn     []*Card   // cards drawn, in order
	Coin      string    // coin outcome, coin flips only
	Destroyed bool      // coin flip removed the organ
	Error     string
}

// Details flattens the result into the string map carried by effect events.
func (r Result) Details() map[string]string {
	d := map[string]string{"action": r.Action.String()}
	if r.Player != "" {
		d["player"] = r.Player
	}
	if r.Organ != "" {
		d["organ"] = string(r.Organ)
	}
	if r.Blocked {
		d["blocked"] = "true"
	}
	if r.Protected {
		d["protected"] = "true"
	}
	if r.Action == ActionDrawCards {
		d["count"] = fmt.Sprint(len(r.Drawn))
	}
	if r.Coin != "" {
		d["coin"] = r.Coin
		d["destroyed"] = fmt.Sprint(r.Destroyed)
	}
	if r.Error != "" {
		d["error"] = r.Error
	}
	return d
}

// Processor resolves card effects against players. It is the only place
// where effects mutate organs, skip flags and hands.
type Processor struct {
	rng Rand
	// draw moves one card from the deck into the player's hand, or returns
	// nil when no card is left anywhere.
	draw func(p *Player) *Card
}

func NewProcessor(rng Rand, draw func(p *Player) *Card) *Processor {
	return &Processor{rng: rng, draw: draw}
}

// Process resolves every effect of the card in order. A failing effect does
// not stop the ones after it. target may be nil and organ may be empty.
func (pr *Processor) Process(card *Card, actor, target *Player, organ OrganType) []Result {
	results := make([]Result, 0, len(card.Effects))
	for _, eff := range card.Effects {
		results = append(results, pr.resolve(eff, actor, target, organ))
	}
	return results
}

func (pr *Processor) resolve(eff Effect, actor, target *Player, organ OrganType) Result {
	switch e := eff.(type) {
	case RemoveOrgan:
		return pr.removeOrgan(e, target, pickOrgan(organ, e.Organ))
	case ProtectOrgan:
		return pr.protectOrgan(e, actor, target, pickOrgan(organ, e.Organ))
	case BlockAttack:
		return Result{Action: ActionBlockAttack, Success: true, Player: actor.Name}
	case StealOrgan:
		return pr.stealOrgan(target, pickOrgan(organ, e.Organ))
	case DrawCards:
		return pr.drawCards(e, actor)
	case SkipTurn:
		return pr.skipTurn(target)
	case CoinFlipDestroy:
		return pr.coinFlipDestroy(target, pickOrgan(organ, e.Organ))
	default:
		return Result{Action: ActionUnknown, Error: fmt.Sprintf("unknown action %T", eff)}
	}
}

func pickOrgan(played, preset OrganType) OrganType {
	if played != "" {
		return played
	}
	return preset
}

func (pr *Processor) removeOrgan(_ RemoveOrgan, target *Player, organ OrganType) Result {
	r := Result{Action: ActionRemoveOrgan, Organ: organ}
	if target == nil || organ == "" {
		r.Error = "missing target for organ removal"
		return r
	}
	r.Player = target.Name
	if target.IsOrganProtected(organ) {
		r.Blocked = true
		r.Error = "organ is protected"
		return r
	}
	r.Success = target.RemoveOrgan(organ)
	if !r.Success {
		r.Error = fmt.Sprintf("%s has no %s", target.Name, organ)
	}
	return r
}

func (pr *Processor) protectOrgan(e ProtectOrgan, actor, target *Player, organ OrganType) Result {
	r := Result{Action: ActionProtectOrgan, Organ: organ}
	if target == nil {
		target = actor
	}
	r.Player = target.Name
	if organ == "" {
		r.Error = "no target organ specified"
		return r
	}
	turns := 0
	if e.Duration == DurationTurns {
		turns = e.Turns
	}
	r.Success = target.ProtectOrgan(organ, "Protected by "+actor.Name, turns)
	r.Protected = r.Success
	if !r.Success {
		r.Error = fmt.Sprintf("%s cannot be protected", organ)
	}
	return r
}

func (pr *Processor) stealOrgan(target *Player, organ OrganType) Result {
	r := Result{Action: ActionStealOrgan, Organ: organ}
	if target == nil || organ == "" {
		r.Error = "missing target for organ steal"
		return r
	}
	r.Player = target.Name
	r.Error = "organ stealing not implemented"
	return r
}

func (pr *Processor) drawCards(e DrawCards, actor *Player) Result {
	n := e.Count
	if n <= 0 {
		n = 1
	}
	r := Result{Action: ActionDrawCards, Success: true, Player: actor.Name}
	for i := 0; i < n; i++ {
		card := pr.draw(actor)
		if card == nil {
			break
		}
		r.Drawn = append(r.Drawn, card)
	}
	return r
}

func (pr *Processor) skipTurn(target *Player) Result {
	r := Result{Action: ActionSkipTurn}
	if target == nil {
		r.Error = "no target player for skip turn"
		return r
	}
	target.SkipNextTurn = true
	r.Player = target.Name
	r.Success = true
	return r
}

func (pr *Processor) coinFlipDestroy(target *Player, organ OrganType) Result {
	r := Result{Action: ActionCoinFlipDestroy, Organ: organ, Coin: flipCoin(pr.rng), Success: true}
	if target != nil {
		r.Player = target.Name
	}
	if r.Coin != CoinHeads || target == nil || organ == "" {
		return r
	}
	if target.IsOrganProtected(organ) {
		r.Blocked = true
		r.Success = false
		r.Error = "organ is protected"
		return r
	}
	r.Destroyed = target.RemoveOrgan(organ)
	r.Success = r.Destroyed
	return r
}
