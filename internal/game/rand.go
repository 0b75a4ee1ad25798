package game

import (
	"math/rand"
	"time"
)

// Rand is the randomness source the engine draws on for shuffles, organ
// dealing, the starting player and coin flips. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a seeded source. A zero seed uses the current time.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Coin outcomes for coin_flip_destroy.
const (
	CoinHeads = "heads" // destructive
	CoinTails = "tails"
)

func flipCoin(r Rand) string {
	if r.Intn(2) == 0 {
		return CoinHeads
	}
	return CoinTails
}
