package strategy

import (
	"math/rand"
	"time"

	"github.com/rustyeddy/coinflip/market"
)

// CoinFlip picks a side uniformly at random. It carries no information about
// the market by construction.
type CoinFlip struct {
	rng *rand.Rand
}

// NewCoinFlip seeds the flip. A zero seed uses the wall clock.
func NewCoinFlip(seed int64) *CoinFlip {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &CoinFlip{rng: rand.New(rand.NewSource(seed))}
}

func (c *CoinFlip) Flip() market.Side {
	if c.rng.Intn(2) == 0 {
		return market.Call
	}
	return market.Put
}
