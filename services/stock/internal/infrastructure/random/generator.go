// Package random generates simulated market data.
package random

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Generator produces random quote changes. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator. A zero seed seeds from the clock.
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

func (g *Generator) float64() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Float64()
}

func (g *Generator) int64N(n int64) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Int64N(n)
}

func (g *Generator) between(lo, hi float64) float64 {
	return lo + (hi-lo)*g.float64()
}

// RateInRange returns a percentage in [minRate, maxRate).
func (g *Generator) RateInRange(minRate, maxRate int) float64 {
	return g.between(float64(minRate), float64(maxRate))
}

// PriceChangeRate returns a percentage in [-5, 5).
func (g *Generator) PriceChangeRate() float64 {
	return g.between(-5, 5)
}

// Volume returns base volume changed by up to ±20%, at least 1.
func (g *Generator) Volume(base int64) int64 {
	v := int64(float64(base) * g.between(0.8, 1.2))
	if v < 1 {
		return 1
	}
	return v
}

// ViewCountIncrease returns a value in [0, 100).
func (g *Generator) ViewCountIncrease() int64 {
	return g.int64N(100)
}

// OrderVolume returns a value in [10000, 100000).
func (g *Generator) OrderVolume() int64 {
	return 10000 + g.int64N(90000)
}

// TurnoverRate returns a percentage in [0.5, 10).
func (g *Generator) TurnoverRate() float64 {
	return g.between(0.5, 10)
}

// InitialPrice returns a starting price in [1000, 100000).
func (g *Generator) InitialPrice() float64 {
	return g.between(1000, 100000)
}

// InitialVolume returns a starting daily volume in [10000, 1000000).
func (g *Generator) InitialVolume() int64 {
	return 10000 + g.int64N(990000)
}

// InitialViewCount returns a starting view count in [0, 10000).
func (g *Generator) InitialViewCount() int64 {
	return g.int64N(10000)
}
