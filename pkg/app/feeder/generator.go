package feeder

import (
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/orderdesk/pkg/app/core"
)

// Generator creates random limit orders around a per-instrument reference
// price that drifts with every order.
type Generator struct {
	symbols []string
	refs    map[string]int64 // reference price in cents
	rng     *rand.Rand

	orders  int
	cancels int
}

// NewGenerator creates a generator for symbols. The same seed yields the
// same sequence of requests.
func NewGenerator(symbols []string, seed int64) *Generator {
	g := &Generator{
		symbols: symbols,
		refs:    make(map[string]int64, len(symbols)),
		rng:     rand.New(rand.NewSource(seed)),
	}
	for _, s := range symbols {
		// somewhere between 5.00 and 100.00
		g.refs[s] = 500 + g.rng.Int63n(9500)
	}
	return g
}

// GenerateOrder creates a random order request.
func (g *Generator) GenerateOrder() core.OrderRequest {
	symbol := g.symbols[g.rng.Intn(len(g.symbols))]

	// Random walk: ±0.5% per order, never below 1.00
	ref := g.refs[symbol]
	ref += g.rng.Int63n(ref/100+1) - ref/200
	if ref < 100 {
		ref = 100
	}
	g.refs[symbol] = ref

	// Buys quote at or below the reference, sells at or above, so roughly
	// a third of orders cross
	side := core.Buy
	offset := g.rng.Int63n(ref/50 + 1) // up to 2%
	if g.rng.Intn(2) == 1 {
		side = core.Sell
	}
	if g.rng.Intn(3) == 0 {
		offset = -offset // aggressive
	}
	cents := ref - int64(side)*offset
	if cents < 1 {
		cents = 1
	}

	// Round lots of 100, up to 1000
	qty := int64(g.rng.Intn(10)+1) * 100

	g.orders++
	return core.OrderRequest{
		Instrument: symbol,
		Side:       side,
		Price:      decimal.New(cents, -core.PriceDecimals),
		Quantity:   qty,
	}
}

// PickCancel chooses one of the resting order IDs, or "" if there is none.
func (g *Generator) PickCancel(resting []string) string {
	if len(resting) == 0 {
		return ""
	}
	g.cancels++
	return resting[g.rng.Intn(len(resting))]
}

// ShouldCancel reports whether the next action is a cancel, with the
// given probability in percent.
func (g *Generator) ShouldCancel(percent int) bool {
	return g.rng.Intn(100) < percent
}

// Stats is a snapshot of generation counters
type Stats struct {
	Orders  int
	Cancels int
}

func (g *Generator) Stats() Stats {
	return Stats{Orders: g.orders, Cancels: g.cancels}
}
