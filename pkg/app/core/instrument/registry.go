// Package instrument keeps the set of symbols the desk quotes.
package instrument

import (
	"fmt"
	"sort"
	"sync"

	"github.com/uhyunpark/orderdesk/pkg/app/core"
)

// Defaults is the symbol list offered when nothing is configured.
var Defaults = []string{
	"PETR4", "VALE3", "ITUB4", "BBDC4", "MGLU3", "ABEV3", "WEGE3",
	"B3SA3", "RENT3", "BRKM5", "EMBR3", "BBAS3", "GGBR4", "LREN3",
}

// Registry manages known instruments in a thread-safe manner.
type Registry struct {
	mu      sync.RWMutex
	symbols map[string]struct{}
}

func NewRegistry(symbols ...string) *Registry {
	r := &Registry{symbols: make(map[string]struct{})}
	for _, s := range symbols {
		_ = r.Register(s)
	}
	return r
}

// Register adds a symbol. Returns error if it is empty or already known.
func (r *Registry) Register(symbol string) error {
	symbol = core.NormalizeInstrument(symbol)
	if symbol == "" {
		return fmt.Errorf("cannot register empty instrument")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.symbols[symbol]; exists {
		return fmt.Errorf("instrument %s already registered", symbol)
	}
	r.symbols[symbol] = struct{}{}
	return nil
}

func (r *Registry) Exists(symbol string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.symbols[core.NormalizeInstrument(symbol)]
	return exists
}

// List returns all symbols sorted alphabetically.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.symbols))
	for s := range r.symbols {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.symbols)
}
