package chain

import (
	"fmt"
	"sort"

	"github.com/KirkDiggler/ticketsnipe/internal/address"
	"github.com/KirkDiggler/ticketsnipe/internal/models"
)

// Registry dispatches on a ticket's chain
type Registry struct {
	adapters map[models.Chain]Adapter
}

// NewRegistry indexes adapters by chain
func NewRegistry(adapters ...Adapter) (*Registry, error) {
	r := &Registry{adapters: make(map[models.Chain]Adapter, len(adapters))}
	for _, a := range adapters {
		if a == nil {
			continue
		}
		if _, dup := r.adapters[a.Chain()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateChain, a.Chain())
		}
		r.adapters[a.Chain()] = a
	}
	return r, nil
}

// Get returns the adapter for a chain
func (r *Registry) Get(chain models.Chain) (Adapter, error) {
	a, ok := r.adapters[chain]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedChain, chain)
	}
	return a, nil
}

// Chains lists the registered chains in a stable order
func (r *Registry) Chains() []models.Chain {
	out := make([]models.Chain, 0, len(r.adapters))
	for c := range r.adapters {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsOwnAddress reports whether addr is one of our receive addresses
func (r *Registry) IsOwnAddress(addr string, chain models.Chain) bool {
	a, ok := r.adapters[chain]
	if !ok {
		return false
	}
	return address.Same(a.GetPayoutAddress(), addr, chain)
}
