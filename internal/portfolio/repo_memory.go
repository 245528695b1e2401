package portfolio

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is a simple in-memory repository useful for tests and early
// development. It implements both HoldingRepository and PriceRepository.
//
// NOTE: This is not intended for production; replace with Postgres implementation.
type MemoryRepo struct {
	mu        sync.Mutex
	holdings  []Holding
	Snapshots []PriceSnapshot
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) UpsertHolding(ctx context.Context, h Holding) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.holdings {
		if r.holdings[i].Subject == h.Subject && r.holdings[i].ID == h.ID {
			h.CreatedAt = r.holdings[i].CreatedAt
			r.holdings[i] = h
			return nil
		}
	}
	r.holdings = append(r.holdings, h)
	return nil
}

func (r *MemoryRepo) ListHoldings(ctx context.Context, subject string) ([]Holding, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Holding
	for _, h := range r.holdings {
		if h.Subject == subject {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *MemoryRepo) DeleteHolding(ctx context.Context, subject, id string) (bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.holdings {
		if r.holdings[i].Subject == subject && r.holdings[i].ID == id {
			r.holdings = append(r.holdings[:i], r.holdings[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepo) LatestPrice(ctx context.Context, symbol string, at time.Time) (PriceSnapshot, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	// Prefer the most recent snapshot not after the requested instant.
	var best PriceSnapshot
	found := false

	for _, s := range r.Snapshots {
		if s.Symbol != symbol {
			continue
		}
		if s.AsOf.After(at) {
			continue
		}
		if !found || s.AsOf.After(best.AsOf) {
			best = s
			found = true
		}
	}

	return best, found, nil
}
