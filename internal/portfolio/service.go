package portfolio

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service manages holdings and exposes priced positions.
//
// Contract:
// - Holdings are subject-scoped; the subject comes from the verified token.
// - Price snapshots are read-only here; the price-fetching integration
//   writes them through its own path.
// - No valuation/performance analytics: positions carry raw figures only.
type Service struct {
	holdings HoldingRepository
	prices   PriceRepository
	clock    func() time.Time
}

func NewService(holdings HoldingRepository, prices PriceRepository) *Service {
	return &Service{holdings: holdings, prices: prices, clock: time.Now}
}

var (
	ErrInvalidArgument = errors.New("portfolio: invalid argument")
	ErrNotFound        = errors.New("portfolio: not found")
)

// HoldingRepository abstracts holding persistence.
// Implementation can be Postgres, cached, etc.
type HoldingRepository interface {
	UpsertHolding(ctx context.Context, h Holding) error
	ListHoldings(ctx context.Context, subject string) ([]Holding, error)
	DeleteHolding(ctx context.Context, subject, id string) (bool, error)
}

// PriceRepository abstracts snapshot lookup.
type PriceRepository interface {
	// LatestPrice returns the most recent snapshot for symbol taken at or
	// before the given instant.
	LatestPrice(ctx context.Context, symbol string, at time.Time) (PriceSnapshot, bool, error)
}

type UpsertHoldingRequest struct {
	// ID is empty for a new holding.
	ID             string
	Symbol         string
	QuantityMicro  int64
	CostBasisMinor int64
	Currency       string
}

func (s *Service) UpsertHolding(ctx context.Context, subject string, req UpsertHoldingRequest) (Holding, error) {
	if subject == "" {
		return Holding{}, ErrInvalidArgument
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" || req.Currency == "" {
		return Holding{}, ErrInvalidArgument
	}
	if req.QuantityMicro <= 0 || req.CostBasisMinor < 0 {
		return Holding{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	h := Holding{
		ID:             req.ID,
		Subject:        subject,
		Symbol:         symbol,
		QuantityMicro:  req.QuantityMicro,
		CostBasisMinor: req.CostBasisMinor,
		Currency:       req.Currency,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}

	if err := s.holdings.UpsertHolding(ctx, h); err != nil {
		return Holding{}, err
	}
	return h, nil
}

func (s *Service) DeleteHolding(ctx context.Context, subject, id string) error {
	if subject == "" || id == "" {
		return ErrInvalidArgument
	}
	ok, err := s.holdings.DeleteHolding(ctx, subject, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Positions returns the subject's holdings, each paired with the latest
// snapshot available at the given instant. A missing snapshot is not an
// error: the position is returned unpriced.
func (s *Service) Positions(ctx context.Context, subject string, at time.Time) ([]Position, error) {
	if subject == "" {
		return nil, ErrInvalidArgument
	}
	if at.IsZero() {
		at = s.clock().UTC()
	}

	hs, err := s.holdings.ListHoldings(ctx, subject)
	if err != nil {
		return nil, err
	}

	out := make([]Position, 0, len(hs))
	for _, h := range hs {
		p := Position{Holding: h}
		snap, ok, err := s.prices.LatestPrice(ctx, h.Symbol, at)
		if err != nil {
			return nil, err
		}
		if ok {
			p.LastPrice = snap
			p.Priced = true
		}
		out = append(out, p)
	}
	return out, nil
}
