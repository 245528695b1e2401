package portfolio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUpsertHolding_NormalizesSymbolAndAssignsID(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, repo)

	h, err := svc.UpsertHolding(context.Background(), "42", UpsertHoldingRequest{
		Symbol:         " aapl ",
		QuantityMicro:  2_500_000,
		CostBasisMinor: 45000,
		Currency:       "USD",
	})
	require.NoError(t, err)
	require.NotEmpty(t, h.ID)
	require.Equal(t, "AAPL", h.Symbol)
	require.Equal(t, "42", h.Subject)
}

func TestUpsertHolding_RejectsInvalidArgs(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, repo)
	ctx := context.Background()

	_, err := svc.UpsertHolding(ctx, "", UpsertHoldingRequest{Symbol: "AAPL", QuantityMicro: 1, Currency: "USD"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.UpsertHolding(ctx, "42", UpsertHoldingRequest{Symbol: "", QuantityMicro: 1, Currency: "USD"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.UpsertHolding(ctx, "42", UpsertHoldingRequest{Symbol: "AAPL", QuantityMicro: 0, Currency: "USD"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.UpsertHolding(ctx, "42", UpsertHoldingRequest{Symbol: "AAPL", QuantityMicro: 1, CostBasisMinor: -1, Currency: "USD"})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPositions_PairsHoldingsWithLatestSnapshot(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, repo)
	ctx := context.Background()

	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	repo.Snapshots = []PriceSnapshot{
		{Symbol: "AAPL", Currency: "USD", PriceMinor: 18000, AsOf: at.Add(-2 * time.Hour)},
		{Symbol: "AAPL", Currency: "USD", PriceMinor: 18100, AsOf: at.Add(-time.Hour)},
		// Future snapshot must not be selected.
		{Symbol: "AAPL", Currency: "USD", PriceMinor: 19000, AsOf: at.Add(time.Hour)},
	}

	_, err := svc.UpsertHolding(ctx, "42", UpsertHoldingRequest{
		Symbol: "AAPL", QuantityMicro: 1_000_000, CostBasisMinor: 15000, Currency: "USD",
	})
	require.NoError(t, err)
	_, err = svc.UpsertHolding(ctx, "42", UpsertHoldingRequest{
		Symbol: "MSFT", QuantityMicro: 500_000, CostBasisMinor: 20000, Currency: "USD",
	})
	require.NoError(t, err)

	positions, err := svc.Positions(ctx, "42", at)
	require.NoError(t, err)
	require.Len(t, positions, 2)

	bySymbol := map[string]Position{}
	for _, p := range positions {
		bySymbol[p.Holding.Symbol] = p
	}

	require.True(t, bySymbol["AAPL"].Priced)
	require.Equal(t, int64(18100), bySymbol["AAPL"].LastPrice.PriceMinor)

	// No snapshot for MSFT: position is returned unpriced, not dropped.
	require.False(t, bySymbol["MSFT"].Priced)
}

func TestPositions_IsolatesSubjects(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, repo)
	ctx := context.Background()

	_, err := svc.UpsertHolding(ctx, "42", UpsertHoldingRequest{Symbol: "AAPL", QuantityMicro: 1, Currency: "USD"})
	require.NoError(t, err)

	positions, err := svc.Positions(ctx, "7", time.Now())
	require.NoError(t, err)
	require.Empty(t, positions)
}

func TestDeleteHolding(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, repo)
	ctx := context.Background()

	h, err := svc.UpsertHolding(ctx, "42", UpsertHoldingRequest{Symbol: "AAPL", QuantityMicro: 1, Currency: "USD"})
	require.NoError(t, err)

	// Another subject must not be able to delete it.
	require.ErrorIs(t, svc.DeleteHolding(ctx, "7", h.ID), ErrNotFound)

	require.NoError(t, svc.DeleteHolding(ctx, "42", h.ID))
	require.ErrorIs(t, svc.DeleteHolding(ctx, "42", h.ID), ErrNotFound)
}
