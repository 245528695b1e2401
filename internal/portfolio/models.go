package portfolio

import "time"

// Portfolio models are subject-scoped (subject required everywhere).
// Quantities use micro-units (1e-6 of an instrument) and money uses minor
// units, both as int64, so no floats appear in stored positions.

// Holding is one instrument position owned by a subject.
type Holding struct {
	ID      string `json:"id" db:"id"`
	Subject string `json:"subject" db:"subject"`

	// Symbol identifies the instrument (e.g., "AAPL", "BTC-USD").
	Symbol string `json:"symbol" db:"symbol"`

	QuantityMicro int64 `json:"quantity_micro" db:"quantity_micro"`

	// CostBasisMinor is the total acquisition cost of the position.
	CostBasisMinor int64  `json:"cost_basis_minor" db:"cost_basis_minor"`
	Currency       string `json:"currency" db:"currency"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PriceSnapshot is the last known quote for a symbol, written by the
// (external) price-fetching integration.
type PriceSnapshot struct {
	Symbol     string    `json:"symbol" db:"symbol"`
	Currency   string    `json:"currency" db:"currency"`
	PriceMinor int64     `json:"price_minor" db:"price_minor"`
	AsOf       time.Time `json:"as_of" db:"as_of"`
}

// Position pairs a holding with the latest snapshot available at a point in
// time. No derived metrics are computed here; raw figures only.
type Position struct {
	Holding Holding `json:"holding"`

	// LastPrice is zero-valued when no snapshot exists for the symbol.
	LastPrice PriceSnapshot `json:"last_price"`
	Priced    bool          `json:"priced"`
}
