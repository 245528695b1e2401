package budget

import "time"

// Budget models are subject-scoped: every row belongs to the authenticated
// principal that created it, and every query filters on subject.
// Amounts are expressed in minor units (e.g., cents) using int64.

// Category is a spending bucket with an optional monthly limit.
type Category struct {
	ID      string `json:"id" db:"id"`
	Subject string `json:"subject" db:"subject"`

	Name     string `json:"name" db:"name"`
	Currency string `json:"currency" db:"currency"`

	// MonthlyLimitMinor of zero means no limit.
	MonthlyLimitMinor int64 `json:"monthly_limit_minor" db:"monthly_limit_minor"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Transaction is an immutable ledger entry against a category.
//
// Invariants:
// - No balance updates without a ledger entry.
// - The ledger is append-only (never updated or deleted).
// - All money operations execute in a DB transaction.
type Transaction struct {
	ID         string `json:"id" db:"id"`
	Subject    string `json:"subject" db:"subject"`
	CategoryID string `json:"category_id" db:"category_id"`

	Type TransactionType `json:"type" db:"type"`

	// AmountMinor is signed: negative for expenses, positive for income.
	AmountMinor int64  `json:"amount_minor" db:"amount_minor"`
	Currency    string `json:"currency" db:"currency"`

	Description    string `json:"description,omitempty" db:"description"`
	IdempotencyKey string `json:"idempotency_key" db:"idempotency_key"`

	OccurredAt time.Time `json:"occurred_at" db:"occurred_at"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// Balance is the per-category projection updated atomically alongside
// ledger inserts.
type Balance struct {
	Subject    string    `json:"subject" db:"subject"`
	CategoryID string    `json:"category_id" db:"category_id"`
	Currency   string    `json:"currency" db:"currency"`
	NetMinor   int64     `json:"net_minor" db:"net_minor"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// MonthlySummary aggregates a subject's ledger for one calendar month.
type MonthlySummary struct {
	Subject string `json:"subject"`
	// Month in YYYY-MM form.
	Month string `json:"month"`

	TotalExpenseMinor int64 `json:"total_expense_minor"`
	TotalIncomeMinor  int64 `json:"total_income_minor"`

	ByCategory []CategoryTotal `json:"by_category"`
}

type CategoryTotal struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Currency   string `json:"currency"`
	NetMinor   int64  `json:"net_minor"`
	EntryCount int    `json:"entry_count"`
}
