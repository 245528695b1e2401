package budget

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// NOTE: This repository assumes the following tables exist:
// - budget_categories
// - budget_transactions (immutable append-only)
// - budget_category_balances (projection)
//
// It also assumes an idempotency constraint, e.g.:
// UNIQUE (category_id, idempotency_key)

func insertCategory(ctx context.Context, tx *sql.Tx, c Category) error {
	const q = `
INSERT INTO budget_categories (id, subject, name, currency, monthly_limit_minor, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err := tx.ExecContext(ctx, q,
		c.ID,
		c.Subject,
		c.Name,
		c.Currency,
		c.MonthlyLimitMinor,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func listCategories(ctx context.Context, db *sql.DB, subject string) ([]Category, error) {
	const q = `
SELECT id, subject, name, currency, monthly_limit_minor, created_at, updated_at
FROM budget_categories
WHERE subject = $1
ORDER BY created_at
`
	rows, err := db.QueryContext(ctx, q, subject)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(
			&c.ID,
			&c.Subject,
			&c.Name,
			&c.Currency,
			&c.MonthlyLimitMinor,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func lockCategory(ctx context.Context, tx *sql.Tx, subject, categoryID string) (Category, error) {
	// Lock the category row to serialize concurrent ledger writes.
	const q = `
SELECT id, subject, name, currency, monthly_limit_minor, created_at, updated_at
FROM budget_categories
WHERE subject = $1 AND id = $2
FOR UPDATE
`
	var c Category
	if err := tx.QueryRowContext(ctx, q, subject, categoryID).Scan(
		&c.ID,
		&c.Subject,
		&c.Name,
		&c.Currency,
		&c.MonthlyLimitMinor,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Category{}, ErrNotFound
		}
		return Category{}, err
	}
	return c, nil
}

func insertTransaction(ctx context.Context, tx *sql.Tx, t Transaction) error {
	const q = `
INSERT INTO budget_transactions (id, subject, category_id, type, amount_minor, currency, description, idempotency_key, occurred_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err := tx.ExecContext(ctx, q,
		t.ID,
		t.Subject,
		t.CategoryID,
		t.Type,
		t.AmountMinor,
		t.Currency,
		t.Description,
		t.IdempotencyKey,
		t.OccurredAt,
		t.CreatedAt,
	)
	return err
}

func findTransactionByIdempotency(ctx context.Context, tx *sql.Tx, subject, categoryID, key string) (Transaction, bool, error) {
	const q = `
SELECT id, subject, category_id, type, amount_minor, currency, description, idempotency_key, occurred_at, created_at
FROM budget_transactions
WHERE subject = $1 AND category_id = $2 AND idempotency_key = $3
LIMIT 1
`
	var t Transaction
	err := tx.QueryRowContext(ctx, q, subject, categoryID, key).Scan(
		&t.ID,
		&t.Subject,
		&t.CategoryID,
		&t.Type,
		&t.AmountMinor,
		&t.Currency,
		&t.Description,
		&t.IdempotencyKey,
		&t.OccurredAt,
		&t.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Transaction{}, false, nil
	}
	if err != nil {
		return Transaction{}, false, err
	}
	return t, true, nil
}

func applyBalanceDelta(ctx context.Context, tx *sql.Tx, subject, categoryID, currency string, deltaMinor int64, now time.Time) (Balance, error) {
	const q = `
INSERT INTO budget_category_balances (subject, category_id, currency, net_minor, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (subject, category_id)
DO UPDATE SET net_minor = budget_category_balances.net_minor + EXCLUDED.net_minor, updated_at = EXCLUDED.updated_at
RETURNING subject, category_id, currency, net_minor, updated_at
`
	var b Balance
	if err := tx.QueryRowContext(ctx, q, subject, categoryID, currency, deltaMinor, now).Scan(
		&b.Subject,
		&b.CategoryID,
		&b.Currency,
		&b.NetMinor,
		&b.UpdatedAt,
	); err != nil {
		return Balance{}, err
	}
	return b, nil
}

func getBalance(ctx context.Context, db *sql.DB, subject, categoryID string) (Balance, error) {
	const q = `
SELECT subject, category_id, currency, net_minor, updated_at
FROM budget_category_balances
WHERE subject = $1 AND category_id = $2
`
	var b Balance
	if err := db.QueryRowContext(ctx, q, subject, categoryID).Scan(
		&b.Subject,
		&b.CategoryID,
		&b.Currency,
		&b.NetMinor,
		&b.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Balance{}, ErrNotFound
		}
		return Balance{}, err
	}
	return b, nil
}

func getBalanceTx(ctx context.Context, tx *sql.Tx, subject, categoryID string) (Balance, error) {
	const q = `
SELECT subject, category_id, currency, net_minor, updated_at
FROM budget_category_balances
WHERE subject = $1 AND category_id = $2
`
	var b Balance
	if err := tx.QueryRowContext(ctx, q, subject, categoryID).Scan(
		&b.Subject,
		&b.CategoryID,
		&b.Currency,
		&b.NetMinor,
		&b.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Balance{}, ErrNotFound
		}
		return Balance{}, err
	}
	return b, nil
}

func monthlyCategoryTotals(ctx context.Context, db *sql.DB, subject string, from, to time.Time) ([]CategoryTotal, error) {
	const q = `
SELECT t.category_id, c.name, t.currency, COALESCE(SUM(t.amount_minor), 0), COUNT(*)
FROM budget_transactions t
JOIN budget_categories c ON c.id = t.category_id AND c.subject = t.subject
WHERE t.subject = $1 AND t.occurred_at >= $2 AND t.occurred_at < $3
GROUP BY t.category_id, c.name, t.currency
ORDER BY c.name
`
	rows, err := db.QueryContext(ctx, q, subject, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.Name, &ct.Currency, &ct.NetMinor, &ct.EntryCount); err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}
