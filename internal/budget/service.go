package budget

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"finance-platform/pkg/utils"

	"github.com/google/uuid"
)

// Service provides budget operations.
//
// Money invariants:
// - No projection updates without a ledger entry
// - Ledger is append-only (immutable)
// - All money operations must be executed in a DB transaction
//
// Tenancy invariant:
// - subject is required and enforced in all queries; it comes from the
//   verified token, never from the request body.
type Service struct {
	db *sql.DB
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, clock: time.Now}
}

var (
	ErrInvalidArgument = errors.New("budget: invalid argument")
	ErrNotFound        = errors.New("budget: not found")
)

type CreateCategoryRequest struct {
	Name              string
	Currency          string
	MonthlyLimitMinor int64
}

func (s *Service) CreateCategory(ctx context.Context, subject string, req CreateCategoryRequest) (Category, error) {
	if subject == "" || req.Name == "" || req.Currency == "" {
		return Category{}, ErrInvalidArgument
	}
	if req.MonthlyLimitMinor < 0 {
		return Category{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	cat := Category{
		ID:                uuid.NewString(),
		Subject:           subject,
		Name:              req.Name,
		Currency:          req.Currency,
		MonthlyLimitMinor: req.MonthlyLimitMinor,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err := utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		return insertCategory(ctx, tx, cat)
	})
	if err != nil {
		return Category{}, err
	}
	return cat, nil
}

func (s *Service) ListCategories(ctx context.Context, subject string) ([]Category, error) {
	if subject == "" {
		return nil, ErrInvalidArgument
	}
	return listCategories(ctx, s.db, subject)
}

type RecordTransactionRequest struct {
	CategoryID     string
	Type           TransactionType
	AmountMinor    int64
	Currency       string
	Description    string
	IdempotencyKey string
	OccurredAt     time.Time
}

// RecordTransaction appends a ledger entry and updates the category
// projection atomically. Expenses are stored with negative amounts; callers
// pass positive magnitudes.
func (s *Service) RecordTransaction(ctx context.Context, subject string, req RecordTransactionRequest) (Transaction, Balance, error) {
	if err := validateRecordReq(subject, req); err != nil {
		return Transaction{}, Balance{}, err
	}

	now := s.clock().UTC()
	occurred := req.OccurredAt
	if occurred.IsZero() {
		occurred = now
	}

	signed := req.AmountMinor
	if req.Type == TransactionTypeExpense {
		signed = -signed
	}

	var outTx Transaction
	var outBal Balance

	err := utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		// Lock the category row to serialize concurrent ledger writes per category.
		cat, err := lockCategory(ctx, tx, subject, req.CategoryID)
		if err != nil {
			return err
		}
		if cat.Currency != req.Currency {
			return ErrInvalidArgument
		}

		// Idempotency: replaying the same key returns the original result.
		if existing, ok, err := findTransactionByIdempotency(ctx, tx, subject, req.CategoryID, req.IdempotencyKey); err != nil {
			return err
		} else if ok {
			outTx = existing
			b, err := getBalanceTx(ctx, tx, subject, req.CategoryID)
			if err != nil {
				return err
			}
			outBal = b
			return nil
		}

		entry := Transaction{
			ID:             uuid.NewString(),
			Subject:        subject,
			CategoryID:     req.CategoryID,
			Type:           req.Type,
			AmountMinor:    signed,
			Currency:       req.Currency,
			Description:    req.Description,
			IdempotencyKey: req.IdempotencyKey,
			OccurredAt:     occurred,
			CreatedAt:      now,
		}
		if err := insertTransaction(ctx, tx, entry); err != nil {
			return err
		}

		b, err := applyBalanceDelta(ctx, tx, subject, req.CategoryID, req.Currency, signed, now)
		if err != nil {
			return err
		}

		outTx = entry
		outBal = b
		return nil
	})

	return outTx, outBal, err
}

func (s *Service) GetBalance(ctx context.Context, subject, categoryID string) (Balance, error) {
	if subject == "" || categoryID == "" {
		return Balance{}, ErrInvalidArgument
	}
	return getBalance(ctx, s.db, subject, categoryID)
}

// Summary aggregates one calendar month of the subject's ledger.
func (s *Service) Summary(ctx context.Context, subject string, year int, month time.Month) (MonthlySummary, error) {
	if subject == "" {
		return MonthlySummary{}, ErrInvalidArgument
	}
	if year < 2000 || month < time.January || month > time.December {
		return MonthlySummary{}, ErrInvalidArgument
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	totals, err := monthlyCategoryTotals(ctx, s.db, subject, from, to)
	if err != nil {
		return MonthlySummary{}, err
	}

	out := MonthlySummary{
		Subject:    subject,
		Month:      from.Format("2006-01"),
		ByCategory: totals,
	}
	for _, t := range totals {
		if t.NetMinor < 0 {
			out.TotalExpenseMinor += -t.NetMinor
		} else {
			out.TotalIncomeMinor += t.NetMinor
		}
	}
	return out, nil
}

func validateRecordReq(subject string, req RecordTransactionRequest) error {
	if subject == "" || req.CategoryID == "" {
		return ErrInvalidArgument
	}
	if req.Type != TransactionTypeExpense && req.Type != TransactionTypeIncome {
		return ErrInvalidArgument
	}
	if req.AmountMinor <= 0 {
		return ErrInvalidArgument
	}
	if req.Currency == "" {
		return ErrInvalidArgument
	}
	if req.IdempotencyKey == "" {
		return ErrInvalidArgument
	}
	return nil
}
