package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qx/budget_robot/internal/model"
)

// Store is what the logic layer needs from persistence. Postgres and Memory
// both implement it.
type Store interface {
	Ping(ctx context.Context) error
	FindOwner(ctx context.Context, telegramID int64) (model.Owner, error)
	UpsertOwner(ctx context.Context, telegramID int64, budget decimal.Decimal, lastDay time.Time) (model.Owner, error)
	InsertExpense(ctx context.Context, ownerID int64, amount decimal.Decimal, date, tod time.Time) (model.ExpenseEntry, error)
	ListExpenses(ctx context.Context, ownerID int64, limit int) ([]model.ExpenseEntry, error)
	SumExpenses(ctx context.Context, ownerID int64, on *time.Time) (decimal.Decimal, error)
	DeleteExpense(ctx context.Context, ownerID int64, id uuid.UUID) error
	DeleteExpenseExact(ctx context.Context, ownerID int64, date, tod time.Time, amount decimal.Decimal) error
}

var (
	_ Store = (*Postgres)(nil)
	_ Store = (*Memory)(nil)
)
