// Package store keeps owners and their expenses.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/qx/budget_robot/internal/model"
)

const pgForeignKeyViolation = "23503"

// Postgres is the PostgreSQL store. Every call borrows a pooled connection
// for a single auto-committed statement.
type Postgres struct{ pool *pgxpool.Pool }

func NewPostgres(p *pgxpool.Pool) *Postgres { return &Postgres{pool: p} }

// Connect opens a pool and checks that the database answers.
func Connect(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func (r *Postgres) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Postgres) FindOwner(ctx context.Context, telegramID int64) (model.Owner, error) {
	var (
		o       model.Owner
		budget  *string
		lastDay *string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, telegram_id, budget::text, to_char(last_day, 'YYYY-MM-DD')
		FROM users
		WHERE telegram_id=$1
	`, telegramID).Scan(&o.ID, &o.TelegramID, &budget, &lastDay)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Owner{}, model.ErrOwnerNotFound
	}
	if err != nil {
		return model.Owner{}, fmt.Errorf("find user %d: %w", telegramID, err)
	}

	if budget != nil && lastDay != nil {
		b, err := decimal.NewFromString(*budget)
		if err != nil {
			return model.Owner{}, fmt.Errorf("decode budget of user %d: %w", telegramID, err)
		}
		d, err := model.ParseDate(*lastDay)
		if err != nil {
			return model.Owner{}, fmt.Errorf("decode last_day of user %d: %w", telegramID, err)
		}
		o.Budget, o.LastDay = &b, &d
	}
	return o, nil
}

func (r *Postgres) UpsertOwner(ctx context.Context, telegramID int64, budget decimal.Decimal, lastDay time.Time) (model.Owner, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users(telegram_id, budget, last_day)
		VALUES($1, $2::numeric, $3::date)
		ON CONFLICT (telegram_id) DO UPDATE
		SET budget=EXCLUDED.budget,
			last_day=EXCLUDED.last_day
		RETURNING id
	`, telegramID, budget.String(), lastDay.Format(model.DateLayout)).Scan(&id)
	if err != nil {
		return model.Owner{}, fmt.Errorf("save budget of user %d: %w", telegramID, err)
	}
	return model.Owner{ID: id, TelegramID: telegramID, Budget: &budget, LastDay: &lastDay}, nil
}

func (r *Postgres) InsertExpense(ctx context.Context, ownerID int64, amount decimal.Decimal, date, tod time.Time) (model.ExpenseEntry, error) {
	e := model.ExpenseEntry{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Amount:  amount,
		Date:    date,
		Time:    tod,
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO expenses(id, user_id, amount, date, time)
		VALUES($1, $2, $3::numeric, $4::date, $5::time)
	`, e.ID, ownerID, amount.String(), date.Format(model.DateLayout), tod.Format(model.TimeLayout))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return model.ExpenseEntry{}, model.ErrOwnerNotFound
		}
		return model.ExpenseEntry{}, fmt.Errorf("insert expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns the newest entries first; limit <= 0 returns all of them.
func (r *Postgres) ListExpenses(ctx context.Context, ownerID int64, limit int) ([]model.ExpenseEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, amount::text, to_char(date, 'YYYY-MM-DD'), to_char(time, 'HH24:MI:SS')
		FROM expenses
		WHERE user_id=$1
		ORDER BY date DESC, time DESC
		LIMIT NULLIF($2::int, 0)
	`, ownerID, max(limit, 0))
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	out := make([]model.ExpenseEntry, 0, 16)
	for rows.Next() {
		var (
			e                 model.ExpenseEntry
			amount, date, tod string
		)
		if err := rows.Scan(&e.ID, &amount, &date, &tod); err != nil {
			return nil, err
		}
		e.OwnerID = ownerID
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("decode amount of expense %s: %w", e.ID, err)
		}
		if e.Date, err = model.ParseDate(date); err != nil {
			return nil, fmt.Errorf("decode date of expense %s: %w", e.ID, err)
		}
		if e.Time, err = model.ParseTimeOfDay(tod); err != nil {
			return nil, fmt.Errorf("decode time of expense %s: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SumExpenses totals the owner's expenses, restricted to one date when on is set.
func (r *Postgres) SumExpenses(ctx context.Context, ownerID int64, on *time.Time) (decimal.Decimal, error) {
	var day *string
	if on != nil {
		s := on.Format(model.DateLayout)
		day = &s
	}

	var total string
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)::text
		FROM expenses
		WHERE user_id=$1
		  AND ($2::date IS NULL OR date=$2::date)
	`, ownerID, day).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum expenses: %w", err)
	}
	return decimal.NewFromString(total)
}

func (r *Postgres) DeleteExpense(ctx context.Context, ownerID int64, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id=$1 AND user_id=$2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrExpenseNotFound
	}
	return nil
}

// DeleteExpenseExact removes one entry matching date, time and amount. When
// several entries match, which one goes is unspecified.
func (r *Postgres) DeleteExpenseExact(ctx context.Context, ownerID int64, date, tod time.Time, amount decimal.Decimal) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM expenses
		WHERE id = (
			SELECT id FROM expenses
			WHERE user_id=$1 AND date=$2::date AND time=$3::time AND amount=$4::numeric
			LIMIT 1
		)
	`, ownerID, date.Format(model.DateLayout), tod.Format(model.TimeLayout), amount.String())
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrExpenseNotFound
	}
	return nil
}
