package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qx/budget_robot/internal/budget"
	"github.com/qx/budget_robot/internal/model"
)

// Memory keeps everything in process. It follows the same rules as Postgres
// and is meant for local runs and tests.
type Memory struct {
	mu       sync.RWMutex
	nextID   int64
	owners   map[int64]model.Owner // by telegram id
	expenses []model.ExpenseEntry
}

func NewMemory() *Memory {
	return &Memory{owners: make(map[int64]model.Owner)}
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) FindOwner(_ context.Context, telegramID int64) (model.Owner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.owners[telegramID]
	if !ok {
		return model.Owner{}, model.ErrOwnerNotFound
	}
	return o, nil
}

func (m *Memory) UpsertOwner(_ context.Context, telegramID int64, amount decimal.Decimal, lastDay time.Time) (model.Owner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.owners[telegramID]
	if !ok {
		m.nextID++
		o = model.Owner{ID: m.nextID, TelegramID: telegramID}
	}
	o.Budget, o.LastDay = &amount, &lastDay
	m.owners[telegramID] = o
	return o, nil
}

func (m *Memory) InsertExpense(_ context.Context, ownerID int64, amount decimal.Decimal, date, tod time.Time) (model.ExpenseEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.ownerExistsLocked(ownerID) {
		return model.ExpenseEntry{}, model.ErrOwnerNotFound
	}
	e := model.ExpenseEntry{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Amount:  amount,
		Date:    date,
		Time:    tod,
	}
	m.expenses = append(m.expenses, e)
	return e, nil
}

func (m *Memory) ListExpenses(_ context.Context, ownerID int64, limit int) ([]model.ExpenseEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.ExpenseEntry, 0, len(m.expenses))
	for _, e := range m.expenses {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Time.After(out[j].Time)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) SumExpenses(_ context.Context, ownerID int64, on *time.Time) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var owned []model.ExpenseEntry
	for _, e := range m.expenses {
		if e.OwnerID == ownerID {
			owned = append(owned, e)
		}
	}

	var day time.Time
	if on != nil {
		day = *on
	}
	total, onDay := budget.Totals(owned, day)
	if on != nil {
		return onDay, nil
	}
	return total, nil
}

func (m *Memory) DeleteExpense(_ context.Context, ownerID int64, id uuid.UUID) error {
	return m.deleteFirst(func(e model.ExpenseEntry) bool {
		return e.OwnerID == ownerID && e.ID == id
	})
}

func (m *Memory) DeleteExpenseExact(_ context.Context, ownerID int64, date, tod time.Time, amount decimal.Decimal) error {
	return m.deleteFirst(func(e model.ExpenseEntry) bool {
		return e.OwnerID == ownerID &&
			e.Date.Equal(date) &&
			e.Time.Equal(tod) &&
			e.Amount.Equal(amount)
	})
}

func (m *Memory) deleteFirst(match func(model.ExpenseEntry) bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.expenses {
		if match(e) {
			m.expenses = append(m.expenses[:i], m.expenses[i+1:]...)
			return nil
		}
	}
	return model.ErrExpenseNotFound
}

func (m *Memory) ownerExistsLocked(ownerID int64) bool {
	for _, o := range m.owners {
		if o.ID == ownerID {
			return true
		}
	}
	return false
}
