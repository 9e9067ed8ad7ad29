package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DateLayout = "2006-01-02" // calendar date on the wire and in storage
	TimeLayout = "15:04:05"   // time of day on the wire and in storage
)

var (
	ErrOwnerNotFound   = errors.New("user not found")
	ErrExpenseNotFound = errors.New("expense not found")
)

// Owner holds one budget per Telegram identity.
type Owner struct {
	ID         int64            `json:"id"`          // surrogate key
	TelegramID int64            `json:"telegram_id"` // external identity, unique
	Budget     *decimal.Decimal `json:"budget"`      // nil until the first save
	LastDay    *time.Time       `json:"last_day"`    // period end, set together with Budget
}

// HasBudget reports whether both budget and period end have been saved.
func (o Owner) HasBudget() bool {
	return o.Budget != nil && o.LastDay != nil
}

// ExpenseEntry is a single spending event of an owner.
type ExpenseEntry struct {
	ID      uuid.UUID       `json:"id"`
	OwnerID int64           `json:"owner_id"`
	Amount  decimal.Decimal `json:"amount"`
	Date    time.Time       `json:"date"` // midnight UTC of the owner's local date
	Time    time.Time       `json:"time"` // time of day on 0000-01-01 UTC
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ParseTimeOfDay parses an HH:MM:SS time of day.
func ParseTimeOfDay(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}
