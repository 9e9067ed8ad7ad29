package logic

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/qx/budget_robot/internal/model"
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NUMERIC(14,2) holds at most 12 integer digits.
var maxMoney = decimal.New(1, 12)

func requireTelegramID(id *int64) (int64, error) {
	if id == nil {
		return 0, invalid("telegram_id", "is required")
	}
	if *id == 0 {
		return 0, invalid("telegram_id", "must not be zero")
	}
	return *id, nil
}

// requireMoney accepts positive values with at most two decimals, so storing
// them never rounds.
func requireMoney(field string, v *decimal.Decimal) (decimal.Decimal, error) {
	if v == nil {
		return decimal.Zero, invalid(field, "is required")
	}
	if !v.IsPositive() {
		return decimal.Zero, invalid(field, "must be greater than zero")
	}
	if !v.Equal(v.Round(2)) {
		return decimal.Zero, invalid(field, "must have at most two decimal places")
	}
	if v.GreaterThanOrEqual(maxMoney) {
		return decimal.Zero, invalid(field, "is too large")
	}
	return *v, nil
}

func requireDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, invalid(field, "is required")
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return time.Time{}, invalid(field, "must be a date in YYYY-MM-DD format")
	}
	return d, nil
}

func requireTimeOfDay(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, invalid(field, "is required")
	}
	tod, err := model.ParseTimeOfDay(s)
	if err != nil {
		return time.Time{}, invalid(field, "must be a time in HH:MM:SS format")
	}
	return tod, nil
}
