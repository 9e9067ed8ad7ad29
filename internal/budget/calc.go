// Package budget derives the daily figures of a budget period from stored state.
// Everything here is pure: callers pass the current date in.
package budget

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/qx/budget_robot/internal/model"
)

// Input is the stored state a summary is derived from.
type Input struct {
	Budget     decimal.Decimal
	LastDay    time.Time
	TotalSpent decimal.Decimal
	TodaySpent decimal.Decimal
	Today      time.Time
}

// Summary holds the derived figures shared by the API and the chat bot.
type Summary struct {
	Budget          decimal.Decimal
	LastDay         time.Time
	DaysRemaining   int
	DailyAllowance  decimal.Decimal
	TotalSpent      decimal.Decimal
	RemainingBudget decimal.Decimal
	TodaySpent      decimal.Decimal
	AvailableToday  decimal.Decimal
	Expired         bool
}

// Today returns the civil date of now in its own location, as midnight UTC.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// DaysRemaining counts the days left in the period including today.
// It never drops below 1, also once the period is over.
func DaysRemaining(lastDay, today time.Time) int {
	// Unix seconds, not Duration, so far-off dates do not saturate.
	days := int((Today(lastDay).Unix()-Today(today).Unix())/secondsPerDay) + 1
	if days < 1 {
		return 1
	}
	return days
}

// Calculate derives the summary. The allowance divides the whole budget, so
// spending lowers RemainingBudget and AvailableToday but never the allowance.
func Calculate(in Input) Summary {
	days := DaysRemaining(in.LastDay, in.Today)
	allowance := in.Budget.Div(decimal.NewFromInt(int64(days)))

	available := allowance.Sub(in.TodaySpent)
	if available.IsNegative() {
		available = decimal.Zero
	}

	return Summary{
		Budget:          in.Budget,
		LastDay:         in.LastDay,
		DaysRemaining:   days,
		DailyAllowance:  allowance,
		TotalSpent:      in.TotalSpent,
		RemainingBudget: in.Budget.Sub(in.TotalSpent),
		TodaySpent:      in.TodaySpent,
		AvailableToday:  available,
		Expired:         Today(in.LastDay).Before(Today(in.Today)),
	}
}

// Totals sums all entries and the entries dated today.
func Totals(entries []model.ExpenseEntry, today time.Time) (total, onDay decimal.Decimal) {
	day := Today(today)
	for _, e := range entries {
		total = total.Add(e.Amount)
		if Today(e.Date).Equal(day) {
			onDay = onDay.Add(e.Amount)
		}
	}
	return total, onDay
}
