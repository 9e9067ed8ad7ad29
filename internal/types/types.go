package types

import "github.com/shopspring/decimal"

func init() {
	// Money goes out as JSON numbers; the web client does arithmetic on them.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type UserReq struct {
	TelegramID *int64 `json:"telegram_id"`
}

type SaveBudgetReq struct {
	TelegramID *int64           `json:"telegram_id"`
	Budget     *decimal.Decimal `json:"budget"`
	LastDay    string           `json:"last_day"`
}

type AddExpenseReq struct {
	TelegramID *int64           `json:"telegram_id"`
	Amount     *decimal.Decimal `json:"amount"`
	Date       string           `json:"date"`
	Time       string           `json:"time"`
}

type GetExpensesReq struct {
	TelegramID *int64 `json:"telegram_id"`
	Limit      int    `json:"limit,omitempty"`
}

// DeleteExpenseReq deletes by ID when it is set, otherwise by the
// date/time/amount triple the older web client sends.
type DeleteExpenseReq struct {
	TelegramID    *int64           `json:"telegram_id"`
	ID            string           `json:"id,omitempty"`
	ExpenseDate   string           `json:"expense_date,omitempty"`
	ExpenseTime   string           `json:"expense_time,omitempty"`
	ExpenseAmount *decimal.Decimal `json:"expense_amount,omitempty"`
}

type ExpenseItem struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Time   string          `json:"time"`
}

type AddExpenseResp struct {
	Response
	Expense ExpenseItem `json:"expense"`
}

type UserDataResp struct {
	Response
	HasBudget       bool             `json:"has_budget"`
	Budget          *decimal.Decimal `json:"budget,omitempty"`
	LastDay         string           `json:"last_day,omitempty"`
	TotalExpenses   *decimal.Decimal `json:"total_expenses,omitempty"`
	DailyAllowance  *decimal.Decimal `json:"daily_allowance,omitempty"`
	RemainingBudget *decimal.Decimal `json:"remaining_budget,omitempty"`
	AvailableToday  *decimal.Decimal `json:"available_today,omitempty"`
	TodaySpent      *decimal.Decimal `json:"today_spent,omitempty"`
	DaysRemaining   int              `json:"days_remaining,omitempty"`
	Expired         bool             `json:"expired"`
}

type ExpensesResp struct {
	Response
	Expenses []ExpenseItem `json:"expenses"`
}
