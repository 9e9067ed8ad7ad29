package logic

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/qx/budget_robot/internal/model"
	"github.com/qx/budget_robot/internal/store"
	"github.com/qx/budget_robot/internal/svc"
	"github.com/qx/budget_robot/internal/types"
)

var fixedNow = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

func newTestContext(t *testing.T) *svc.ServiceContext {
	t.Helper()
	return &svc.ServiceContext{
		Store: store.NewMemory(),
		Now:   func() time.Time { return fixedNow },
	}
}

func ptr[T any](v T) *T { return &v }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func saveBudget(t *testing.T, l *BudgetLogic, telegramID int64, amount, lastDay string) {
	t.Helper()
	err := l.SaveBudget(&types.SaveBudgetReq{TelegramID: ptr(telegramID), Budget: dec(amount), LastDay: lastDay})
	if err != nil {
		t.Fatalf("save budget: %v", err)
	}
}

func addExpense(t *testing.T, l *BudgetLogic, telegramID int64, amount, date, tod string) model.ExpenseEntry {
	t.Helper()
	e, err := l.AddExpense(&types.AddExpenseReq{TelegramID: ptr(telegramID), Amount: dec(amount), Date: date, Time: tod})
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}
	return e
}

func TestUserDataScenario(t *testing.T) {
	l := NewBudgetLogic(context.Background(), newTestContext(t))
	saveBudget(t, l, 42, "300", "2026-03-12")

	resp, err := l.UserData(&types.UserReq{TelegramID: ptr(int64(42))})
	if err != nil {
		t.Fatalf("user data: %v", err)
	}
	if !resp.HasBudget || resp.DaysRemaining != 3 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.DailyAllowance.Equal(decimal.NewFromInt(100)) || !resp.AvailableToday.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("allowance=%s available=%s, want 100/100", resp.DailyAllowance, resp.AvailableToday)
	}

	addExpense(t, l, 42, "40", "2026-03-10", "09:15:00")

	resp, err = l.UserData(&types.UserReq{TelegramID: ptr(int64(42))})
	if err != nil {
		t.Fatalf("user data: %v", err)
	}
	checks := map[string]struct {
		got  *decimal.Decimal
		want int64
	}{
		"total_expenses":   {resp.TotalExpenses, 40},
		"remaining_budget": {resp.RemainingBudget, 260},
		"today_spent":      {resp.TodaySpent, 40},
		"available_today":  {resp.AvailableToday, 60},
		"daily_allowance":  {resp.DailyAllowance, 100},
	}
	for name, c := range checks {
		if !c.got.Equal(decimal.NewFromInt(c.want)) {
			t.Errorf("%s = %s, want %d", name, c.got, c.want)
		}
	}
	if resp.LastDay != "2026-03-12" || resp.Expired {
		t.Fatalf("last_day=%q expired=%v", resp.LastDay, resp.Expired)
	}
}

func TestUserDataUnknownOwner(t *testing.T) {
	l := NewBudgetLogic(context.Background(), newTestContext(t))
	resp, err := l.UserData(&types.UserReq{TelegramID: ptr(int64(7))})
	if err != nil {
		t.Fatalf("user data: %v", err)
	}
	if resp.Status != types.StatusSuccess || resp.HasBudget {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestUserDataExpiredKeepsComputing(t *testing.T) {
	l := NewBudgetLogic(context.Background(), newTestContext(t))
	saveBudget(t, l, 42, "120", "2026-03-05")

	resp, err := l.UserData(&types.UserReq{TelegramID: ptr(int64(42))})
	if err != nil {
		t.Fatalf("user data: %v", err)
	}
	if !resp.Expired || resp.DaysRemaining != 1 {
		t.Fatalf("expired=%v days=%d, want true/1", resp.Expired, resp.DaysRemaining)
	}
	if !resp.DailyAllowance.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("allowance = %s, want 120", resp.DailyAllowance)
	}
}

func TestSaveBudgetValidation(t *testing.T) {
	l := NewBudgetLogic(context.Background(), newTestContext(t))
	tests := []struct {
		name  string
		req   types.SaveBudgetReq
		field string
	}{
		{"missing id", types.SaveBudgetReq{Budget: dec("1"), LastDay: "2026-03-12"}, "telegram_id"},
		{"missing budget", types.SaveBudgetReq{TelegramID: ptr(int64(1)), LastDay: "2026-03-12"}, "budget"},
		{"negative budget", types.SaveBudgetReq{TelegramID: ptr(int64(1)), Budget: dec("-5"), LastDay: "2026-03-12"}, "budget"},
		{"fractional cents", types.SaveBudgetReq{TelegramID: ptr(int64(1)), Budget: dec("1.005"), LastDay: "2026-03-12"}, "budget"},
		{"bad date", types.SaveBudgetReq{TelegramID: ptr(int64(1)), Budget: dec("1"), LastDay: "12.03.2026"}, "last_day"},
	}
	for _, tt := range tests {
		err := l.SaveBudget(&tt.req)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: err = %v, want ValidationError", tt.name, err)
			continue
		}
		if verr.Field != tt.field {
			t.Errorf("%s: field = %q, want %q", tt.name, verr.Field, tt.field)
		}
	}
}

func TestAddExpenseRequiresOwner(t *testing.T) {
	l := NewBudgetLogic(context.Background(), newTestContext(t))
	_, err := l.AddExpense(&types.AddExpenseReq{TelegramID: ptr(int64(9)), Amount: dec("1"), Date: "2026-03-10", Time: "10:00:00"})
	if !errors.Is(err, model.ErrOwnerNotFound) {
		t.Fatalf("err = %v, want ErrOwnerNotFound", err)
	}

	_, err = l.AddExpense(&types.AddExpenseReq{TelegramID: ptr(int64(9)), Amount: dec("0"), Date: "2026-03-10", Time: "10:00:00"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "amount" {
		t.Fatalf("zero amount err = %v, want amount validation error", err)
	}
}

func TestAddExpenseRoundTrip(t *testing.T) {
	l := NewBudgetLogic(context.Background(), newTestContext(t))
	saveBudget(t, l, 42, "300", "2026-03-12")
	addExpense(t, l, 42, "12.34", "2026-03-09", "23:59:58")

	resp, err := l.ListExpenses(&types.GetExpensesReq{TelegramID: ptr(int64(42))})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Expenses) != 1 {
		t.Fatalf("expenses = %d, want 1", len(resp.Expenses))
	}
	got := resp.Expenses[0]
	if got.Amount.String() != "12.34" || got.Date != "2026-03-09" || got.Time != "23:59:58" {
		t.Fatalf("round trip changed the expense: %+v", got)
	}
}

func TestListExpensesUnknownOwnerIsEmpty(t *testing.T) {
	l := NewBudgetLogic(context.Background(), newTestContext(t))
	resp, err := l.ListExpenses(&types.GetExpensesReq{TelegramID: ptr(int64(5))})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Expenses == nil || len(resp.Expenses) != 0 {
		t.Fatalf("expenses = %v, want empty list", resp.Expenses)
	}
}

func TestDeleteExpense(t *testing.T) {
	svcCtx := newTestContext(t)
	l := NewBudgetLogic(context.Background(), svcCtx)
	saveBudget(t, l, 42, "300", "2026-03-12")
	e := addExpense(t, l, 42, "5", "2026-03-10", "10:00:00")
	addExpense(t, l, 42, "7.5", "2026-03-10", "11:00:00")

	err := l.DeleteExpense(&types.DeleteExpenseReq{TelegramID: ptr(int64(42)), ExpenseDate: "2026-03-10", ExpenseTime: "11:00:00", ExpenseAmount: dec("8")})
	if !errors.Is(err, model.ErrExpenseNotFound) {
		t.Fatalf("delete non-matching err = %v, want ErrExpenseNotFound", err)
	}
	if list, _ := l.Expenses(42, 0); len(list) != 2 {
		t.Fatalf("expenses = %d after failed delete, want 2", len(list))
	}

	if err := l.DeleteExpense(&types.DeleteExpenseReq{TelegramID: ptr(int64(42)), ID: e.ID.String()}); err != nil {
		t.Fatalf("delete by id: %v", err)
	}
	if err := l.DeleteExpense(&types.DeleteExpenseReq{TelegramID: ptr(int64(42)), ExpenseDate: "2026-03-10", ExpenseTime: "11:00:00", ExpenseAmount: dec("7.50")}); err != nil {
		t.Fatalf("delete by triple: %v", err)
	}
	if list, _ := l.Expenses(42, 0); len(list) != 0 {
		t.Fatalf("expenses = %d, want 0", len(list))
	}

	err = l.DeleteExpense(&types.DeleteExpenseReq{TelegramID: ptr(int64(42)), ID: "not-a-uuid"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("bad id err = %v, want ValidationError", err)
	}
}

func TestChatTexts(t *testing.T) {
	svcCtx := newTestContext(t)
	ctx := context.Background()
	chat := NewChatLogic(ctx, svcCtx)
	l := NewBudgetLogic(ctx, svcCtx)

	text, err := chat.DailyText(42)
	if err != nil || text != noBudgetText {
		t.Fatalf("daily without budget = %q, %v", text, err)
	}

	saveBudget(t, l, 42, "300", "2026-03-12")
	addExpense(t, l, 42, "40", "2026-03-10", "09:15:00")
	addExpense(t, l, 42, "2.5", "2026-03-09", "18:00:00")

	text, err = chat.BalanceText(42)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	for _, want := range []string{"Current balance: 257.50", "Total budget: 300.00", "Spent: 42.50", "12.03.2026"} {
		if !strings.Contains(text, want) {
			t.Errorf("balance text missing %q:\n%s", want, text)
		}
	}

	text, err = chat.DailyText(42)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	for _, want := range []string{"Daily allowance: 100.00", "Available today: 60.00", "Days left: 3"} {
		if !strings.Contains(text, want) {
			t.Errorf("daily text missing %q:\n%s", want, text)
		}
	}

	text, err = chat.ExpensesText(42)
	if err != nil {
		t.Fatalf("expenses: %v", err)
	}
	lines := strings.Split(text, "\n")
	if len(lines) != 3 || lines[1] != "10.03.2026 09:15: 40.00" || lines[2] != "09.03.2026 18:00: 2.50" {
		t.Fatalf("unexpected expenses text:\n%s", text)
	}
}

func TestChatDailyExpired(t *testing.T) {
	svcCtx := newTestContext(t)
	ctx := context.Background()
	saveBudget(t, NewBudgetLogic(ctx, svcCtx), 42, "300", "2026-03-01")

	text, err := NewChatLogic(ctx, svcCtx).DailyText(42)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if !strings.Contains(text, "ended on 01.03.2026") {
		t.Fatalf("expected expiry message, got %q", text)
	}
}

func TestChatExpensesLimit(t *testing.T) {
	svcCtx := newTestContext(t)
	ctx := context.Background()
	l := NewBudgetLogic(ctx, svcCtx)
	saveBudget(t, l, 42, "1000", "2026-03-31")
	for i := 0; i < RecentExpensesLimit+3; i++ {
		addExpense(t, l, 42, "1", "2026-03-10", time.Date(0, 1, 1, 8, i, 0, 0, time.UTC).Format(model.TimeLayout))
	}

	text, err := NewChatLogic(ctx, svcCtx).ExpensesText(42)
	if err != nil {
		t.Fatalf("expenses: %v", err)
	}
	if n := strings.Count(text, "\n"); n != RecentExpensesLimit {
		t.Fatalf("listed %d entries, want %d", n, RecentExpensesLimit)
	}
	if !strings.Contains(text, "08:12: 1.00") || strings.Contains(text, "08:02: 1.00") {
		t.Fatalf("expected the newest entries:\n%s", text)
	}
}
