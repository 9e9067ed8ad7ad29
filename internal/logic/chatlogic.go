package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/qx/budget_robot/internal/model"
	"github.com/qx/budget_robot/internal/svc"
)

const (
	chatDateLayout = "02.01.2006"
	chatTimeLayout = "15:04"

	noBudgetText = "No budget is set yet. Please set one in the web app."
)

// HelpText lists the bot commands.
const HelpText = "Commands:\n" +
	"/balance - current balance\n" +
	"/expenses - latest expenses\n" +
	"/daily - daily allowance\n" +
	"/help - this message"

// ChatLogic renders budget figures as chat replies. Lookups go through
// BudgetLogic so both surfaces report the same numbers.
type ChatLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	budget *BudgetLogic
}

func NewChatLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ChatLogic {
	return &ChatLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		budget: NewBudgetLogic(ctx, svcCtx),
	}
}

func (l *ChatLogic) StartText() string {
	return "Welcome! Open the web app with the button below to set your budget and record expenses.\n\n" + HelpText
}

func (l *ChatLogic) BalanceText(telegramID int64) (string, error) {
	ov, err := l.budget.Overview(telegramID)
	if err != nil {
		return "", err
	}
	if !ov.HasBudget {
		return noBudgetText, nil
	}

	s := ov.Summary
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Current balance: %s\n", s.RemainingBudget.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Total budget: %s\n", s.Budget.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Spent: %s\n", s.TotalSpent.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Budget ends on: %s", s.LastDay.Format(chatDateLayout)))
	return b.String(), nil
}

func (l *ChatLogic) ExpensesText(telegramID int64) (string, error) {
	entries, err := l.budget.Expenses(telegramID, RecentExpensesLimit)
	if errors.Is(err, model.ErrOwnerNotFound) {
		return "User not found. Please set a budget in the web app.", nil
	}
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "You have no expenses yet.", nil
	}

	var b strings.Builder
	b.WriteString("Your latest expenses:\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%s %s: %s\n",
			e.Date.Format(chatDateLayout),
			e.Time.Format(chatTimeLayout),
			e.Amount.StringFixed(2),
		))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (l *ChatLogic) DailyText(telegramID int64) (string, error) {
	ov, err := l.budget.Overview(telegramID)
	if err != nil {
		return "", err
	}
	if !ov.HasBudget {
		return noBudgetText, nil
	}

	s := ov.Summary
	if s.Expired {
		return fmt.Sprintf("Your budget period ended on %s. Please set a new budget in the web app.",
			s.LastDay.Format(chatDateLayout)), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Daily allowance: %s\n", s.DailyAllowance.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Available today: %s\n", s.AvailableToday.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Days left: %d", s.DaysRemaining))
	return b.String(), nil
}
