package logic

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qx/budget_robot/internal/budget"
	"github.com/qx/budget_robot/internal/model"
	"github.com/qx/budget_robot/internal/svc"
	"github.com/qx/budget_robot/internal/types"
)

// RecentExpensesLimit is how many entries the chat surface lists.
const RecentExpensesLimit = 10

type BudgetLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewBudgetLogic(ctx context.Context, svcCtx *svc.ServiceContext) *BudgetLogic {
	return &BudgetLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Overview is an owner together with the figures derived from their budget.
type Overview struct {
	Owner     model.Owner
	HasBudget bool
	Summary   budget.Summary
}

// SaveBudget creates the owner on first use and overwrites budget and period
// end on every later call.
func (l *BudgetLogic) SaveBudget(req *types.SaveBudgetReq) error {
	telegramID, err := requireTelegramID(req.TelegramID)
	if err != nil {
		return err
	}
	amount, err := requireMoney("budget", req.Budget)
	if err != nil {
		return err
	}
	lastDay, err := requireDate("last_day", req.LastDay)
	if err != nil {
		return err
	}

	_, err = l.svcCtx.Store.UpsertOwner(l.ctx, telegramID, amount, lastDay)
	return err
}

// AddExpense records an expense for an existing owner.
func (l *BudgetLogic) AddExpense(req *types.AddExpenseReq) (model.ExpenseEntry, error) {
	telegramID, err := requireTelegramID(req.TelegramID)
	if err != nil {
		return model.ExpenseEntry{}, err
	}
	amount, err := requireMoney("amount", req.Amount)
	if err != nil {
		return model.ExpenseEntry{}, err
	}
	date, err := requireDate("date", req.Date)
	if err != nil {
		return model.ExpenseEntry{}, err
	}
	tod, err := requireTimeOfDay("time", req.Time)
	if err != nil {
		return model.ExpenseEntry{}, err
	}

	owner, err := l.svcCtx.Store.FindOwner(l.ctx, telegramID)
	if err != nil {
		return model.ExpenseEntry{}, err
	}
	return l.svcCtx.Store.InsertExpense(l.ctx, owner.ID, amount, date, tod)
}

// Overview loads the owner and computes the summary. An unknown owner is not
// an error: the result simply has no budget.
func (l *BudgetLogic) Overview(telegramID int64) (Overview, error) {
	owner, err := l.svcCtx.Store.FindOwner(l.ctx, telegramID)
	if errors.Is(err, model.ErrOwnerNotFound) {
		return Overview{}, nil
	}
	if err != nil {
		return Overview{}, err
	}
	if !owner.HasBudget() {
		return Overview{Owner: owner}, nil
	}

	today := budget.Today(l.svcCtx.Now())
	total, err := l.svcCtx.Store.SumExpenses(l.ctx, owner.ID, nil)
	if err != nil {
		return Overview{}, err
	}
	onDay, err := l.svcCtx.Store.SumExpenses(l.ctx, owner.ID, &today)
	if err != nil {
		return Overview{}, err
	}

	return Overview{
		Owner:     owner,
		HasBudget: true,
		Summary: budget.Calculate(budget.Input{
			Budget:     *owner.Budget,
			LastDay:    *owner.LastDay,
			TotalSpent: total,
			TodaySpent: onDay,
			Today:      today,
		}),
	}, nil
}

func (l *BudgetLogic) UserData(req *types.UserReq) (*types.UserDataResp, error) {
	telegramID, err := requireTelegramID(req.TelegramID)
	if err != nil {
		return nil, err
	}
	ov, err := l.Overview(telegramID)
	if err != nil {
		return nil, err
	}

	resp := &types.UserDataResp{Response: types.Response{Status: types.StatusSuccess}}
	if !ov.HasBudget {
		return resp, nil
	}

	s := ov.Summary
	resp.HasBudget = true
	resp.Budget = money(s.Budget)
	resp.LastDay = s.LastDay.Format(model.DateLayout)
	resp.TotalExpenses = money(s.TotalSpent)
	resp.DailyAllowance = money(s.DailyAllowance)
	resp.RemainingBudget = money(s.RemainingBudget)
	resp.AvailableToday = money(s.AvailableToday)
	resp.TodaySpent = money(s.TodaySpent)
	resp.DaysRemaining = s.DaysRemaining
	resp.Expired = s.Expired
	return resp, nil
}

// Expenses lists the newest entries of an owner; limit <= 0 lists all.
func (l *BudgetLogic) Expenses(telegramID int64, limit int) ([]model.ExpenseEntry, error) {
	owner, err := l.svcCtx.Store.FindOwner(l.ctx, telegramID)
	if err != nil {
		return nil, err
	}
	return l.svcCtx.Store.ListExpenses(l.ctx, owner.ID, limit)
}

func (l *BudgetLogic) ListExpenses(req *types.GetExpensesReq) (*types.ExpensesResp, error) {
	telegramID, err := requireTelegramID(req.TelegramID)
	if err != nil {
		return nil, err
	}
	if req.Limit < 0 {
		return nil, invalid("limit", "must not be negative")
	}

	resp := &types.ExpensesResp{
		Response: types.Response{Status: types.StatusSuccess},
		Expenses: []types.ExpenseItem{},
	}
	entries, err := l.Expenses(telegramID, req.Limit)
	if errors.Is(err, model.ErrOwnerNotFound) {
		return resp, nil
	}
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		resp.Expenses = append(resp.Expenses, ExpenseItem(e))
	}
	return resp, nil
}

// DeleteExpense removes an entry by ID, or one entry matching date, time and
// amount when no ID is given.
func (l *BudgetLogic) DeleteExpense(req *types.DeleteExpenseReq) error {
	telegramID, err := requireTelegramID(req.TelegramID)
	if err != nil {
		return err
	}

	if req.ID != "" {
		id, err := uuid.Parse(req.ID)
		if err != nil {
			return invalid("id", "must be a UUID")
		}
		owner, err := l.svcCtx.Store.FindOwner(l.ctx, telegramID)
		if err != nil {
			return err
		}
		return l.svcCtx.Store.DeleteExpense(l.ctx, owner.ID, id)
	}

	date, err := requireDate("expense_date", req.ExpenseDate)
	if err != nil {
		return err
	}
	tod, err := requireTimeOfDay("expense_time", req.ExpenseTime)
	if err != nil {
		return err
	}
	amount, err := requireMoney("expense_amount", req.ExpenseAmount)
	if err != nil {
		return err
	}

	owner, err := l.svcCtx.Store.FindOwner(l.ctx, telegramID)
	if err != nil {
		return err
	}
	if err := l.svcCtx.Store.DeleteExpenseExact(l.ctx, owner.ID, date, tod, amount); err != nil {
		return fmt.Errorf("delete %s %s %s: %w", req.ExpenseDate, req.ExpenseTime, amount, err)
	}
	return nil
}

// ExpenseItem converts an entry to its wire form.
func ExpenseItem(e model.ExpenseEntry) types.ExpenseItem {
	return types.ExpenseItem{
		ID:     e.ID.String(),
		Amount: e.Amount,
		Date:   e.Date.Format(model.DateLayout),
		Time:   e.Time.Format(model.TimeLayout),
	}
}

// money rounds a figure to cents the same way the chat surface prints it.
func money(d decimal.Decimal) *decimal.Decimal {
	r := d.Round(2)
	return &r
}
