package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/qx/budget_robot/internal/logic"
	"github.com/qx/budget_robot/internal/svc"
	"github.com/qx/budget_robot/internal/types"
)

func SaveBudgetHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SaveBudgetReq
		if err := parseBody(w, r, &req); err != nil {
			writeError(r.Context(), w, err)
			return
		}

		l := logic.NewBudgetLogic(r.Context(), svcCtx)
		if err := l.SaveBudget(&req); err != nil {
			writeError(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, types.Response{Status: types.StatusSuccess})
	}
}

func AddExpenseHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AddExpenseReq
		if err := parseBody(w, r, &req); err != nil {
			writeError(r.Context(), w, err)
			return
		}

		l := logic.NewBudgetLogic(r.Context(), svcCtx)
		e, err := l.AddExpense(&req)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, types.AddExpenseResp{
			Response: types.Response{Status: types.StatusSuccess},
			Expense:  logic.ExpenseItem(e),
		})
	}
}

func GetUserDataHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.UserReq
		if err := parseBody(w, r, &req); err != nil {
			writeError(r.Context(), w, err)
			return
		}

		l := logic.NewBudgetLogic(r.Context(), svcCtx)
		resp, err := l.UserData(&req)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}

func GetExpensesHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.GetExpensesReq
		if err := parseBody(w, r, &req); err != nil {
			writeError(r.Context(), w, err)
			return
		}

		l := logic.NewBudgetLogic(r.Context(), svcCtx)
		resp, err := l.ListExpenses(&req)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}

func DeleteExpenseHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.DeleteExpenseReq
		if err := parseBody(w, r, &req); err != nil {
			writeError(r.Context(), w, err)
			return
		}

		l := logic.NewBudgetLogic(r.Context(), svcCtx)
		if err := l.DeleteExpense(&req); err != nil {
			writeError(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, types.Response{Status: types.StatusSuccess})
	}
}

func HealthHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svcCtx.Store.Ping(r.Context()); err != nil {
			writeError(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, types.Response{Status: types.StatusSuccess})
	}
}
