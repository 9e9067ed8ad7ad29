package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"github.com/qx/budget_robot/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	idem := NewIdempotency(serverCtx.Redis, serverCtx.Config.Idempotency.TTL)

	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    "/save_budget",
				Handler: SaveBudgetHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/add_expense",
				Handler: idem.Handle(AddExpenseHandler(serverCtx)),
			},
			{
				Method:  http.MethodPost,
				Path:    "/get_user_data",
				Handler: GetUserDataHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/get_expenses",
				Handler: GetExpensesHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/delete_expense",
				Handler: DeleteExpenseHandler(serverCtx),
			},
		},
		rest.WithPrefix("/api"),
	)

	server.AddRoute(rest.Route{
		Method:  http.MethodGet,
		Path:    "/healthz",
		Handler: HealthHandler(serverCtx),
	})
}
