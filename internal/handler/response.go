package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/qx/budget_robot/internal/logic"
	"github.com/qx/budget_robot/internal/model"
	"github.com/qx/budget_robot/internal/types"
)

const maxBodyBytes = 1 << 20

var errBadBody = errors.New("request body must be a JSON object")

// parseBody decodes the JSON body. Money fields are decimals, which the
// go-zero form mapper cannot fill, so this goes through encoding/json.
func parseBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return &logic.ValidationError{Field: "body", Reason: errBadBody.Error()}
	}
	return nil
}

// writeError maps an error onto the envelope and a status code.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var verr *logic.ValidationError
	code, msg := http.StatusInternalServerError, "internal error"

	switch {
	case errors.As(err, &verr):
		code, msg = http.StatusBadRequest, verr.Error()
	case errors.Is(err, model.ErrOwnerNotFound):
		code, msg = http.StatusNotFound, model.ErrOwnerNotFound.Error()
	case errors.Is(err, model.ErrExpenseNotFound):
		code, msg = http.StatusNotFound, model.ErrExpenseNotFound.Error()
	default:
		logx.WithContext(ctx).Errorf("request failed: %v", err)
	}

	httpx.WriteJsonCtx(ctx, w, code, types.Response{Status: types.StatusError, Message: msg})
}
