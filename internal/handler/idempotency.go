package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/qx/budget_robot/internal/types"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	idempotencyPrefix = "budget:idem:"
	pendingMarker     = "pending"
)

// Idempotency replays the first response of a request for every retry that
// carries the same key. Without Redis it passes requests through.
type Idempotency struct {
	rds *redis.Redis
	ttl int
}

func NewIdempotency(rds *redis.Redis, ttlSeconds int) *Idempotency {
	return &Idempotency{rds: rds, ttl: ttlSeconds}
}

type storedResponse struct {
	Code int             `json:"code"`
	Body json.RawMessage `json:"body"`
}

func (i *Idempotency) Handle(next http.HandlerFunc) http.HandlerFunc {
	if i.rds == nil {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(IdempotencyHeader)
		if key == "" {
			next(w, r)
			return
		}

		owner, ok := peekTelegramID(w, r)
		if !ok {
			next(w, r)
			return
		}

		ctx := r.Context()
		rkey := fmt.Sprintf("%s%s:%d:%s", idempotencyPrefix, r.URL.Path, owner, key)
		ok, err := i.rds.SetnxExCtx(ctx, rkey, pendingMarker, i.ttl)
		if err != nil {
			logx.WithContext(ctx).Errorf("idempotency: reserve %s: %v", rkey, err)
			next(w, r)
			return
		}
		if !ok {
			i.replay(w, r, rkey)
			return
		}

		rec := &responseRecorder{ResponseWriter: w, code: http.StatusOK}
		next(rec, r)

		// Failed attempts may be retried with the same key.
		if rec.code >= http.StatusInternalServerError {
			if _, err := i.rds.DelCtx(ctx, rkey); err != nil {
				logx.WithContext(ctx).Errorf("idempotency: release %s: %v", rkey, err)
			}
			return
		}

		val, err := json.Marshal(storedResponse{Code: rec.code, Body: rec.body.Bytes()})
		if err == nil {
			err = i.rds.SetexCtx(ctx, rkey, string(val), i.ttl)
		}
		if err != nil {
			logx.WithContext(ctx).Errorf("idempotency: store %s: %v", rkey, err)
		}
	}
}

// peekTelegramID reads the caller from the body and puts the body back for
// the wrapped handler. Requests without a usable id are not reserved.
func peekTelegramID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return 0, false
	}

	var req types.UserReq
	if json.Unmarshal(body, &req) != nil || req.TelegramID == nil {
		return 0, false
	}
	return *req.TelegramID, true
}

func (i *Idempotency) replay(w http.ResponseWriter, r *http.Request, rkey string) {
	ctx := r.Context()
	val, err := i.rds.GetCtx(ctx, rkey)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var stored storedResponse
	if val == "" || val == pendingMarker || json.Unmarshal([]byte(val), &stored) != nil {
		httpx.WriteJsonCtx(ctx, w, http.StatusConflict, types.Response{
			Status:  types.StatusError,
			Message: "a request with this idempotency key is still in progress",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(stored.Code)
	if _, err := w.Write(stored.Body); err != nil {
		logx.WithContext(ctx).Errorf("idempotency: replay %s: %v", rkey, err)
	}
}

type responseRecorder struct {
	http.ResponseWriter
	code int
	body bytes.Buffer
}

func (r *responseRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
