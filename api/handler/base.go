package handler

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/neighborly/api/transport"
	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/pkg/httpcontext"
	appLogger "github.com/fastygo/neighborly/pkg/logger"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	transport.WriteJSON(ctx, status, payload)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, reqCtx context.Context, err error) {
	status, code := mapError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		appLogger.WithRequestID(reqCtx, h.logger).Error("request failed",
			zap.String("path", string(ctx.Path())),
			zap.String("caller_id", httpcontext.CallerFrom(reqCtx)),
			zap.Error(err))
		message = "internal error"
	}
	h.respondJSON(ctx, status, transport.NewError(code, message, nil))
}

// decode parses and validates the request body, answering 400 on failure.
func (h baseHandler) decode(ctx *fasthttp.RequestCtx, dst interface{}) bool {
	if err := transport.Decode(ctx.PostBody(), dst); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), err.Error(), nil))
		return false
	}
	return true
}

// caller returns the verified caller id, or "" for anonymous requests.
func (h baseHandler) caller(ctx *fasthttp.RequestCtx) string {
	return httpcontext.Caller(ctx)
}

func pathParam(ctx *fasthttp.RequestCtx, name string) string {
	value, _ := ctx.UserValue(name).(string)
	return value
}

// queryFloat reads a finite float query argument. A missing value yields
// fallback unless required; missing required, malformed and non-finite
// values report ok=false.
func queryFloat(ctx *fasthttp.RequestCtx, name string, fallback float64, required bool) (float64, bool) {
	raw := string(ctx.QueryArgs().Peek(name))
	if raw == "" {
		return fallback, !required
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

const errNearbyArgs = "lat and lng are required finite numbers; radius_km must be a finite number"

// nearbyArgs reads the lat, lng and optional radius_km of a proximity search.
func nearbyArgs(ctx *fasthttp.RequestCtx) (lat, lng, radius float64, ok bool) {
	lat, okLat := queryFloat(ctx, "lat", 0, true)
	lng, okLng := queryFloat(ctx, "lng", 0, true)
	radius, okRadius := queryFloat(ctx, "radius_km", 0, false)
	return lat, lng, radius, okLat && okLng && okRadius
}

func mapError(err error) (int, string) {
	codes := []struct {
		code   domain.ErrorCode
		status int
	}{
		{domain.ErrCodeUnauthenticated, http.StatusUnauthorized},
		{domain.ErrCodeForbidden, http.StatusForbidden},
		{domain.ErrCodeNotFound, http.StatusNotFound},
		{domain.ErrCodeInvalid, http.StatusBadRequest},
		{domain.ErrCodeInvalidRating, http.StatusBadRequest},
		{domain.ErrCodeSelfApplication, http.StatusBadRequest},
		{domain.ErrCodeNotAnApplicant, http.StatusBadRequest},
		{domain.ErrCodeInvalidState, http.StatusConflict},
		{domain.ErrCodeDuplicateApplication, http.StatusConflict},
		{domain.ErrCodeAlreadyReviewed, http.StatusConflict},
		{domain.ErrCodeNoRecipient, http.StatusConflict},
		{domain.ErrCodeConflict, http.StatusConflict},
	}
	for _, c := range codes {
		if domain.IsDomainError(err, c.code) {
			return c.status, string(c.code)
		}
	}
	return http.StatusInternalServerError, string(domain.ErrCodeInternal)
}
