package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/neighborly/api/transport"
	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/pkg/httpcontext"
	reputationUC "github.com/fastygo/neighborly/usecase/reputation"
)

type ReviewHandler struct {
	baseHandler
	uc *reputationUC.UseCase
}

func NewReviewHandler(uc *reputationUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Review the other participant of a completed task
// @Tags reviews
// @Router /api/v1/reviews [post]
func (h *ReviewHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.CreateReviewRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	err := h.uc.CreateReview(stdCtx, h.caller(ctx), reputationUC.ReviewInput{
		TaskID:     req.TaskID,
		RevieweeID: req.RevieweeID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		Type:       domain.ReviewType(req.ReviewType),
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, done)
}

// @Summary Latest reviews received by a user
// @Tags reviews
// @Router /api/v1/users/{id}/reviews [get]
func (h *ReviewHandler) ForUser(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	reviews, err := h.uc.UserReviews(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, reviews)
}

// @Summary Reviews left on a task
// @Tags reviews
// @Router /api/v1/tasks/{id}/reviews [get]
func (h *ReviewHandler) ForTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	reviews, err := h.uc.TaskReviews(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, reviews)
}

// @Summary Caller's points ledger
// @Tags profile
// @Router /api/v1/profile/points [get]
func (h *ReviewHandler) Points(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entries, err := h.uc.PointsHistory(stdCtx, h.caller(ctx))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entries)
}
