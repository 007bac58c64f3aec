package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/neighborly/api/transport"
	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/pkg/httpcontext"
	taskUC "github.com/fastygo/neighborly/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

type createdResponse struct {
	ID string `json:"id"`
}

type successResponse struct {
	Success bool `json:"success"`
}

var done = successResponse{Success: true}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	var req transport.CreateTaskRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, err := h.uc.CreateTask(stdCtx, h.caller(ctx), domain.NewTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     domain.Category(req.Category),
		Location:     toLocation(req.Location),
		ScheduledAt:  req.ScheduledTime,
		RewardPoints: req.RewardPoints,
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, createdResponse{ID: id})
}

// @Summary Open tasks near a point
// @Tags tasks
// @Router /api/v1/tasks/nearby [get]
func (h *TaskHandler) Nearby(ctx *fasthttp.RequestCtx) {
	lat, lng, radius, ok := nearbyArgs(ctx)
	if !ok {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), errNearbyArgs, nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.NearbyTasks(stdCtx, h.caller(ctx), taskUC.NearbyQuery{
		Lat:      lat,
		Lng:      lng,
		RadiusKm: radius,
		Category: domain.Category(ctx.QueryArgs().Peek("category")),
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Tasks posted by or assigned to the caller
// @Tags tasks
// @Router /api/v1/tasks/mine [get]
func (h *TaskHandler) Mine(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	direction := taskUC.Direction(ctx.QueryArgs().Peek("type"))
	tasks, err := h.uc.MyTasks(stdCtx, h.caller(ctx), direction)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Task detail
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetTask(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Apply for a task
// @Tags tasks
// @Router /api/v1/tasks/{id}/apply [post]
func (h *TaskHandler) Apply(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Apply(stdCtx, h.caller(ctx), pathParam(ctx, "id")); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, done)
}

// @Summary Assign an applicant
// @Tags tasks
// @Router /api/v1/tasks/{id}/assign [post]
func (h *TaskHandler) Assign(ctx *fasthttp.RequestCtx) {
	var req transport.AssignTaskRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Assign(stdCtx, h.caller(ctx), pathParam(ctx, "id"), req.HelperID); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, done)
}

// @Summary Start an assigned task
// @Tags tasks
// @Router /api/v1/tasks/{id}/start [post]
func (h *TaskHandler) Start(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Start(stdCtx, h.caller(ctx), pathParam(ctx, "id")); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, done)
}

// @Summary Complete a task
// @Tags tasks
// @Router /api/v1/tasks/{id}/complete [post]
func (h *TaskHandler) Complete(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Complete(stdCtx, h.caller(ctx), pathParam(ctx, "id")); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, done)
}
