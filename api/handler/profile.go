package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/neighborly/api/transport"
	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/pkg/httpcontext"
	profileUC "github.com/fastygo/neighborly/usecase/profile"
)

type ProfileHandler struct {
	baseHandler
	uc *profileUC.UseCase
}

func NewProfileHandler(uc *profileUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Current user's profile, null until setup is finished
// @Tags profile
// @Success 200 {object} transport.Envelope
// @Router /api/v1/profile [get]
func (h *ProfileHandler) GetProfile(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.CurrentUser(stdCtx, h.caller(ctx))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user)
}

// @Summary Complete profile setup
// @Tags profile
// @Accept json
// @Produce json
// @Router /api/v1/profile [post]
func (h *ProfileHandler) CreateProfile(ctx *fasthttp.RequestCtx) {
	var req transport.CreateProfileRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, err := h.uc.CreateProfile(stdCtx, h.caller(ctx), profileUC.Input{
		Name:     req.Name,
		Email:    req.Email,
		Bio:      req.Bio,
		Role:     domain.Role(req.UserType),
		Location: toLocation(req.Location),
		Skills:   req.Skills,
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, createdResponse{ID: id})
}

// @Summary Update profile
// @Tags profile
// @Accept json
// @Produce json
// @Router /api/v1/profile [put]
func (h *ProfileHandler) UpdateProfile(ctx *fasthttp.RequestCtx) {
	var req transport.UpdateProfileRequest
	if !h.decode(ctx, &req) {
		return
	}

	patch := profileUC.Update{
		Name:   req.Name,
		Bio:    req.Bio,
		Skills: req.Skills,
	}
	if req.UserType != nil {
		role := domain.Role(*req.UserType)
		patch.Role = &role
	}
	if req.Location != nil {
		location := toLocation(*req.Location)
		patch.Location = &location
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, err := h.uc.UpdateProfile(stdCtx, h.caller(ctx), patch)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, createdResponse{ID: id})
}

// @Summary Public profile
// @Tags users
// @Router /api/v1/users/{id} [get]
func (h *ProfileHandler) GetUser(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.GetUser(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user)
}

// @Summary Active helpers near a point
// @Tags users
// @Router /api/v1/helpers/nearby [get]
func (h *ProfileHandler) NearbyHelpers(ctx *fasthttp.RequestCtx) {
	lat, lng, radius, ok := nearbyArgs(ctx)
	if !ok {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), errNearbyArgs, nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	helpers, err := h.uc.NearbyHelpers(stdCtx, profileUC.NearbyQuery{Lat: lat, Lng: lng, RadiusKm: radius})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, helpers)
}

func toLocation(p transport.LocationPayload) domain.Location {
	return domain.Location{Lat: p.Lat, Lng: p.Lng, Address: p.Address}
}
