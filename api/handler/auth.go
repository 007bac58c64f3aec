package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/neighborly/api/transport"
	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/pkg/httpcontext"
	"github.com/fastygo/neighborly/pkg/token"
	authUC "github.com/fastygo/neighborly/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc     *authUC.UseCase
	signer *token.Signer
}

func NewAuthHandler(uc *authUC.UseCase, signer *token.Signer, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		signer:      signer,
	}
}

type tokenResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// @Summary Exchange an identity-provider user id for a bearer token
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.AuthLoginRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.Login(stdCtx, req.UserID, string(ctx.Request.Header.UserAgent()))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondToken(ctx, stdCtx, http.StatusCreated, session)
}

// @Summary Extend the caller's session
// @Tags auth
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.Refresh(stdCtx, httpcontext.Session(ctx))
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			err = domain.ErrUnauthenticated
		}
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondToken(ctx, stdCtx, http.StatusOK, session)
}

// @Summary Revoke the caller's session
// @Tags auth
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Logout(stdCtx, httpcontext.Session(ctx)); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, done)
}

func (h *AuthHandler) respondToken(ctx *fasthttp.RequestCtx, reqCtx context.Context, status int, session *domain.Session) {
	signed, err := h.signer.Issue(session.UserID, session.ID, session.ExpiresAt)
	if err != nil {
		h.respondError(ctx, reqCtx, err)
		return
	}
	h.respondSuccess(ctx, status, tokenResponse{
		Token:     signed,
		SessionID: session.ID,
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	})
}
