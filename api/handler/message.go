package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/neighborly/api/transport"
	"github.com/fastygo/neighborly/pkg/httpcontext"
	messageUC "github.com/fastygo/neighborly/usecase/message"
)

type MessageHandler struct {
	baseHandler
	uc *messageUC.UseCase
}

func NewMessageHandler(uc *messageUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Task chat history
// @Tags messages
// @Router /api/v1/tasks/{id}/messages [get]
func (h *MessageHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	messages, err := h.uc.History(stdCtx, h.caller(ctx), pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, messages)
}

// @Summary Send a chat message
// @Tags messages
// @Router /api/v1/tasks/{id}/messages [post]
func (h *MessageHandler) Send(ctx *fasthttp.RequestCtx) {
	var req transport.SendMessageRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Send(stdCtx, h.caller(ctx), pathParam(ctx, "id"), req.Content); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, done)
}

// @Summary Mark the caller's messages read
// @Tags messages
// @Router /api/v1/tasks/{id}/messages/read [post]
func (h *MessageHandler) MarkRead(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.MarkRead(stdCtx, h.caller(ctx), pathParam(ctx, "id")); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, done)
}
