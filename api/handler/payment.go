package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/emagraphy/backend/api/transport"
	"github.com/emagraphy/backend/domain"
	"github.com/emagraphy/backend/internal/middleware"
	"github.com/emagraphy/backend/pkg/httpcontext"
	paymentUC "github.com/emagraphy/backend/usecase/payment"
)

type PaymentHandler struct {
	baseHandler
	uc *paymentUC.UseCase
}

func NewPaymentHandler(uc *paymentUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Pay for a reserved booking
// @Tags payments
// @Router /payments [post]
func (h *PaymentHandler) Charge(ctx *fasthttp.RequestCtx) {
	var req transport.PaymentRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.BookingID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	payment, err := h.uc.Charge(stdCtx, req.BookingID, middleware.CallerEmail(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, payment)
}

// @Summary List the caller's payments
// @Tags payments
// @Router /payments [get]
func (h *PaymentHandler) List(ctx *fasthttp.RequestCtx) {
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 50)
	offset := parseInt(string(ctx.QueryArgs().Peek("offset")), 0)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	payments, err := h.uc.ListOwn(stdCtx, middleware.CallerEmail(ctx), limit, offset)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, payments)
}
