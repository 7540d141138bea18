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
	bookingUC "github.com/emagraphy/backend/usecase/booking"
)

type BookingHandler struct {
	baseHandler
	uc *bookingUC.UseCase
}

func NewBookingHandler(uc *bookingUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Book a class
// @Tags bookings
// @Router /bookings [post]
func (h *BookingHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.BookingRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.ClassID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	booking, err := h.uc.Book(stdCtx, req.ClassID, middleware.CallerEmail(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, booking)
}

// @Summary List the caller's bookings
// @Tags bookings
// @Router /bookings [get]
func (h *BookingHandler) List(ctx *fasthttp.RequestCtx) {
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 50)
	offset := parseInt(string(ctx.QueryArgs().Peek("offset")), 0)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	bookings, err := h.uc.ListOwn(stdCtx, middleware.CallerEmail(ctx), limit, offset)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, bookings)
}

// @Summary Cancel a reserved booking
// @Tags bookings
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Cancel(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing booking id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Cancel(stdCtx, id, middleware.CallerEmail(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
