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
	classUC "github.com/emagraphy/backend/usecase/class"
)

type ClassHandler struct {
	baseHandler
	uc *classUC.UseCase
}

func NewClassHandler(uc *classUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ClassHandler {
	return &ClassHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Create a class listing
// @Tags classes
// @Router /classes [post]
func (h *ClassHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.ClassRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	class := &domain.Class{
		InstructorEmail: middleware.CallerEmail(ctx),
		Title:           req.Title,
		Description:     req.Description,
		PriceCents:      req.PriceCents,
		Seats:           req.Seats,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, class)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary List approved classes
// @Tags classes
// @Router /classes [get]
func (h *ClassHandler) List(ctx *fasthttp.RequestCtx) {
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 50)
	offset := parseInt(string(ctx.QueryArgs().Peek("offset")), 0)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	classes, err := h.uc.ListApproved(stdCtx, limit, offset)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, classes)
}

// @Summary List the caller's own listings
// @Tags classes
// @Router /classes/mine [get]
func (h *ClassHandler) ListMine(ctx *fasthttp.RequestCtx) {
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 50)
	offset := parseInt(string(ctx.QueryArgs().Peek("offset")), 0)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	classes, err := h.uc.ListByInstructor(stdCtx, middleware.CallerEmail(ctx), limit, offset)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, classes)
}

// @Summary Approve or deny a class listing
// @Tags classes
// @Router /classes/{id}/status [patch]
func (h *ClassHandler) SetStatus(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing class id", nil))
		return
	}

	var req transport.ClassStatusRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.SetStatus(stdCtx, id, req.Status)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}
