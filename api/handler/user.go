package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/emagraphy/backend/api/transport"
	"github.com/emagraphy/backend/domain"
	"github.com/emagraphy/backend/pkg/httpcontext"
	userUC "github.com/emagraphy/backend/usecase/user"
)

type UserHandler struct {
	baseHandler
	uc *userUC.UseCase
}

func NewUserHandler(uc *userUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Register an identity (idempotent by email)
// @Tags users
// @Router /users [post]
func (h *UserHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Email == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, created, err := h.uc.Register(stdCtx, req.Email, req.Name)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.respondSuccess(ctx, status, transport.RegisterResponse{User: user, Existed: !created})
}

// @Summary List identities
// @Tags users
// @Router /users [get]
func (h *UserHandler) List(ctx *fasthttp.RequestCtx) {
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 50)
	offset := parseInt(string(ctx.QueryArgs().Peek("offset")), 0)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	users, err := h.uc.List(stdCtx, limit, offset)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, users)
}

// @Summary Promote an identity to admin
// @Tags users
// @Router /users/admin/{id} [patch]
func (h *UserHandler) PromoteToAdmin(ctx *fasthttp.RequestCtx) {
	h.promote(ctx, h.uc.PromoteToAdmin)
}

// @Summary Promote an identity to instructor
// @Tags users
// @Router /users/instructor/{id} [patch]
func (h *UserHandler) PromoteToInstructor(ctx *fasthttp.RequestCtx) {
	h.promote(ctx, h.uc.PromoteToInstructor)
}

func (h *UserHandler) promote(ctx *fasthttp.RequestCtx, fn func(ctx context.Context, id string) (*domain.User, error)) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing user id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := fn(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user)
}
