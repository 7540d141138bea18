package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/emagraphy/backend/api/transport"
	"github.com/emagraphy/backend/domain"
	"github.com/emagraphy/backend/pkg/httpcontext"
	authUC "github.com/emagraphy/backend/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Issue a session token
// @Tags auth
// @Router /session [post]
func (h *AuthHandler) IssueSession(ctx *fasthttp.RequestCtx) {
	var req transport.SessionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	signed, err := h.uc.IssueSession(authUC.IdentityClaims{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	// Session clients expect the token at the top level.
	h.respondPayload(ctx, http.StatusOK, transport.SessionResponse{Token: signed})
}
