package middleware

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/emagraphy/backend/domain"
	"github.com/emagraphy/backend/pkg/httpcontext"
	"github.com/emagraphy/backend/pkg/token"
)

// callerEmailHeader carries the verified identity to downstream handlers and
// into the derived request context.
const callerEmailHeader = httpcontext.CallerHeader

// TokenVerifier validates a session token and returns its claims.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// RoleReader is the read-only slice of the identity store the guard needs.
type RoleReader interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ContextFactory derives a stdlib context for the identity-store lookup.
type ContextFactory interface {
	Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc)
}

// Guard gates protected routes behind token verification and, optionally,
// a required role. Checks run strictly in order and the first failure is the
// single terminal action for the request: either the failure response is sent
// or the downstream handler runs, never both.
type Guard struct {
	verifier TokenVerifier
	users    RoleReader
	contexts ContextFactory
	logger   *zap.Logger
}

// NewGuard wires the access guard with its collaborators.
func NewGuard(verifier TokenVerifier, users RoleReader, contexts ContextFactory, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{
		verifier: verifier,
		users:    users,
		contexts: contexts,
		logger:   logger,
	}
}

// Authenticate rejects requests without a valid bearer token. On success the
// verified email is attached to the request before invoking next.
func (g *Guard) Authenticate(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		tokenString, ok := bearerToken(ctx)
		if !ok {
			reject(ctx, fasthttp.StatusUnauthorized, domain.ErrUnauthorized.Message)
			return
		}

		claims, err := g.verifier.Verify(tokenString)
		if err != nil {
			g.logger.Warn("token verification failed", zap.Error(err))
			reject(ctx, fasthttp.StatusUnauthorized, domain.ErrUnauthorized.Message)
			return
		}

		ctx.Request.Header.Set(callerEmailHeader, claims.Email)
		next(ctx)
	}
}

// RequireRole authenticates the caller and then compares the stored role of
// the verified identity against the required capability. The role is re-read
// from the identity store on every request; an unknown identity is treated as
// forbidden, and a store failure fails closed.
func (g *Guard) RequireRole(role domain.Role) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return g.Authenticate(func(ctx *fasthttp.RequestCtx) {
			email := CallerEmail(ctx)

			stdCtx, cancel := g.requestContext(ctx)
			defer cancel()

			user, err := g.users.GetByEmail(stdCtx, email)
			if err != nil {
				if domain.IsDomainError(err, domain.ErrCodeNotFound) {
					reject(ctx, fasthttp.StatusForbidden, domain.ErrForbidden.Message)
					return
				}
				g.logger.Error("identity store lookup failed", zap.String("email", email), zap.Error(err))
				reject(ctx, fasthttp.StatusServiceUnavailable, domain.ErrStoreUnavailable.Message)
				return
			}

			if !user.HasRole(role) {
				reject(ctx, fasthttp.StatusForbidden, domain.ErrForbidden.Message)
				return
			}

			next(ctx)
		})
	}
}

// CallerEmail returns the verified email attached by Authenticate, or "" for
// unguarded requests.
func CallerEmail(ctx *fasthttp.RequestCtx) string {
	return string(ctx.Request.Header.Peek(callerEmailHeader))
}

func (g *Guard) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if g.contexts != nil {
		return g.contexts.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func bearerToken(ctx *fasthttp.RequestCtx) (string, bool) {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == "" {
		return "", false
	}
	return tokenString, true
}

type guardResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func reject(ctx *fasthttp.RequestCtx, status int, message string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(guardResponse{Error: true, Message: message})
	ctx.SetBody(body)
}
