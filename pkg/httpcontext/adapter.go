package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// CallerHeader carries the verified identity the access guard attaches to a
// request. The adapter copies it into the derived context so use cases and
// log enrichment can see who is acting without touching the transport.
const CallerHeader = "X-User-Email"

const requestIDHeader = "X-Request-ID"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	callerKey
	remoteAddrKey
)

// Adapter derives a deadline-bound stdlib context from a fasthttp request.
type Adapter struct {
	timeout time.Duration
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{timeout: timeout}
}

// Attach builds the request context: a timeout, the request id (inbound or
// freshly minted, echoed on the response), the verified caller if the guard
// ran, and the peer address.
func (a *Adapter) Attach(reqCtx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)

	id := requestID(reqCtx)
	reqCtx.Response.Header.Set(requestIDHeader, id)
	ctx = context.WithValue(ctx, requestIDKey, id)

	if caller := string(reqCtx.Request.Header.Peek(CallerHeader)); caller != "" {
		ctx = context.WithValue(ctx, callerKey, caller)
	}
	if addr := reqCtx.RemoteAddr(); addr != nil {
		ctx = context.WithValue(ctx, remoteAddrKey, addr.String())
	}

	return ctx, cancel
}

// RequestID returns the id attached by the adapter, or "".
func RequestID(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// Caller returns the verified email attached by the adapter, or "" for
// unauthenticated requests.
func Caller(ctx context.Context) string {
	return stringValue(ctx, callerKey)
}

// RemoteAddr returns the peer address of the request, or "".
func RemoteAddr(ctx context.Context) string {
	return stringValue(ctx, remoteAddrKey)
}

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

func requestID(reqCtx *fasthttp.RequestCtx) string {
	if reqCtx != nil {
		if inbound := string(reqCtx.Request.Header.Peek(requestIDHeader)); strings.TrimSpace(inbound) != "" {
			return inbound
		}
	}
	return uuid.NewString()
}
