package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/emagraphy/backend/usecase"
)

// Client talks to the external payment gateway over HTTP. The gateway is a
// collaborator, not something this service reimplements: a charge is one
// POST and the answer is final.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient builds a gateway client from configuration.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
		logger:  logger,
	}
}

// Charge submits a charge request and decodes the gateway verdict.
func (c *Client) Charge(ctx context.Context, req usecase.ChargeRequest) (*usecase.ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq := fasthttp.AcquireRequest()
	httpResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(httpReq)
	defer fasthttp.ReleaseResponse(httpResp)

	httpReq.SetRequestURI(c.baseURL + "/v1/charges")
	httpReq.Header.SetMethod(fasthttp.MethodPost)
	httpReq.Header.SetContentType("application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.SetBody(body)

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := c.http.DoDeadline(httpReq, httpResp, deadline); err != nil {
		return nil, err
	}

	if status := httpResp.StatusCode(); status >= fasthttp.StatusInternalServerError {
		return nil, fmt.Errorf("gateway returned status %d", status)
	}

	var result usecase.ChargeResult
	if err := json.Unmarshal(httpResp.Body(), &result); err != nil {
		return nil, fmt.Errorf("malformed gateway response: %w", err)
	}

	c.logger.Debug("gateway charge completed",
		zap.String("reference", req.Reference),
		zap.Bool("succeeded", result.Succeeded))
	return &result, nil
}

var _ usecase.PaymentGateway = (*Client)(nil)
