// Package xumm is the facade's client for the XUMM platform API: it hands
// built transaction payloads over for out-of-band user signing and checks
// the status of user tokens. The facade never sees the signed result.
package xumm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tokend/internal/xrpl"
	"tokend/pkg/config"
	"tokend/pkg/errors"
	"tokend/pkg/logger"
)

// SignedPayload is the signing service's answer to a created payload: an
// opaque identifier and the URL where the user completes signing.
type SignedPayload struct {
	UUID    string
	NextURL string
}

// TokenStatus is one user-token record from the platform API. Expires is a
// unix timestamp in seconds.
type TokenStatus struct {
	UserToken string `json:"user_token"`
	Active    bool   `json:"active"`
	Issued    int64  `json:"issued"`
	Expires   int64  `json:"expires"`
}

type customMeta struct {
	Instruction string `json:"instruction,omitempty"`
}

type createPayloadRequest struct {
	TxJSON     xrpl.Payload `json:"txjson"`
	CustomMeta *customMeta  `json:"custom_meta,omitempty"`
}

type createPayloadResponse struct {
	UUID string `json:"uuid"`
	Next struct {
		Always string `json:"always"`
	} `json:"next"`
}

type verifyTokensRequest struct {
	Tokens []string `json:"tokens"`
}

type verifyTokensResponse struct {
	Tokens []TokenStatus `json:"tokens"`
}

// Client talks to the XUMM platform API with application credentials.
type Client struct {
	baseURL   string
	apiKey    string
	apiSecret string
	http      *http.Client
	logger    logger.Logger
}

// NewClient constructs a Client from the service configuration.
func NewClient(cfg config.XummConfig, log logger.Logger) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		http:      &http.Client{Timeout: 15 * time.Second},
		logger:    log,
	}
}

// CreatePayload submits a transaction payload for user signing and returns
// the signing session identifier and URL. A response without both is an
// external-service error.
func (c *Client) CreatePayload(ctx context.Context, tx xrpl.Payload, instruction string) (*SignedPayload, error) {
	reqBody := createPayloadRequest{TxJSON: tx}
	if instruction != "" {
		reqBody.CustomMeta = &customMeta{Instruction: instruction}
	}

	var resp createPayloadResponse
	if err := c.post(ctx, "/api/v1/platform/payload", reqBody, &resp); err != nil {
		return nil, err
	}

	if resp.UUID == "" || resp.Next.Always == "" {
		return nil, errors.ErrNoSigningPayload
	}
	return &SignedPayload{UUID: resp.UUID, NextURL: resp.Next.Always}, nil
}

// VerifyUserToken fetches the status records for a user token and returns
// the first one, or nil when the service knows nothing about the token.
func (c *Client) VerifyUserToken(ctx context.Context, token string) (*TokenStatus, error) {
	var resp verifyTokensResponse
	if err := c.post(ctx, "/api/v1/platform/user-tokens", verifyTokensRequest{Tokens: []string{token}}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Tokens) == 0 {
		return nil, nil
	}
	return &resp.Tokens[0], nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("X-API-Secret", c.apiSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrSigningUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("signing service rejected request", map[string]interface{}{
			"path":   path,
			"status": resp.StatusCode,
		})
		return errors.Wrap(errors.ErrSigningUnavailable, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(errors.ErrSigningUnavailable, err.Error())
	}
	return nil
}
