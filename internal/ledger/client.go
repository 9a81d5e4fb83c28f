// Package ledger implements the facade's query client for an XRPL node.
// Each call opens its own WebSocket connection, sends one correlated
// request, awaits exactly one matching response within a bounded wait, and
// closes the connection on every exit path.
package ledger

import (
	"context"
	"encoding/json"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"tokend/internal/xrpl"
	"tokend/pkg/errors"
	"tokend/pkg/logger"
)

// Query is the narrow contract the services depend on: a command with
// parameters in, the success result out. Any conforming implementation
// (live node, mock) can be substituted.
type Query interface {
	Do(ctx context.Context, command string, params map[string]interface{}) (json.RawMessage, error)
}

// Client dials the configured node once per call.
type Client struct {
	nodeURL string
	timeout time.Duration
	dialer  *websocket.Dialer
	logger  logger.Logger
}

// NewClient constructs a Client. timeout bounds the wait for a node
// response; zero falls back to 10s.
func NewClient(nodeURL string, timeout time.Duration, log logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		nodeURL: nodeURL,
		timeout: timeout,
		dialer:  websocket.DefaultDialer,
		logger:  log,
	}
}

// Do sends one command and resolves with the first response carrying the
// request's correlation id. A non-success status rejects with the node's
// error; no response within the configured bound rejects with
// ErrLedgerTimeout.
func (c *Client) Do(ctx context.Context, command string, params map[string]interface{}) (json.RawMessage, error) {
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	conn, _, err := c.dialer.DialContext(ctx, c.nodeURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrLedgerUnavailable, err.Error())
	}
	defer conn.Close()

	id := uuid.NewString()
	req := map[string]interface{}{
		"id":      id,
		"command": command,
	}
	for k, v := range params {
		req[k] = v
	}

	if err := conn.SetWriteDeadline(deadline); err != nil {
		return nil, errors.Wrap(err, "ledger write deadline")
	}
	if err := conn.WriteJSON(req); err != nil {
		return nil, errors.Wrap(errors.ErrLedgerUnavailable, err.Error())
	}

	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, errors.Wrap(err, "ledger read deadline")
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if isTimeout(err) {
				return nil, errors.ErrLedgerTimeout
			}
			return nil, errors.Wrap(errors.ErrLedgerUnavailable, err.Error())
		}

		var resp response
		if err := json.Unmarshal(message, &resp); err != nil {
			return nil, errors.Wrap(err, "malformed ledger response")
		}
		if resp.ID != id {
			// Unsolicited stream message; keep waiting for our reply.
			continue
		}

		if resp.Status != "success" {
			c.logger.Warn("ledger command rejected", map[string]interface{}{
				"command": command,
				"error":   resp.Error,
			})
			return nil, nodeError(resp)
		}
		return resp.Result, nil
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// nodeError maps the node's error codes onto the facade's error taxonomy.
func nodeError(resp response) error {
	switch resp.Error {
	case "actNotFound":
		return errors.ErrAccountNotFound
	case "actMalformed":
		return errors.ErrAccountMalformed
	}
	msg := resp.ErrorMessage
	if msg == "" {
		msg = resp.Error
	}
	if msg == "" {
		msg = "ledger command failed"
	}
	if strings.Contains(strings.ToLower(msg), "malformed") {
		return errors.ErrAccountMalformed
	}
	return errors.Wrap(errors.ErrLedgerUnavailable, msg)
}

// AccountInfo returns the account's root data, including its XRP balance in
// drops.
func (c *Client) AccountInfo(ctx context.Context, account string) (*AccountData, error) {
	raw, err := c.Do(ctx, "account_info", map[string]interface{}{"account": account})
	if err != nil {
		return nil, err
	}
	var result accountInfoResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errors.Wrap(err, "account_info result")
	}
	return &result.AccountData, nil
}

// AccountLines returns the account's trust lines.
func (c *Client) AccountLines(ctx context.Context, account string) ([]TrustLine, error) {
	raw, err := c.Do(ctx, "account_lines", map[string]interface{}{"account": account})
	if err != nil {
		return nil, err
	}
	var result accountLinesResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errors.Wrap(err, "account_lines result")
	}
	return result.Lines, nil
}

// PathFind asks the node for payment paths delivering destAmount from
// source to destination. Only the first reply is consumed; the connection
// closes before the node streams updates.
func (c *Client) PathFind(ctx context.Context, source, destination string, destAmount xrpl.IssuedAmount) ([]PathAlternative, error) {
	raw, err := c.Do(ctx, "path_find", map[string]interface{}{
		"subcommand":          "create",
		"source_account":      source,
		"destination_account": destination,
		"destination_amount":  destAmount,
	})
	if err != nil {
		return nil, err
	}
	var result pathFindResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errors.Wrap(err, "path_find result")
	}
	return result.Alternatives, nil
}

// Submit sends a transaction through the node's sign-and-submit mode. Used
// only by the administrative issuance flow for the server-controlled
// issuer and hot wallets; user transactions always go through the signing
// service instead.
func (c *Client) Submit(ctx context.Context, tx xrpl.Payload, secret string) (*SubmitResult, error) {
	raw, err := c.Do(ctx, "submit", map[string]interface{}{
		"tx_json": tx,
		"secret":  secret,
	})
	if err != nil {
		return nil, err
	}
	var result SubmitResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errors.Wrap(err, "submit result")
	}
	if result.EngineResult != "tesSUCCESS" {
		return nil, errors.Wrap(errors.ErrSubmitFailed, result.EngineResult)
	}
	return &result, nil
}
