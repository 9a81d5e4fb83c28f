package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokend/pkg/errors"
	"tokend/pkg/logger"
)

var upgrader = websocket.Upgrader{}

// newTestNode starts a WebSocket server that answers every command with
// handle(request) and returns its ws:// URL.
func newTestNode(t *testing.T, handle func(req map[string]interface{}) interface{}) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var req map[string]interface{}
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			reply := handle(req)
			if reply == nil {
				continue
			}
			if err := conn.WriteJSON(reply); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestAccountInfo(t *testing.T) {
	url := newTestNode(t, func(req map[string]interface{}) interface{} {
		assert.Equal(t, "account_info", req["command"])
		return map[string]interface{}{
			"id":     req["id"],
			"status": "success",
			"type":   "response",
			"result": map[string]interface{}{
				"account_data": map[string]interface{}{
					"Account": req["account"],
					"Balance": "7000000",
				},
			},
		}
	})

	c := NewClient(url, time.Second, logger.NewNop())
	data, err := c.AccountInfo(context.Background(), "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh")

	require.NoError(t, err)
	assert.Equal(t, "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", data.Account)
	assert.Equal(t, "7000000", data.Balance)
}

func TestAccountInfoNotFound(t *testing.T) {
	url := newTestNode(t, func(req map[string]interface{}) interface{} {
		return map[string]interface{}{
			"id":            req["id"],
			"status":        "error",
			"error":         "actNotFound",
			"error_message": "Account not found.",
		}
	})

	c := NewClient(url, time.Second, logger.NewNop())
	_, err := c.AccountInfo(context.Background(), "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh")

	assert.ErrorIs(t, err, errors.ErrAccountNotFound)
}

func TestAccountInfoMalformed(t *testing.T) {
	url := newTestNode(t, func(req map[string]interface{}) interface{} {
		return map[string]interface{}{
			"id":            req["id"],
			"status":        "error",
			"error":         "actMalformed",
			"error_message": "Account malformed.",
		}
	})

	c := NewClient(url, time.Second, logger.NewNop())
	_, err := c.AccountInfo(context.Background(), "nonsense")

	assert.ErrorIs(t, err, errors.ErrAccountMalformed)
}

func TestDoSkipsUnrelatedMessages(t *testing.T) {
	// A stream message without our correlation id arrives first.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var req map[string]interface{}
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		_ = conn.WriteJSON(map[string]interface{}{"type": "ledgerClosed"})
		_ = conn.WriteJSON(map[string]interface{}{
			"id":     req["id"],
			"status": "success",
			"result": map[string]interface{}{"ok": true},
		})
	}))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	c := NewClient(url, time.Second, logger.NewNop())
	raw, err := c.Do(context.Background(), "ping", nil)

	require.NoError(t, err)
	var result map[string]bool
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.True(t, result["ok"])
}

func TestDoTimesOutWhenNodeStaysSilent(t *testing.T) {
	url := newTestNode(t, func(req map[string]interface{}) interface{} {
		return nil // never reply
	})

	c := NewClient(url, 100*time.Millisecond, logger.NewNop())
	start := time.Now()
	_, err := c.Do(context.Background(), "account_info", map[string]interface{}{"account": "x"})

	assert.ErrorIs(t, err, errors.ErrLedgerTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDoUnreachableNode(t *testing.T) {
	c := NewClient("ws://127.0.0.1:1", 200*time.Millisecond, logger.NewNop())
	_, err := c.Do(context.Background(), "account_info", nil)
	assert.ErrorIs(t, err, errors.ErrLedgerUnavailable)
}

func TestSubmitEngineResult(t *testing.T) {
	url := newTestNode(t, func(req map[string]interface{}) interface{} {
		assert.Equal(t, "submit", req["command"])
		assert.Equal(t, "shhh", req["secret"])
		return map[string]interface{}{
			"id":     req["id"],
			"status": "success",
			"result": map[string]interface{}{
				"engine_result": "tesSUCCESS",
				"tx_json":       map[string]interface{}{"hash": "CAFEBABE"},
			},
		}
	})

	c := NewClient(url, time.Second, logger.NewNop())
	result, err := c.Submit(context.Background(), map[string]interface{}{"TransactionType": "AccountSet"}, "shhh")

	require.NoError(t, err)
	assert.Equal(t, "CAFEBABE", result.TxJSON.Hash)
}

func TestSubmitRejectsNonSuccessEngineResult(t *testing.T) {
	url := newTestNode(t, func(req map[string]interface{}) interface{} {
		return map[string]interface{}{
			"id":     req["id"],
			"status": "success",
			"result": map[string]interface{}{
				"engine_result": "tecPATH_DRY",
			},
		}
	})

	c := NewClient(url, time.Second, logger.NewNop())
	_, err := c.Submit(context.Background(), map[string]interface{}{}, "shhh")

	assert.ErrorIs(t, err, errors.ErrSubmitFailed)
}
