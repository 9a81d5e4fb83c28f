package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tokend/internal/xumm"
	"tokend/pkg/errors"
	"tokend/pkg/logger"
)

type fakeVerifier struct {
	status *xumm.TokenStatus
	err    error
}

func (f *fakeVerifier) VerifyUserToken(_ context.Context, _ string) (*xumm.TokenStatus, error) {
	return f.status, f.err
}

func callGate(t *testing.T, verifier TokenVerifier, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	gate := NewSessionGate(verifier, logger.NewNop())
	gate.now = func() time.Time { return time.Unix(1_800_000_000, 0) }

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		token, ok := SessionTokenFromContext(r.Context())
		assert.True(t, ok)
		assert.NotEmpty(t, token)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tokens/send", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	gate.Authenticate(next).ServeHTTP(rec, req)

	if rec.Code == http.StatusOK {
		assert.True(t, nextCalled)
	} else {
		assert.False(t, nextCalled)
	}
	return rec
}

func gateError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestSessionGateAllowsActiveSession(t *testing.T) {
	rec := callGate(t, &fakeVerifier{status: &xumm.TokenStatus{
		UserToken: "tok",
		Active:    true,
		Expires:   1_800_000_100,
	}}, "Bearer tok")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionGateMissingToken(t *testing.T) {
	rec := callGate(t, &fakeVerifier{}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access denied. No token provided.", gateError(t, rec))
}

func TestSessionGateUnknownToken(t *testing.T) {
	rec := callGate(t, &fakeVerifier{status: nil}, "Bearer tok")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token.", gateError(t, rec))
}

func TestSessionGateInactiveToken(t *testing.T) {
	rec := callGate(t, &fakeVerifier{status: &xumm.TokenStatus{
		Active:  false,
		Expires: 1_800_000_100,
	}}, "Bearer tok")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Inactive token.", gateError(t, rec))
}

func TestSessionGateExpiredToken(t *testing.T) {
	rec := callGate(t, &fakeVerifier{status: &xumm.TokenStatus{
		Active:  true,
		Expires: 1_800_000_000, // not strictly in the future
	}}, "Bearer tok")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Expired token.", gateError(t, rec))
}

func TestSessionGateVerifierFailure(t *testing.T) {
	rec := callGate(t, &fakeVerifier{err: errors.ErrSigningUnavailable}, "Bearer tok")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid authentication.", gateError(t, rec))
}
