package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T, handler http.HandlerFunc) *Verifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewVerifier("test-secret", 0.5, srv.URL, 2*time.Second, nil)
}

func TestVerifyAccepted(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-secret", r.Form.Get("secret"))
		assert.Equal(t, "tok", r.Form.Get("response"))
		w.Write([]byte(`{"success":true,"score":0.9}`))
	})
	assert.NoError(t, v.Verify(context.Background(), "tok", "1.2.3.4"))
}

func TestVerifyLowScore(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"score":0.2}`))
	})
	assert.ErrorIs(t, v.Verify(context.Background(), "tok", ""), ErrVerificationFailed)
}

func TestVerifyUnsuccessful(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	})
	assert.ErrorIs(t, v.Verify(context.Background(), "tok", ""), ErrVerificationFailed)
}

func TestVerifyNetworkErrorIsRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused
	v := NewVerifier("test-secret", 0.5, srv.URL, time.Second, nil)
	assert.ErrorIs(t, v.Verify(context.Background(), "tok", ""), ErrVerificationFailed)
}

func TestVerifyTimeout(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"success":true,"score":0.9}`))
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, v.Verify(ctx, "tok", ""), ErrVerificationFailed)
}

func TestVerifyEmptyToken(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach the endpoint")
	})
	assert.ErrorIs(t, v.Verify(context.Background(), "", ""), ErrVerificationFailed)
}

func TestVerifyDisabledWithoutSecret(t *testing.T) {
	v := NewVerifier("", 0.5, "", time.Second, nil)
	assert.NoError(t, v.Verify(context.Background(), "anything", ""))
}
