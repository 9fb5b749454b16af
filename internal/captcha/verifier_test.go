package captcha

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestVerifyAccepts(t *testing.T) {
	var gotSecret, gotResponse string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotSecret = r.PostFormValue("secret")
		gotResponse = r.PostFormValue("response")
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	v := NewVerifier("server-secret", srv.URL, time.Second, discardLogger())
	assert.True(t, v.Verify(context.Background(), "proof-token"))
	assert.Equal(t, "server-secret", gotSecret)
	assert.Equal(t, "proof-token", gotResponse)
}

func TestVerifyRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
	}))
	defer srv.Close()

	v := NewVerifier("server-secret", srv.URL, time.Second, discardLogger())
	assert.False(t, v.Verify(context.Background(), "bad-proof"))
}

func TestVerifyFailsClosed(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "oracle error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv := httptest.NewServer(test.handler)
			defer srv.Close()

			v := NewVerifier("server-secret", srv.URL, time.Second, discardLogger())
			assert.False(t, v.Verify(context.Background(), "proof-token"))
		})
	}
}

func TestVerifyUnreachableOracle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	v := NewVerifier("server-secret", srv.URL, time.Second, discardLogger())
	assert.False(t, v.Verify(context.Background(), "proof-token"))
}

func TestVerifyTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	v := NewVerifier("server-secret", srv.URL, 50*time.Millisecond, discardLogger())
	assert.False(t, v.Verify(context.Background(), "proof-token"))
}
