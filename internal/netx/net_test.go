package netx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNetworkError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"canceled", fmt.Errorf("get: %w", context.Canceled), false},
		{"deadline", context.DeadlineExceeded, true},
		{"refused", &url.Error{Op: "Get", URL: "http://x", Err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}}, true},
		{"dns", &net.DNSError{Err: "no such host", Name: "nope.invalid"}, true},
		{"url wrapping plain", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("bad scheme")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNetworkError(tt.err))
		})
	}
}

func TestIsNetworkError_RealFailures(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	addr := ts.URL
	ts.Close()

	_, err := http.Get(addr)
	require.Error(t, err)
	assert.True(t, IsNetworkError(err), "closed server: %v", err)

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer slow.Close()

	client := &http.Client{Timeout: 20 * time.Millisecond}
	_, err = client.Get(slow.URL)
	require.Error(t, err)
	assert.True(t, IsNetworkError(err), "timeout: %v", err)
}
