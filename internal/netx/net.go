// Package netx classifies transport failures of outbound HTTP calls.
package netx

import (
	"context"
	"errors"
	"io"
	"net"
	"net/url"
	"syscall"
)

// IsNetworkError reports whether err means the remote side could not be
// reached or stopped answering: refused or reset connections, DNS failures,
// timeouts and truncated responses. Cancellation by the caller is not a
// network error.
func IsNetworkError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return IsNetworkError(urlErr.Err)
	}

	return false
}
