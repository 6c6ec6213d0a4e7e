// Package fetch runs one provider call under a bounded wait and classifies
// how it failed.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/jlagedo/capivara-mcp/internal/envelope"
)

// DefaultTimeout bounds a provider call when no other value is configured.
const DefaultTimeout = 30 * time.Second

// Error is a classified provider failure.
type Error struct {
	Kind envelope.Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrTimeout is wrapped when the bounded wait expires.
var ErrTimeout = errors.New("provider call exceeded its deadline")

type result[T any] struct {
	val T
	err error
}

// Do runs call on its own goroutine and waits at most timeout for it.
// On expiry the call is abandoned: its context is cancelled and its result,
// if it ever arrives, is dropped. Panics inside call become KindUnexpected.
func Do[T any](ctx context.Context, timeout time.Duration, call func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)

	done := make(chan result[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				done <- result[T]{val: zero, err: fmt.Errorf("panic in provider call: %v", r)}
			}
		}()
		v, err := call(callCtx)
		done <- result[T]{val: v, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var zero T
	select {
	case res := <-done:
		cancel()
		if res.err != nil {
			return zero, &Error{Kind: Classify(res.err), Err: res.err}
		}
		return res.val, nil
	case <-timer.C:
		cancel()
		return zero, &Error{Kind: envelope.KindTimeout, Err: ErrTimeout}
	case <-ctx.Done():
		cancel()
		return zero, &Error{Kind: Classify(ctx.Err()), Err: ctx.Err()}
	}
}

// Classify maps a provider error onto the failure taxonomy.
func Classify(err error) envelope.Kind {
	if err == nil {
		return ""
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	if errors.Is(err, context.Canceled) {
		return envelope.KindCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return envelope.KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return envelope.KindTimeout
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return envelope.KindConnectivity
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return envelope.KindConnectivity
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ENETUNREACH) || errors.Is(err, syscall.EHOSTUNREACH) {
		return envelope.KindConnectivity
	}
	return envelope.KindUnexpected
}
