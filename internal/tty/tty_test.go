// Package tty_test exercises the raw-mode console.
//
// The test is skipped when stdin is not a terminal (ErrNoTTY). Notably, this includes when run
// with "go test" because it redirects the test binary's standard streams. Build a test binary and
// run it directly to exercise it for real:
//
//	$ go test -c && ./tty.test
package tty_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"rv64sim/internal/tty"
)

const timeout = 100 * time.Millisecond

func TestConsole(tt *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ctx, console, done := tty.WithConsole(ctx)
	defer done()

	if console == nil {
		if err := context.Cause(ctx); errors.Is(err, tty.ErrNoTTY) || err != nil {
			tt.Skip("not a tty")
		}
	}

	select {
	case <-ctx.Done():
	case key := <-console.Keys():
		tt.Logf("key: %q", key)
	}
}
