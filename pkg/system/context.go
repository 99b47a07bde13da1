package system

import (
	"context"
)

// Runs an operation that does not observe cancellation on its own, such as an
// in-process library call, while still returning promptly when ctx ends.
//
// The function handles three key scenarios:
//   - Normal completion: the operation's result is returned as is
//   - Cancelled before start: ctx.Err() is returned and the operation never runs
//   - Cancelled while running: ctx.Err() is returned at once, the operation
//     keeps its own context cancelled and finishes in the background
//
// The caller must not touch resources the operation writes to until it
// either returns nil or the abandoned operation has had a chance to finish.
func RunWithContext(ctx context.Context, operation func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opCtx, cancel := context.WithCancel(context.Background())

	// Buffered so the goroutine can always deliver and exit, even after we
	// stopped listening.
	done := make(chan error, 1)

	go func() {
		defer cancel()
		done <- operation(opCtx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}
}
