package async

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Dispatch executes a handler function asynchronously with proper context and panic recovery
//
// Parameters:
//   - ctx: Original context (values will be preserved, but cancellation won't affect the async handler)
//   - handler: Function to execute asynchronously
//
// Behavior:
//   - Creates a new background context with preserved logger
//   - Executes handler in a new goroutine
//   - Recovers from panics and logs them
//   - Logs errors returned by handler
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := newBackgroundContext(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				logger := ctxlog.From(newCtx)
				logger.Error("panic in async handler",
					"recover", r,
					"stack", string(stack))
			}
		}()

		if err := handler(newCtx); err != nil {
			logger := ctxlog.From(newCtx)
			logger.Error("error in async handler", "error", err)
		}
	}()
}

// Gather runs fn once per item, each in its own goroutine, and waits for all
// of them. Results and errors are returned in input order. A failing or
// panicking item never cancels its siblings; a panic is recovered and
// surfaced as that item's error.
func Gather[T, R any](ctx context.Context, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, []error) {
	results := make([]R, len(items))
	errs := make([]error, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					stack := debug.Stack()
					ctxlog.From(ctx).Error("panic in gather worker",
						"recover", r,
						"stack", string(stack))
					errs[i] = goerr.New("panic in gather worker", goerr.V("recover", r))
				}
			}()

			results[i], errs[i] = fn(ctx, item)
		}()
	}
	wg.Wait()

	return results, errs
}

// newBackgroundContext creates a new background context preserving important values
//
// Preserved values:
//   - ctxlog logger
//
// Returns: New context.Background() with preserved values
func newBackgroundContext(ctx context.Context) context.Context {
	newCtx := context.Background()
	newCtx = ctxlog.With(newCtx, ctxlog.From(ctx))
	return newCtx
}
