package interfaces

import "context"

// CommandRunner invokes an external tool as an opaque subprocess. The build
// pipeline never inspects tool output beyond success or failure.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}
