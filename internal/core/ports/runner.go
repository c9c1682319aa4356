package ports

import "context"

// Command describes one external tool invocation.
type Command struct {
	// Name is the executable name or path.
	Name string
	// Args are the command arguments.
	Args []string
	// Dir is the working directory; empty means the process working directory.
	Dir string
	// Env contains additional environment variables in "KEY=VALUE" format.
	// They are layered over the allow-listed system environment.
	Env []string
}

// CommandRunner executes external tools (archive extractor, asar packer,
// icon tools, packaging tools). Every call blocks until the tool exits.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	// Run executes the command and returns an error if it exits nonzero.
	Run(ctx context.Context, cmd Command) error
	// Output executes the command and returns its combined output.
	Output(ctx context.Context, cmd Command) (string, error)
}
