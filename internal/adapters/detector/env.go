// Package detector inspects the invocation environment.
package detector

import (
	"os"

	"golang.org/x/term"
)

// IsCI reports whether the run happens under a CI system. CI runs only get
// different post-build guidance text; the artifact itself is unaffected.
func IsCI() bool {
	ci := os.Getenv("CI")
	return ci == "true" || ci == "1"
}

// IsInteractive reports whether stdout is attached to a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
