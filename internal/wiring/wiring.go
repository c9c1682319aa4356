// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "claudeport/internal/adapters/fetch"
	_ "claudeport/internal/adapters/logger"
	_ "claudeport/internal/adapters/shell"
	// Register app nodes.
	_ "claudeport/internal/app"
)
