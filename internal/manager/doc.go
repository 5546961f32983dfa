// Package manager orchestrates the observing-environment operations.
// Every action runs the same sequence: validate preconditions, execute
// the registry mutation and/or setup-file generation, then log the
// outcome to the action log. Logging is the one unconditional step: a
// failed action still produces a failure record.
package manager
