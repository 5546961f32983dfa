// Package setupfile generates the shell-sourceable setup artifact that
// configures the runtime environment for every resolved managed package.
// Generation is deterministic: the same registry contents, clock, and
// user produce byte-identical output. The artifact is written atomically
// so a failure mid-write never leaves a truncated file at the live path.
package setupfile
