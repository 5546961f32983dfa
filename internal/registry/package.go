package registry

import "fmt"

// Kind classifies a managed package. The set is closed: the setup file
// generator dispatches on it to pick the statement template for each
// package, and unknown kinds are rejected at load time.
type Kind string

const (
	// KindCoreControl is a core control-software package (e.g. the
	// observatory control library).
	KindCoreControl Kind = "core-control"
	// KindInstrumentScripts is a per-instrument standard-scripts package.
	KindInstrumentScripts Kind = "instrument-standard-scripts"
	// KindConfigPackage is a configuration bundle.
	KindConfigPackage Kind = "config-package"
)

// Kinds lists all valid package kinds.
func Kinds() []Kind {
	return []Kind{KindCoreControl, KindInstrumentScripts, KindConfigPackage}
}

// ParseKind validates a kind string from configuration.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindCoreControl, KindInstrumentScripts, KindConfigPackage:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown package kind %q (valid: %v)", s, Kinds())
}

// String returns the kind's configuration spelling.
func (k Kind) String() string { return string(k) }

// ManagedPackage is one software unit tracked by the environment manager.
type ManagedPackage struct {
	Name        string // unique within a registry
	Kind        Kind
	Version     string // resolved version, tag, or branch; empty if unresolved
	InstallPath string // filesystem location; empty until resolved
}

// Resolved reports whether the package has an install path and can be
// represented in the setup file.
func (p ManagedPackage) Resolved() bool {
	return p.InstallPath != ""
}
