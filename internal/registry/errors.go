package registry

import "fmt"

// DuplicateNameError is returned by Add when a package with the same
// name is already registered.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("package %q is already registered", e.Name)
}

// NotFoundError is returned by Get, Remove, and Resolve when no package
// with the given name is registered.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("package %q is not in the list of managed packages", e.Name)
}
