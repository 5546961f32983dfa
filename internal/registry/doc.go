// Package registry holds the in-memory set of managed packages that make
// up the observing environment. The registry preserves insertion order,
// which is the order packages appear in the generated setup file, and is
// mutated only by explicit add/remove/resolve operations.
package registry
