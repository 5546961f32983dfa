// Package packlist reads the static package-list file that seeds the
// environment registry at startup. The file is YAML, validated against
// an embedded JSON schema before any entry is accepted, so a malformed
// list is rejected with field-level messages instead of half-seeding
// the registry.
package packlist
