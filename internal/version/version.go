// Package version handles the version strings used to pin managed
// packages: X.Y.Z releases with optional a/b/rc pre-release suffixes,
// and their expansion into annotated tag names.
package version

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// releaseRE matches a release version string: X.Y.Z with an optional
// release type (a = alpha, b = beta, rc = release candidate) and an
// optional release number, e.g. "1.0.0", "1.0.0a1", "2.3.0rc3".
var releaseRE = regexp.MustCompile(`^(?P<base>[0-9]+\.[0-9]+\.[0-9]+)(?:a|b|rc)?[0-9]*$`)

// tagReplacer rewrites the release-type shorthand into the dotted form
// used by tag names.
var tagReplacer = strings.NewReplacer("rc", ".rc.", "a", ".alpha.", "b", ".beta.")

// IsRelease reports whether s is a release version string rather than a
// branch name. "main", "develop", and "ticket/DM-12345" are not releases.
func IsRelease(s string) bool {
	m := releaseRE.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	_, err := semver.NewVersion(m[1])
	return err == nil
}

// ExpandTag expands a release version string into its tag name:
//
//	1.0.0    → v1.0.0
//	1.0.0a1  → v1.0.0.alpha.1
//	1.0.0b5  → v1.0.0.beta.5
//	1.0.0rc3 → v1.0.0.rc.3
//
// Non-release strings (branch names) are returned unchanged.
func ExpandTag(s string) string {
	if !IsRelease(s) {
		return s
	}
	return tagReplacer.Replace("v" + s)
}

// Compare compares two release version strings using semver ordering.
// Returns -1 if a < b, 0 if equal, 1 if a > b.
func Compare(a, b string) (int, error) {
	av, err := parseSemver(a)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", a, err)
	}
	bv, err := parseSemver(b)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", b, err)
	}
	return av.Compare(bv), nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(v string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(v, "v"))
}
