// Package envdef parses environment version-definition files: the
// `name=version` line format used by the cycle build repository to pin
// the official version of every managed package.
package envdef

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// lineRE matches one definition line, e.g. "ts_standardscripts=1.2.3rc1".
var lineRE = regexp.MustCompile(`^(?P<name>[a-zA-Z0-9_]+)=(?P<version>[a-zA-Z0-9._/-]+)$`)

// Entry is one package pin from a definition file.
type Entry struct {
	Name    string
	Version string
}

// Definitions holds the parsed pins in file order with name lookup.
type Definitions struct {
	entries []Entry
	byName  map[string]string
}

// Entries returns the pins in file order.
func (d *Definitions) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Lookup returns the pinned version for a package name.
func (d *Definitions) Lookup(name string) (string, bool) {
	v, ok := d.byName[name]
	return v, ok
}

// Len returns the number of pins.
func (d *Definitions) Len() int { return len(d.entries) }

// ParseFile reads a definition file from disk.
func ParseFile(path string) (*Definitions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening version definitions %s: %w", path, err)
	}
	defer f.Close()

	defs := &Definitions{byName: make(map[string]string)}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := lineRE.FindStringSubmatch(line)
		if m == nil {
			// Definition files carry unrelated build variables too;
			// only well-formed name=version lines are taken.
			continue
		}
		name, version := m[1], m[2]
		if _, dup := defs.byName[name]; dup {
			return nil, fmt.Errorf("%s:%d: duplicate definition for %q", path, lineNo, name)
		}
		defs.entries = append(defs.entries, Entry{Name: name, Version: version})
		defs.byName[name] = version
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading version definitions %s: %w", path, err)
	}
	return defs, nil
}
