package setupfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/obsenv-labs/obsenv/internal/registry"
)

// ErrNoPackages is returned when generation is requested for an empty
// registry. An empty environment is a caller error, not a silent no-op.
var ErrNoPackages = errors.New("no managed packages to generate a setup file for")

// DefaultFileName is the conventional artifact name sourced by user
// notebook setups.
const DefaultFileName = "auto_env_setup.sh"

// Dialect selects the shell syntax of the generated artifact.
type Dialect string

const (
	DialectBash Dialect = "bash"
	DialectCsh  Dialect = "csh"
)

// ParseDialect validates a dialect string from configuration.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case "":
		return DialectBash, nil
	case DialectBash, DialectCsh:
		return Dialect(s), nil
	}
	return "", fmt.Errorf("unknown shell dialect %q (valid: bash, csh)", s)
}

func (d Dialect) shebang() string {
	if d == DialectCsh {
		return "#!/bin/csh -f"
	}
	return "#!/usr/bin/env bash"
}

// exportVar renders a variable assignment in the dialect's syntax.
func (d Dialect) exportVar(name, value string) string {
	if d == DialectCsh {
		return fmt.Sprintf("setenv %s %s", name, value)
	}
	return fmt.Sprintf("export %s=%s", name, value)
}

// Generator writes the setup artifact for a set of managed packages.
type Generator struct {
	Dir      string  // destination directory
	FileName string  // artifact file name; DefaultFileName if empty
	Dialect  Dialect // DialectBash if empty
}

// Result describes one generation run.
type Result struct {
	Path    string   // final artifact path
	Written []string // names of packages with setup statements, in order
	Skipped []string // names of unresolved packages, in order
}

// Partial reports whether any package was skipped.
func (r *Result) Partial() bool { return len(r.Skipped) > 0 }

// statementsFor maps each package kind to its fixed statement template.
// The kind set is closed; adding a kind means extending this table and
// the registry enum together.
var statementsFor = map[registry.Kind]func(d Dialect, p registry.ManagedPackage) []string{
	registry.KindCoreControl: func(d Dialect, p registry.ManagedPackage) []string {
		return []string{
			fmt.Sprintf("setup -j %s -r %s", p.Name, p.InstallPath),
			d.exportVar(envName(p.Name)+"_DIR", p.InstallPath),
		}
	},
	registry.KindInstrumentScripts: func(d Dialect, p registry.ManagedPackage) []string {
		return []string{
			fmt.Sprintf("setup -j %s -r %s", p.Name, p.InstallPath),
			d.exportVar("PATH", p.InstallPath+"/scripts:${PATH}"),
		}
	},
	registry.KindConfigPackage: func(d Dialect, p registry.ManagedPackage) []string {
		return []string{
			d.exportVar(envName(p.Name)+"_CONFIG_PATH", p.InstallPath),
		}
	},
}

// envName converts a package name into its environment-variable form.
func envName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// Generate renders and atomically writes the setup artifact. Packages
// appear in the given order; unresolved packages are skipped and named
// in trailing warning comments. The clock and user are supplied by the
// caller so output is reproducible.
func (g *Generator) Generate(pkgs []registry.ManagedPackage, now time.Time, user string) (*Result, error) {
	if len(pkgs) == 0 {
		return nil, ErrNoPackages
	}

	fileName := g.FileName
	if fileName == "" {
		fileName = DefaultFileName
	}
	dialect := g.Dialect
	if dialect == "" {
		dialect = DialectBash
	}
	result := &Result{Path: filepath.Join(g.Dir, fileName)}

	var b strings.Builder
	fmt.Fprintf(&b, `%s
# This file is auto generated by the obsenv environment manager.
# It is sourced to configure the observing environment.
# Do not modify!
# Created at %s UTC by %s

`, dialect.shebang(), now.UTC().Format("2006-01-02 15:04:05"), user)

	for _, p := range pkgs {
		if !p.Resolved() {
			result.Skipped = append(result.Skipped, p.Name)
			continue
		}
		render, ok := statementsFor[p.Kind]
		if !ok {
			return nil, fmt.Errorf("no statement template for package kind %q", p.Kind)
		}
		for _, line := range render(dialect, p) {
			b.WriteString(line)
			b.WriteString("\n")
		}
		result.Written = append(result.Written, p.Name)
	}

	if len(result.Skipped) > 0 {
		b.WriteString("\n")
		for _, name := range result.Skipped {
			fmt.Fprintf(&b, "# WARNING: package %s has no resolved install path and was skipped.\n", name)
		}
		fmt.Fprintf(&b, "# WARNING: setup file is incomplete (%d of %d packages skipped).\n",
			len(result.Skipped), len(pkgs))
	}

	if err := writeAtomic(g.Dir, result.Path, b.String()); err != nil {
		return nil, err
	}
	return result, nil
}

// writeAtomic writes content to a temp file in dir and renames it over
// the final path, replacing any previous artifact in one step.
func writeAtomic(dir, path, content string) error {
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("creating temp setup file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("writing setup file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("setting setup file permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing setup file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("moving setup file into place: %w", err)
	}
	return nil
}
