package packlist

import (
	"fmt"
	"os"

	"github.com/obsenv-labs/obsenv/internal/registry"
	"go.yaml.in/yaml/v3"
)

// Entry is one package declaration from the list file.
type Entry struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	Version string `yaml:"version,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// File is the top-level structure of the package-list file.
type File struct {
	Packages []Entry `yaml:"packages"`
}

// Load reads, validates, and decodes a package-list file, returning
// managed packages in file order.
func Load(path string) ([]registry.ManagedPackage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading package list %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates raw YAML against the embedded schema and decodes it.
func Parse(data []byte) ([]registry.ManagedPackage, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, fmt.Errorf("invalid package list:\n%s", result.Format())
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing package list YAML: %w", err)
	}

	pkgs := make([]registry.ManagedPackage, 0, len(file.Packages))
	for _, e := range file.Packages {
		kind, err := registry.ParseKind(e.Kind)
		if err != nil {
			return nil, fmt.Errorf("package %q: %w", e.Name, err)
		}
		pkgs = append(pkgs, registry.ManagedPackage{
			Name:        e.Name,
			Kind:        kind,
			Version:     e.Version,
			InstallPath: e.Path,
		})
	}
	return pkgs, nil
}
