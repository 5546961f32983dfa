// Package branding provides compile-time identity values for the CLI.
//
// Deployments that rename the tool edit branding.yaml and rebuild;
// Go's //go:embed bakes the values into the binary.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName        string `yaml:"cli_name"`
	DisplayName    string `yaml:"display_name"`
	Description    string `yaml:"description"`
	HomeDir        string `yaml:"home_dir"`
	EnvPrefix      string `yaml:"env_prefix"`
	GoModule       string `yaml:"go_module"`
	TopicNamespace string `yaml:"topic_namespace"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:        "obsenv",
			DisplayName:    "ObsEnv",
			Description:    "Observing environment manager for the telescope control stack",
			HomeDir:        ".obsenv",
			EnvPrefix:      "OBSENV",
			GoModule:       "github.com/obsenv-labs/obsenv",
			TopicNamespace: "lsst.obsenv",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "obsenv").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "ObsEnv").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".obsenv").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "OBSENV").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path.
func GoModule() string { load(); return defaults.GoModule }

// TopicNamespace returns the telemetry topic namespace (e.g., "lsst.obsenv").
func TopicNamespace() string { load(); return defaults.TopicNamespace }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "OBSENV_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
