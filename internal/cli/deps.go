package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/obsenv-labs/obsenv/internal/actionlog"
	"github.com/obsenv-labs/obsenv/internal/branding"
	"github.com/obsenv-labs/obsenv/internal/config"
	"github.com/obsenv-labs/obsenv/internal/manager"
	"github.com/obsenv-labs/obsenv/internal/packlist"
	"github.com/obsenv-labs/obsenv/internal/registry"
	"github.com/obsenv-labs/obsenv/internal/setupfile"
	"github.com/obsenv-labs/obsenv/internal/telemetry"
)

// envPath resolves the environment root: flag first, then config.
func envPath() string {
	if flagEnvPath != "" {
		return flagEnvPath
	}
	return config.Get(config.KeyEnvPath)
}

// packagesPath resolves the package-list file: flag first, then the
// config directory default.
func packagesPath() string {
	if flagPackages != "" {
		return flagPackages
	}
	return filepath.Join(config.Dir(), "packages.yaml")
}

// newTelemetryClient returns nil when no proxy URL is configured;
// telemetry is then disabled and the action log notes nothing.
func newTelemetryClient() *telemetry.Client {
	url := config.Get(config.KeyTelemetryURL)
	if url == "" {
		return nil
	}
	return telemetry.NewClient(url, branding.TopicNamespace(),
		config.GetDuration(config.KeyTelemetryTimeout), slog.Default())
}

// newManager seeds the registry from the package list and wires the
// generator, action log, and telemetry client together.
func newManager() (*manager.Manager, error) {
	path := packagesPath()
	pkgs, err := packlist.Load(path)
	if err != nil {
		return nil, fmt.Errorf("seeding registry: %w", err)
	}
	reg, err := registry.Seed(pkgs)
	if err != nil {
		return nil, fmt.Errorf("seeding registry from %s: %w", path, err)
	}

	dialect, err := setupfile.ParseDialect(config.Get(config.KeySetupDialect))
	if err != nil {
		return nil, err
	}

	client := newTelemetryClient()
	var emitter actionlog.Emitter
	if client != nil {
		emitter = client
	}

	user := manager.CurrentUser()
	return manager.New(manager.Config{
		Registry:  reg,
		Generator: &setupfile.Generator{Dir: envPath(), FileName: config.Get(config.KeySetupFileName), Dialect: dialect},
		ActionLog: actionlog.New(config.Get(config.KeySummaryLog), emitter, user, slog.Default()),
		Summary:   emitter,
		EnvRoot:   envPath(),
		User:      user,
	}), nil
}

// printWarnings writes outcome warnings to stderr.
func printWarnings(out manager.Outcome) {
	for _, w := range out.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
}
