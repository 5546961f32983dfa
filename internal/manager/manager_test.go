package manager

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/obsenv-labs/obsenv/internal/actionlog"
	"github.com/obsenv-labs/obsenv/internal/envdef"
	"github.com/obsenv-labs/obsenv/internal/registry"
	"github.com/obsenv-labs/obsenv/internal/setupfile"
	"github.com/obsenv-labs/obsenv/internal/telemetry"
)

var (
	discard = slog.New(slog.NewTextHandler(io.Discard, nil))
	testNow = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
)

// stubEmitter records submitted events and returns a canned result.
type stubEmitter struct {
	events []telemetry.Event
	result telemetry.Result
}

func (s *stubEmitter) Submit(_ context.Context, ev telemetry.Event) telemetry.Result {
	s.events = append(s.events, ev)
	return s.result
}

type fixture struct {
	manager *Manager
	emitter *stubEmitter
	logPath string
	envDir  string
}

func newFixture(t *testing.T, pkgs []registry.ManagedPackage) *fixture {
	t.Helper()
	reg, err := registry.Seed(pkgs)
	if err != nil {
		t.Fatal(err)
	}

	envDir := t.TempDir()
	logPath := filepath.Join(t.TempDir(), "actions.log")
	emitter := &stubEmitter{result: telemetry.Result{OK: true}}

	m := New(Config{
		Registry:  reg,
		Generator: &setupfile.Generator{Dir: envDir},
		ActionLog: actionlog.New(logPath, emitter, "operator", discard),
		Summary:   emitter,
		EnvRoot:   envDir,
		User:      "operator",
		Clock:     func() time.Time { return testNow },
		Logger:    discard,
	})
	return &fixture{manager: m, emitter: emitter, logPath: logPath, envDir: envDir}
}

func (f *fixture) summaryLines(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(f.logPath)
	if err != nil {
		t.Fatalf("reading summary log: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func twoResolvedPackages() []registry.ManagedPackage {
	return []registry.ManagedPackage{
		{Name: "core-ctrl", Kind: registry.KindCoreControl, Version: "1.0.0", InstallPath: "/opt/core"},
		{Name: "maintel-scripts", Kind: registry.KindInstrumentScripts, Version: "2.0.0", InstallPath: "/opt/maintel"},
	}
}

func TestSetupEndToEnd(t *testing.T) {
	f := newFixture(t, twoResolvedPackages())

	out, err := f.manager.Setup(context.Background())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if out.Status != actionlog.StatusSuccess {
		t.Errorf("status = %s, want success", out.Status)
	}
	if out.ArtifactPath == "" {
		t.Fatal("missing artifact path")
	}

	data, err := os.ReadFile(out.ArtifactPath)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	content := string(data)
	core := strings.Index(content, "setup -j core-ctrl -r /opt/core")
	maintel := strings.Index(content, "setup -j maintel-scripts -r /opt/maintel")
	if core == -1 || maintel == -1 || core > maintel {
		t.Errorf("artifact statements missing or out of order:\n%s", content)
	}

	// One success entry in the local log.
	lines := f.summaryLines(t)
	if len(lines) != 1 || !strings.Contains(lines[0], "action=setup") || !strings.Contains(lines[0], "status=success") {
		t.Errorf("unexpected summary log: %v", lines)
	}

	// Action event names both target packages, then the summary event.
	if len(f.emitter.events) != 2 {
		t.Fatalf("expected action + summary events, got %d", len(f.emitter.events))
	}
	action := f.emitter.events[0].(telemetry.ActionEvent)
	if len(action.Packages) != 2 || action.Packages[0] != "core-ctrl" || action.Packages[1] != "maintel-scripts" {
		t.Errorf("unexpected action targets: %v", action.Packages)
	}
	summary := f.emitter.events[1].(telemetry.SummaryEvent)
	if summary.Versions["core-ctrl"] != "1.0.0" {
		t.Errorf("unexpected summary: %v", summary.Versions)
	}
}

func TestSetupEmptyRegistryFails(t *testing.T) {
	f := newFixture(t, nil)

	out, err := f.manager.Setup(context.Background())
	if !errors.Is(err, setupfile.ErrNoPackages) {
		t.Fatalf("expected ErrNoPackages, got %v", err)
	}
	if out.Status != actionlog.StatusFailure {
		t.Errorf("status = %s, want failure", out.Status)
	}

	// No artifact written.
	if _, statErr := os.Stat(filepath.Join(f.envDir, setupfile.DefaultFileName)); !os.IsNotExist(statErr) {
		t.Error("artifact should not exist after failed setup")
	}

	// One failure record logged.
	lines := f.summaryLines(t)
	if len(lines) != 1 || !strings.Contains(lines[0], "status=failure") {
		t.Errorf("unexpected summary log: %v", lines)
	}
}

func TestSetupPartialFailureOnUnresolved(t *testing.T) {
	pkgs := append(twoResolvedPackages(),
		registry.ManagedPackage{Name: "ts_wep", Kind: registry.KindCoreControl})
	f := newFixture(t, pkgs)

	out, err := f.manager.Setup(context.Background())
	if err != nil {
		t.Fatalf("partial result must not surface as error: %v", err)
	}
	if out.Status != actionlog.StatusPartial {
		t.Errorf("status = %s, want partial-failure", out.Status)
	}
	if len(out.Warnings) != 1 || !strings.Contains(out.Warnings[0], "ts_wep") {
		t.Errorf("unexpected warnings: %v", out.Warnings)
	}
	if out.ArtifactPath == "" {
		t.Error("partial setup should still return the artifact")
	}

	lines := f.summaryLines(t)
	if !strings.Contains(lines[0], "status=partial-failure") {
		t.Errorf("unexpected summary line: %v", lines[0])
	}
}

func TestSetupTelemetryFailureDoesNotChangeStatus(t *testing.T) {
	f := newFixture(t, twoResolvedPackages())
	f.emitter.result = telemetry.Result{Err: errors.New("proxy down")}

	out, err := f.manager.Setup(context.Background())
	if err != nil {
		t.Fatalf("telemetry outage must be silent: %v", err)
	}
	if out.Status != actionlog.StatusSuccess {
		t.Errorf("status = %s, want success despite telemetry outage", out.Status)
	}

	// Record line plus exactly one warning line.
	lines := f.summaryLines(t)
	warnings := 0
	for _, l := range lines {
		if strings.Contains(l, "WARNING telemetry emission failed") {
			warnings++
		}
	}
	if warnings != 1 {
		t.Errorf("expected exactly one warning line, got %d in %v", warnings, lines)
	}
}

func TestAddPackage(t *testing.T) {
	f := newFixture(t, nil)

	out, err := f.manager.AddPackage(context.Background(), registry.ManagedPackage{
		Name: "ts_standardscripts", Kind: registry.KindInstrumentScripts,
	})
	if err != nil {
		t.Fatalf("AddPackage: %v", err)
	}
	if out.Status != actionlog.StatusSuccess {
		t.Errorf("status = %s", out.Status)
	}

	// Duplicate add fails, registry unchanged.
	_, err = f.manager.AddPackage(context.Background(), registry.ManagedPackage{
		Name: "ts_standardscripts", Kind: registry.KindInstrumentScripts,
	})
	var dup *registry.DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateNameError, got %v", err)
	}

	pkgs, err := f.manager.ListPackages(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(pkgs) != 1 {
		t.Errorf("registry size changed after failed add: %d", len(pkgs))
	}

	// Both attempts and the list are on the audit trail.
	lines := f.summaryLines(t)
	if len(lines) != 3 {
		t.Errorf("expected 3 audit lines, got %d: %v", len(lines), lines)
	}
	if !strings.Contains(lines[1], "status=failure") {
		t.Errorf("duplicate add should log a failure: %v", lines[1])
	}
}

func TestAddPackageRejectsInvalid(t *testing.T) {
	f := newFixture(t, nil)

	if _, err := f.manager.AddPackage(context.Background(), registry.ManagedPackage{Kind: registry.KindCoreControl}); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := f.manager.AddPackage(context.Background(), registry.ManagedPackage{Name: "x", Kind: "notebooks"}); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestRemovePackage(t *testing.T) {
	f := newFixture(t, twoResolvedPackages())

	out, err := f.manager.RemovePackage(context.Background(), "core-ctrl")
	if err != nil {
		t.Fatalf("RemovePackage: %v", err)
	}
	if out.Status != actionlog.StatusSuccess {
		t.Errorf("status = %s", out.Status)
	}

	var nf *registry.NotFoundError
	if _, err := f.manager.RemovePackage(context.Background(), "core-ctrl"); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestApplyVersions(t *testing.T) {
	pkgs := []registry.ManagedPackage{
		{Name: "ts_wep", Kind: registry.KindCoreControl},
		{Name: "ts_config_ocs", Kind: registry.KindConfigPackage},
	}
	f := newFixture(t, pkgs)

	// ts_wep has an install dir under the environment root.
	if err := os.MkdirAll(filepath.Join(f.envDir, "ts_wep"), 0755); err != nil {
		t.Fatal(err)
	}

	defsPath := filepath.Join(t.TempDir(), "cycle.env")
	os.WriteFile(defsPath, []byte("ts_wep=1.2.3\n"), 0644)
	defs, err := envdef.ParseFile(defsPath)
	if err != nil {
		t.Fatal(err)
	}

	out, err := f.manager.ApplyVersions(context.Background(), defs)
	if err != nil {
		t.Fatalf("ApplyVersions: %v", err)
	}
	if out.Status != actionlog.StatusPartial {
		t.Errorf("status = %s, want partial-failure (ts_config_ocs unpinned)", out.Status)
	}
	if len(out.Warnings) != 1 || !strings.Contains(out.Warnings[0], "ts_config_ocs") {
		t.Errorf("unexpected warnings: %v", out.Warnings)
	}

	versions := f.manager.Versions()
	if versions["ts_wep"] != "1.2.3" {
		t.Errorf("version not applied: %v", versions)
	}
	if versions["ts_config_ocs"] != "unresolved" {
		t.Errorf("unpinned package should stay unresolved: %v", versions)
	}
}

func TestSetupDeterministicAcrossRuns(t *testing.T) {
	f := newFixture(t, twoResolvedPackages())

	out1, err := f.manager.Setup(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	first, _ := os.ReadFile(out1.ArtifactPath)

	out2, err := f.manager.Setup(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(out2.ArtifactPath)

	if string(first) != string(second) {
		t.Error("setup with unchanged registry is not byte-identical")
	}
}
