package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/obsenv-labs/obsenv/internal/actionlog"
	"github.com/obsenv-labs/obsenv/internal/envdef"
	"github.com/obsenv-labs/obsenv/internal/registry"
	"github.com/obsenv-labs/obsenv/internal/setupfile"
	"github.com/obsenv-labs/obsenv/internal/telemetry"
	"github.com/obsenv-labs/obsenv/internal/version"
)

// Outcome is the caller-visible result of one action.
type Outcome struct {
	Status       actionlog.Status
	Message      string
	ArtifactPath string   // set by Setup
	Warnings     []string // non-fatal problems (e.g. unresolved packages)
}

// Config wires a Manager together.
type Config struct {
	Registry  *registry.Registry
	Generator *setupfile.Generator
	ActionLog *actionlog.Logger
	Summary   actionlog.Emitter // optional; receives post-setup summary events
	EnvRoot   string            // where package installs live on the host
	User      string            // attribution for records; CurrentUser() if empty
	Clock     func() time.Time  // time.Now if nil
	Logger    *slog.Logger      // slog.Default if nil
}

// Manager owns the environment registry for the process lifetime and
// serializes all operations behind one lock.
type Manager struct {
	mu      sync.Mutex
	reg     *registry.Registry
	gen     *setupfile.Generator
	log     *actionlog.Logger
	summary actionlog.Emitter
	envRoot string
	user    string
	now     func() time.Time
	slog    *slog.Logger
}

// New builds a Manager from the given configuration.
func New(cfg Config) *Manager {
	m := &Manager{
		reg:     cfg.Registry,
		gen:     cfg.Generator,
		log:     cfg.ActionLog,
		summary: cfg.Summary,
		envRoot: cfg.EnvRoot,
		user:    cfg.User,
		now:     cfg.Clock,
		slog:    cfg.Logger,
	}
	if m.reg == nil {
		m.reg = registry.New()
	}
	if m.user == "" {
		m.user = CurrentUser()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.slog == nil {
		m.slog = slog.Default()
	}
	return m
}

// CurrentUser resolves the acting user for record attribution. Setup
// actions commonly run under sudo, so SUDO_USER wins over USER.
func CurrentUser() string {
	if u := os.Getenv("SUDO_USER"); u != "" {
		return u
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "unknown"
}

// Setup generates the setup artifact for the current registry and
// reports the post-setup package versions to the telemetry store.
func (m *Manager) Setup(ctx context.Context) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := m.now()
	names := m.reg.Names()

	if m.reg.Len() == 0 {
		return m.fail(ctx, "setup", names, start, setupfile.ErrNoPackages)
	}

	res, err := m.gen.Generate(m.reg.List(), start, m.user)
	if err != nil {
		return m.fail(ctx, "setup", names, start, err)
	}

	out := Outcome{
		Status:       actionlog.StatusSuccess,
		ArtifactPath: res.Path,
		Message:      fmt.Sprintf("setup file written to %s (%d packages)", res.Path, len(res.Written)),
	}
	if res.Partial() {
		out.Status = actionlog.StatusPartial
		for _, name := range res.Skipped {
			out.Warnings = append(out.Warnings, fmt.Sprintf("package %s has no resolved install path; skipped", name))
		}
		out.Message = fmt.Sprintf("setup file written to %s (%d packages, %d skipped)",
			res.Path, len(res.Written), len(res.Skipped))
	}

	if err := m.logAction(ctx, "setup", names, out.Status, out.Message, start); err != nil {
		return Outcome{Status: actionlog.StatusFailure, Message: err.Error()}, err
	}
	m.submitSummary(ctx, start)
	return out, nil
}

// AddPackage registers a new managed package.
func (m *Manager) AddPackage(ctx context.Context, p registry.ManagedPackage) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := m.now()
	targets := []string{p.Name}

	if p.Name == "" {
		return m.fail(ctx, "add-package", targets, start, fmt.Errorf("package name must not be empty"))
	}
	if _, err := registry.ParseKind(p.Kind.String()); err != nil {
		return m.fail(ctx, "add-package", targets, start, err)
	}
	if err := m.reg.Add(p); err != nil {
		return m.fail(ctx, "add-package", targets, start, err)
	}

	out := Outcome{
		Status:  actionlog.StatusSuccess,
		Message: fmt.Sprintf("package %s added (%s)", p.Name, p.Kind),
	}
	if err := m.logAction(ctx, "add-package", targets, out.Status, out.Message, start); err != nil {
		return Outcome{Status: actionlog.StatusFailure, Message: err.Error()}, err
	}
	return out, nil
}

// RemovePackage deletes a managed package by name.
func (m *Manager) RemovePackage(ctx context.Context, name string) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := m.now()
	targets := []string{name}

	if err := m.reg.Remove(name); err != nil {
		return m.fail(ctx, "remove-package", targets, start, err)
	}

	out := Outcome{
		Status:  actionlog.StatusSuccess,
		Message: fmt.Sprintf("package %s removed", name),
	}
	if err := m.logAction(ctx, "remove-package", targets, out.Status, out.Message, start); err != nil {
		return Outcome{Status: actionlog.StatusFailure, Message: err.Error()}, err
	}
	return out, nil
}

// ApplyVersions resolves registry entries against pinned version
// definitions. Packages with no pin are reported as warnings and leave
// the action in partial-failure; nothing is rolled back.
func (m *Manager) ApplyVersions(ctx context.Context, defs *envdef.Definitions) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := m.now()
	names := m.reg.Names()

	if m.reg.Len() == 0 {
		return m.fail(ctx, "apply-versions", names, start, setupfile.ErrNoPackages)
	}

	var applied, missing []string
	for _, p := range m.reg.List() {
		pin, ok := defs.Lookup(p.Name)
		if !ok {
			missing = append(missing, p.Name)
			continue
		}
		installPath := ""
		if dir := filepath.Join(m.envRoot, p.Name); isDir(dir) {
			installPath = dir
		}
		if err := m.reg.Resolve(p.Name, pin, installPath); err != nil {
			return m.fail(ctx, "apply-versions", names, start, err)
		}
		if version.IsRelease(pin) {
			m.slog.Debug("release pin applied", "package", p.Name, "version", pin, "tag", version.ExpandTag(pin))
		} else {
			m.slog.Debug("branch pin applied", "package", p.Name, "branch", pin)
		}
		applied = append(applied, p.Name)
	}

	out := Outcome{
		Status:  actionlog.StatusSuccess,
		Message: fmt.Sprintf("%d package versions applied", len(applied)),
	}
	if len(missing) > 0 {
		out.Status = actionlog.StatusPartial
		out.Message = fmt.Sprintf("%d package versions applied, %d without definitions", len(applied), len(missing))
		for _, name := range missing {
			out.Warnings = append(out.Warnings, fmt.Sprintf("no version definition for package %s", name))
		}
	}

	if err := m.logAction(ctx, "apply-versions", applied, out.Status, out.Message, start); err != nil {
		return Outcome{Status: actionlog.StatusFailure, Message: err.Error()}, err
	}
	return out, nil
}

// ListPackages returns a snapshot of the registry. Like every other
// action it is recorded in the action log.
func (m *Manager) ListPackages(ctx context.Context) ([]registry.ManagedPackage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := m.now()
	pkgs := m.reg.List()
	msg := fmt.Sprintf("%d packages listed", len(pkgs))
	if err := m.logAction(ctx, "list-packages", m.reg.Names(), actionlog.StatusSuccess, msg, start); err != nil {
		return nil, err
	}
	return pkgs, nil
}

// Versions reports the resolved version of every package, in registry
// order keyed by name. Unresolved packages report "unresolved".
func (m *Manager) Versions() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versionsLocked()
}

func (m *Manager) versionsLocked() map[string]string {
	out := make(map[string]string, m.reg.Len())
	for _, p := range m.reg.List() {
		v := p.Version
		if v == "" {
			v = "unresolved"
		}
		out[p.Name] = v
	}
	return out
}

// fail records a failure and surfaces the original error.
func (m *Manager) fail(ctx context.Context, action string, targets []string, start time.Time, cause error) (Outcome, error) {
	out := Outcome{Status: actionlog.StatusFailure, Message: cause.Error()}
	if logErr := m.logAction(ctx, action, targets, out.Status, cause.Error(), start); logErr != nil {
		return out, errors.Join(cause, logErr)
	}
	return out, cause
}

func (m *Manager) logAction(ctx context.Context, action string, targets []string, status actionlog.Status, detail string, start time.Time) error {
	return m.log.Log(ctx, actionlog.Record{
		Action:    action,
		Timestamp: start,
		Packages:  targets,
		Status:    status,
		Detail:    detail,
		Duration:  m.now().Sub(start),
	})
}

// submitSummary emits the post-setup version summary. Best effort, like
// all telemetry.
func (m *Manager) submitSummary(ctx context.Context, ts time.Time) {
	if m.summary == nil {
		return
	}
	result := m.summary.Submit(ctx, telemetry.SummaryEvent{Timestamp: ts, Versions: m.versionsLocked()})
	if !result.OK {
		m.slog.Warn("summary emission failed", "error", result.Err)
	}
}

func isDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
