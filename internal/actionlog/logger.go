package actionlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/obsenv-labs/obsenv/internal/telemetry"
)

// Status is the terminal outcome of one management action.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial-failure"
	StatusFailure Status = "failure"
)

// Record is the immutable description of one invoked action.
type Record struct {
	Action    string
	Timestamp time.Time
	Packages  []string
	Status    Status
	Detail    string
	Duration  time.Duration
}

// Emitter is the telemetry-store collaborator. Submit never returns a
// Go error; the Result carries the outcome.
type Emitter interface {
	Submit(ctx context.Context, ev telemetry.Event) telemetry.Result
}

// Logger writes action records to the summary file and the telemetry
// store.
type Logger struct {
	SummaryPath string
	Emitter     Emitter // nil disables telemetry emission
	User        string
	Logger      *slog.Logger
}

// New returns a logger appending to summaryPath. A nil slog logger
// falls back to slog.Default().
func New(summaryPath string, emitter Emitter, user string, logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{SummaryPath: summaryPath, Emitter: emitter, User: user, Logger: logger}
}

// Log records one action. The summary append must succeed or the whole
// operation is considered failed; the telemetry emission is best effort
// and its failure only adds a warning line.
func (l *Logger) Log(ctx context.Context, rec Record) error {
	if err := l.appendLine(formatRecord(rec)); err != nil {
		return fmt.Errorf("writing summary log %s: %w", l.SummaryPath, err)
	}

	if l.Emitter == nil {
		return nil
	}

	result := l.Emitter.Submit(ctx, telemetry.ActionEvent{
		Timestamp: rec.Timestamp,
		Action:    rec.Action,
		Packages:  rec.Packages,
		Status:    string(rec.Status),
		User:      l.User,
	})
	if !result.OK {
		l.Logger.Warn("telemetry emission failed", "action", rec.Action, "error", result.Err)
		warning := fmt.Sprintf("%s WARNING telemetry emission failed for action %q: %v",
			rec.Timestamp.UTC().Format(time.RFC3339), rec.Action, result.Err)
		if err := l.appendLine(warning); err != nil {
			// The record itself is already on disk; nothing more to do.
			l.Logger.Warn("could not append telemetry warning", "error", err)
		}
	}
	return nil
}

// appendLine appends one line to the summary file, creating it on first
// use.
func (l *Logger) appendLine(line string) error {
	f, err := os.OpenFile(l.SummaryPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(f, line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// formatRecord renders one human-readable summary line.
func formatRecord(rec Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s action=%s status=%s",
		rec.Timestamp.UTC().Format(time.RFC3339), rec.Action, rec.Status)
	if len(rec.Packages) > 0 {
		fmt.Fprintf(&b, " packages=[%s]", strings.Join(rec.Packages, ","))
	}
	if rec.Duration > 0 {
		fmt.Fprintf(&b, " duration=%s", rec.Duration.Round(time.Millisecond))
	}
	if rec.Detail != "" {
		fmt.Fprintf(&b, " detail=%q", rec.Detail)
	}
	return b.String()
}
