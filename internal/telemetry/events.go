package telemetry

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Event is one structured record bound for a telemetry topic. Schema
// returns the Avro record definition registered with the proxy.
type Event interface {
	Topic() string
	Schema() string
	Value() map[string]any
}

// ActionEvent records one management action: what was done, to which
// packages, with what outcome.
type ActionEvent struct {
	Timestamp time.Time
	Action    string
	Packages  []string
	Status    string
	User      string
}

// Topic returns the action topic suffix.
func (e ActionEvent) Topic() string { return "action" }

// Schema returns the Avro record schema for action events.
func (e ActionEvent) Schema() string {
	return `{"namespace": "lsst.obsenv", "type": "record", "name": "action", "fields": [` +
		`{"name": "timestamp", "type": "long"}, ` +
		`{"name": "action", "type": "string"}, ` +
		`{"name": "packages", "type": {"type": "array", "items": "string"}}, ` +
		`{"name": "status", "type": "string"}, ` +
		`{"name": "user", "type": "string"}]}`
}

// Value returns the record fields for serialization.
func (e ActionEvent) Value() map[string]any {
	return map[string]any{
		"timestamp": e.Timestamp.UnixMilli(),
		"action":    e.Action,
		"packages":  e.Packages,
		"status":    e.Status,
		"user":      e.User,
	}
}

// SummaryEvent records the resolved version of every managed package
// after a setup action.
type SummaryEvent struct {
	Timestamp time.Time
	Versions  map[string]string
}

// Topic returns the summary topic suffix.
func (e SummaryEvent) Topic() string { return "summary" }

// Schema returns the Avro record schema for summary events.
func (e SummaryEvent) Schema() string {
	return `{"namespace": "lsst.obsenv", "type": "record", "name": "summary", "fields": [` +
		`{"name": "timestamp", "type": "long"}, ` +
		`{"name": "versions", "type": {"type": "map", "values": "string"}}]}`
}

// Value returns the record fields for serialization.
func (e SummaryEvent) Value() map[string]any {
	return map[string]any{
		"timestamp": e.Timestamp.UnixMilli(),
		"versions":  e.Versions,
	}
}

// String renders the version map in stable order for log lines.
func (e SummaryEvent) String() string {
	names := make([]string, 0, len(e.Versions))
	for name := range e.Versions {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%s", name, e.Versions[name]))
	}
	return strings.Join(parts, " ")
}
