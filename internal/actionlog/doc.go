// Package actionlog records every management action to two independent
// sinks: an append-only local summary file, which is the audit trail of
// record and must always succeed, and the remote telemetry store, which
// is best effort. A telemetry failure is downgraded to a warning line in
// the summary file and never reaches the caller.
package actionlog
