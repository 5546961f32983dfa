// Package telemetry emits structured action records to the observatory
// telemetry store through its Kafka REST proxy. Emission is best effort:
// Submit returns a Result instead of an error so callers consume the
// outcome explicitly, and every request is bounded by a short timeout.
// Lost telemetry events are acceptable; they are never retried.
package telemetry
