// Package observability provides the event log, planning metrics, schedule
// alerts, and the zerolog logger for the time optimizer. Events are stored as
// JSON Lines (JSONL) and metrics are derived on demand from them.
package observability
