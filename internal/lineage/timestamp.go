// Package lineage aggregates raw lineage documents into per-entity state and
// projects that state into flat output rows.
package lineage

import "time"

// The endpoint emits zone-less timestamps, with or without fractional
// seconds. time.Parse accepts an input fraction even when the layout omits
// it, so one layout covers both shapes.
const lineageTimestampLayout = "2006-01-02 15:04:05"

// ParseLineageTimestamp parses a pipeline lineage timestamp. Unrecognized
// values report ok=false so callers skip the descriptor rather than fail the
// run.
func ParseLineageTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(lineageTimestampLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
