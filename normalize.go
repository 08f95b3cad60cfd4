package taxlots

import (
	"slices"
)

// Normalize validates events and returns the canonical active sequence:
// deleted and superseded events are dropped and the remainder is sorted by
// timestamp, ties broken by the original position in events.
//
// Any structural problem aborts with a *ValidationError and no output.
// events is not modified.
func Normalize(events []LedgerEvent, policy TransferPolicy) ([]LedgerEvent, error) {
	for i, e := range events {
		if err := validateEvent(e, policy); err != nil {
			if err.EventID == "" {
				err.Line = i + 1
			}
			return nil, err
		}
	}

	// The last occurrence of an id is its latest edit.
	last := make(map[string]int, len(events))
	for i, e := range events {
		last[e.ID] = i
	}
	// Only the latest edit of an id counts, and it can only replace an event
	// written before it.
	superseded := make(map[string]struct{})
	for i, e := range events {
		if last[e.ID] != i || e.Supersedes == "" || e.Supersedes == e.ID {
			continue
		}
		if target, ok := last[e.Supersedes]; ok && target < i {
			superseded[e.Supersedes] = struct{}{}
		}
	}

	active := make([]LedgerEvent, 0, len(events))
	for i, e := range events {
		if last[e.ID] != i {
			continue
		}
		if _, ok := superseded[e.ID]; ok {
			continue
		}
		if e.Deleted {
			continue
		}
		e.Seq = i
		active = append(active, e)
	}

	slices.SortStableFunc(active, func(a, b LedgerEvent) int {
		switch {
		case a.before(b):
			return -1
		case b.before(a):
			return 1
		default:
			return 0
		}
	})
	return active, nil
}

// validateEvent checks the structure of a single event.
func validateEvent(e LedgerEvent, policy TransferPolicy) *ValidationError {
	invalid := func(field, reason string) *ValidationError {
		return &ValidationError{EventID: e.ID, Field: field, Reason: reason}
	}
	if e.ID == "" {
		return invalid("id", "missing")
	}
	if !e.Type.Valid() {
		return invalid("type", "unknown event type")
	}
	if e.AssetID == "" {
		return invalid("assetId", "missing")
	}
	if e.Timestamp.IsZero() {
		return invalid("timestamp", "missing")
	}
	class, err := policy.Classify(e.Type)
	if err != nil {
		return invalid("type", err.Error())
	}
	if class == ClassAcquisition && e.Amount.IsNegative() {
		return invalid("amount", "negative amount on an acquisition")
	}
	// Lots never carry a negative cost basis. Proceeds and fees are free.
	for _, f := range []struct {
		name  string
		value *Money
	}{
		{"costBasis", e.CostBasis},
		{"fmvTotal", e.FMVTotal},
		{"fmvPerUnit", e.FMVPerUnit},
	} {
		if f.value != nil && f.value.IsNegative() {
			return invalid(f.name, "negative value")
		}
	}
	return nil
}
