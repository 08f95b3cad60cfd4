package taxlots

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input. It is fatal: replay and report
// calls return no partial output with it.
type ValidationError struct {
	EventID string // empty when the event could not be identified
	Line    int    // 1-based line in the ledger stream, 0 when not decoded from a stream
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	var where string
	switch {
	case e.EventID != "":
		where = fmt.Sprintf("event %q", e.EventID)
	case e.Line > 0:
		where = fmt.Sprintf("line %d", e.Line)
	default:
		where = "event"
	}
	if e.Field == "" {
		return fmt.Sprintf("invalid %s: %s", where, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s: %s", where, e.Field, e.Reason)
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Warning codes. Warnings reflect imperfect history, not corrupt input.
const (
	WarnMissingFMV       = "tax_income_missing_fmv"
	WarnInsufficientLots = "insufficient_lots"
)

// Warning is a non fatal condition accumulated during a call.
type Warning struct {
	Code    string
	EventID string
}

// String returns the "code:eventId" form.
func (w Warning) String() string { return w.Code + ":" + w.EventID }

func (w Warning) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

// warnings accumulates warnings, dropping duplicates and keeping the first
// occurrence order.
type warnings struct {
	list []Warning
	seen map[Warning]struct{}
}

func (ws *warnings) add(w ...Warning) {
	if ws.seen == nil {
		ws.seen = make(map[Warning]struct{})
	}
	for _, x := range w {
		if _, ok := ws.seen[x]; ok {
			continue
		}
		ws.seen[x] = struct{}{}
		ws.list = append(ws.list, x)
	}
}
