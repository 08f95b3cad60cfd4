package taxlots

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// TimestampFormat is the canonical format of event timestamps: UTC with
// millisecond precision.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// decimalField keeps the raw text of a decimal field so that it is parsed by
// the engine, never by a float64 conversion.
type decimalField struct {
	raw string
	set bool
}

func (f *decimalField) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	f.set = true
	if len(b) > 1 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f.raw = s
		return nil
	}
	f.raw = string(b)
	return nil
}

// eventRecord is the JSONL layout of a ledger event.
type eventRecord struct {
	ID         string       `json:"id"`
	Type       string       `json:"type"`
	AssetID    string       `json:"assetId"`
	Timestamp  string       `json:"timestamp"`
	Amount     decimalField `json:"amount"`
	Proceeds   decimalField `json:"proceeds"`
	CostBasis  decimalField `json:"costBasis"`
	Fee        decimalField `json:"fee"`
	FMVTotal   decimalField `json:"fmvTotal"`
	FMVPerUnit decimalField `json:"fmvPerUnit"`
	Supersedes string       `json:"supersedes"`
	Deleted    bool         `json:"deleted"`
}

// event converts the record, reporting malformed fields as *ValidationError.
func (r eventRecord) event(line int) (LedgerEvent, error) {
	invalid := func(field, reason string) error {
		return &ValidationError{EventID: r.ID, Line: line, Field: field, Reason: reason}
	}
	e := LedgerEvent{
		ID:         r.ID,
		AssetID:    r.AssetID,
		Supersedes: r.Supersedes,
		Deleted:    r.Deleted,
	}
	t, err := ParseEventType(r.Type)
	if err != nil {
		return e, invalid("type", err.Error())
	}
	e.Type = t

	e.Timestamp, err = time.Parse(time.RFC3339Nano, r.Timestamp)
	if err != nil {
		return e, invalid("timestamp", fmt.Sprintf("not an RFC 3339 timestamp: %q", r.Timestamp))
	}
	e.Timestamp = e.Timestamp.UTC()

	if !r.Amount.set {
		return e, invalid("amount", "missing")
	}
	if e.Amount, err = ParseQuantity(r.Amount.raw); err != nil {
		return e, invalid("amount", err.Error())
	}
	for _, f := range []struct {
		name string
		raw  decimalField
		dst  **Money
	}{
		{"proceeds", r.Proceeds, &e.Proceeds},
		{"costBasis", r.CostBasis, &e.CostBasis},
		{"fee", r.Fee, &e.Fee},
		{"fmvTotal", r.FMVTotal, &e.FMVTotal},
		{"fmvPerUnit", r.FMVPerUnit, &e.FMVPerUnit},
	} {
		if !f.raw.set {
			continue
		}
		m, err := ParseMoney(f.raw.raw)
		if err != nil {
			return e, invalid(f.name, err.Error())
		}
		*f.dst = &m
	}
	return e, nil
}

// DecodeEvents decodes ledger events from a stream of JSONL data. Events are
// returned in stream order; use Normalize to get the canonical sequence.
//
// Malformed lines abort the decoding with a *ValidationError.
func DecodeEvents(r io.Reader) ([]LedgerEvent, error) {
	var events []LedgerEvent
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := bytes.TrimSpace(scanner.Bytes())
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var rec eventRecord
		dec := json.NewDecoder(bytes.NewReader(lineBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&rec); err != nil {
			return nil, &ValidationError{Line: line, Reason: err.Error()}
		}
		e, err := rec.event(line)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return events, nil
}

// MarshalJSON writes the event in its JSONL layout with a stable field order.
func (e LedgerEvent) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", e.ID)
	w.Append("type", e.Type)
	w.Append("assetId", e.AssetID)
	w.Append("timestamp", e.Timestamp.UTC().Format(TimestampFormat))
	w.Append("amount", e.Amount)
	w.Optional("proceeds", e.Proceeds)
	w.Optional("costBasis", e.CostBasis)
	w.Optional("fee", e.Fee)
	w.Optional("fmvTotal", e.FMVTotal)
	w.Optional("fmvPerUnit", e.FMVPerUnit)
	w.Optional("supersedes", e.Supersedes)
	w.Optional("deleted", e.Deleted)
	return w.MarshalJSON()
}

// EncodeEvents writes events to w in JSONL format, one event per line.
func EncodeEvents(w io.Writer, events []LedgerEvent) error {
	for _, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal event %q: %w", e.ID, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write event: %w", err)
		}
	}
	return nil
}
