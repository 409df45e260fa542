package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// RunTrace is the canonical, deterministic record of a pipeline run.
//
// Invariants:
//   - Must capture the graph hash and an ordered list of events.
//   - Must contain logical transitions/decisions, not runtime-dependent details.
//   - Must not include timestamps, pointers, or any runtime-dependent values.
//
// Canonical representation:
//   - Events are sorted via Canonicalize() using a fully-specified ordering.
//   - JSON serialization uses a custom marshaler to fix field order and omit
//     absent optional fields.
//
// Any consumer producing traces should treat RunTrace as immutable once
// Canonicalize() is called. The trace is observational only and must never
// affect execution behavior.
type RunTrace struct {
	GraphHash string
	Events    []Event
}

// EventKind is the stable, canonical discriminator for Event.
//
// The string values are part of the trace's canonical bytes; do not rename.
type EventKind string

const (
	EventStageExecuted EventKind = "StageExecuted"
	EventStageFailed   EventKind = "StageFailed"
	EventStageSkipped  EventKind = "StageSkipped"
)

// Event is a single logical transition/decision.
//
// Determinism constraints:
//   - No timestamps.
//   - No error strings / stack traces.
//   - No fields derived from pointer identity or map iteration.
type Event struct {
	Kind EventKind

	// Stage identifies the stage this event refers to. Required.
	Stage string

	// Value is the stage's output value. Only meaningful when HasVal is
	// true (stage values are deterministic, so they may appear in traces).
	Value  int64
	HasVal bool

	// Reason is a stable, logical reason code (e.g. "Overflow",
	// "MissingUpstreamValue"). Producers must keep the values stable.
	Reason string

	// CauseStage records the upstream stage whose failure caused a skip.
	CauseStage string
}

// Validate checks basic invariants and returns a descriptive error.
func (t *RunTrace) Validate() error {
	if t == nil {
		return errors.New("trace is nil")
	}
	if t.GraphHash == "" {
		return errors.New("graphHash is required")
	}
	for i := range t.Events {
		e := t.Events[i]
		if e.Kind == "" {
			return fmt.Errorf("events[%d].kind is required", i)
		}
		if e.Stage == "" {
			return fmt.Errorf("events[%d].stage is required", i)
		}
	}
	return nil
}

// Canonicalize sorts the trace into its canonical form.
//
// Ordering guarantee: ordering is independent of execution timing or
// concurrency. This implementation produces a total order over events,
// with Stage as the primary key.
func (t *RunTrace) Canonicalize() {
	if t == nil {
		return
	}
	sort.SliceStable(t.Events, func(i, j int) bool {
		a := t.Events[i]
		b := t.Events[j]

		if a.Stage != b.Stage {
			return a.Stage < b.Stage
		}
		if kindOrder(a.Kind) != kindOrder(b.Kind) {
			return kindOrder(a.Kind) < kindOrder(b.Kind)
		}
		if a.Reason != b.Reason {
			return a.Reason < b.Reason
		}
		if a.CauseStage != b.CauseStage {
			return a.CauseStage < b.CauseStage
		}
		return a.Value < b.Value
	})
}

func kindOrder(k EventKind) int {
	switch k {
	case EventStageExecuted:
		return 10
	case EventStageFailed:
		return 20
	case EventStageSkipped:
		return 30
	default:
		return 1000
	}
}

// CanonicalJSON returns the canonical JSON encoding of the trace.
// It canonicalizes a copy of the trace to avoid mutating the caller's slices.
func (t RunTrace) CanonicalJSON() ([]byte, error) {
	copyTrace := RunTrace{GraphHash: t.GraphHash}
	copyTrace.Events = make([]Event, len(t.Events))
	copy(copyTrace.Events, t.Events)
	copyTrace.Canonicalize()
	if err := copyTrace.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(&copyTrace)
}

// Hash returns the deterministic trace hash (sha256 hex) of the canonical JSON bytes.
func (t RunTrace) Hash() (string, error) {
	b, err := t.CanonicalJSON()
	if err != nil {
		return "", err
	}
	return ComputeTraceHash(b), nil
}

// MarshalJSON ensures canonical field ordering and omission rules.
func (t RunTrace) MarshalJSON() ([]byte, error) {
	if t.GraphHash == "" {
		return nil, errors.New("graphHash is required")
	}
	var buf bytes.Buffer
	buf.WriteByte('{')

	buf.WriteString("\"graphHash\":")
	gh, _ := json.Marshal(t.GraphHash)
	buf.Write(gh)
	buf.WriteByte(',')

	buf.WriteString("\"events\":[")
	for i := range t.Events {
		if i > 0 {
			buf.WriteByte(',')
		}
		eb, err := json.Marshal(t.Events[i])
		if err != nil {
			return nil, err
		}
		buf.Write(eb)
	}
	buf.WriteByte(']')

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON ensures canonical field ordering and omission of empty optional fields.
func (e Event) MarshalJSON() ([]byte, error) {
	if e.Kind == "" {
		return nil, errors.New("kind is required")
	}
	if e.Stage == "" {
		return nil, errors.New("stage is required")
	}

	var buf bytes.Buffer
	buf.WriteByte('{')

	buf.WriteString("\"kind\":")
	kb, _ := json.Marshal(string(e.Kind))
	buf.Write(kb)

	buf.WriteString(",\"stage\":")
	sb, _ := json.Marshal(e.Stage)
	buf.Write(sb)

	if e.HasVal {
		buf.WriteString(",\"value\":")
		buf.WriteString(strconv.FormatInt(e.Value, 10))
	}
	if e.Reason != "" {
		buf.WriteString(",\"reason\":")
		rb, _ := json.Marshal(e.Reason)
		buf.Write(rb)
	}
	if e.CauseStage != "" {
		buf.WriteString(",\"causeStage\":")
		cb, _ := json.Marshal(e.CauseStage)
		buf.Write(cb)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
