package trace

import (
	"strings"
	"testing"
)

func TestCanonicalJSON_StableAcrossInsertionOrder(t *testing.T) {
	a := RunTrace{
		GraphHash: "g1",
		Events: []Event{
			{Kind: EventStageExecuted, Stage: "b", Value: 2, HasVal: true},
			{Kind: EventStageExecuted, Stage: "a", Value: 1, HasVal: true},
		},
	}
	b := RunTrace{
		GraphHash: "g1",
		Events: []Event{
			{Kind: EventStageExecuted, Stage: "a", Value: 1, HasVal: true},
			{Kind: EventStageExecuted, Stage: "b", Value: 2, HasVal: true},
		},
	}

	ja, err := a.CanonicalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	jb, err := b.CanonicalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(ja) != string(jb) {
		t.Fatalf("canonical JSON differs:\n%s\n%s", ja, jb)
	}

	ha, err := a.Hash()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hb, err := b.Hash()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ha != hb || ha == "" {
		t.Fatalf("expected equal non-empty hashes, got %q vs %q", ha, hb)
	}
}

func TestCanonicalJSON_FieldOrderAndOmission(t *testing.T) {
	tr := RunTrace{
		GraphHash: "g1",
		Events: []Event{
			{Kind: EventStageSkipped, Stage: "c", CauseStage: "a"},
		},
	}
	j, err := tr.CanonicalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := string(j)
	want := `{"graphHash":"g1","events":[{"kind":"StageSkipped","stage":"c","causeStage":"a"}]}`
	if got != want {
		t.Fatalf("canonical JSON mismatch:\n got %s\nwant %s", got, want)
	}
	if strings.Contains(got, "value") || strings.Contains(got, "reason") {
		t.Fatalf("expected absent optional fields to be omitted: %s", got)
	}
}

func TestValidate_RejectsMissingFields(t *testing.T) {
	if err := (&RunTrace{}).Validate(); err == nil {
		t.Fatalf("expected error for missing graph hash")
	}
	tr := &RunTrace{GraphHash: "g1", Events: []Event{{Kind: EventStageExecuted}}}
	if err := tr.Validate(); err == nil {
		t.Fatalf("expected error for missing stage")
	}
	tr = &RunTrace{GraphHash: "g1", Events: []Event{{Stage: "a"}}}
	if err := tr.Validate(); err == nil {
		t.Fatalf("expected error for missing kind")
	}
}

type panicSink struct{}

func (panicSink) Record(Event) { panic("boom") }

func TestSafeRecord_SwallowsPanicsAndNilSinks(t *testing.T) {
	SafeRecord(nil, Event{Kind: EventStageExecuted, Stage: "a"})
	SafeRecord(panicSink{}, Event{Kind: EventStageExecuted, Stage: "a"})
}

func TestRecorder_CollectsInOrder(t *testing.T) {
	r := NewRecorder()
	r.Record(Event{Kind: EventStageExecuted, Stage: "a", Value: 1, HasVal: true})
	r.Record(Event{Kind: EventStageExecuted, Stage: "b", Value: 2, HasVal: true})

	events := r.Events()
	if len(events) != 2 || events[0].Stage != "a" || events[1].Stage != "b" {
		t.Fatalf("unexpected events: %v", events)
	}

	tr := r.Trace("g1")
	if tr.GraphHash != "g1" || len(tr.Events) != 2 {
		t.Fatalf("unexpected trace: %+v", tr)
	}
}
