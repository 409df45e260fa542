package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"calcflow/internal/dag"
	"calcflow/internal/flow"
	"calcflow/internal/metrics"
	"calcflow/internal/trace"
	"calcflow/internal/xcom"
)

// Style selects the inter-stage value-passing mechanism.
type Style string

const (
	// StyleManual passes values through a shared per-run key/value store:
	// each stage pulls its upstream key and pushes its own.
	StyleManual Style = "manual"

	// StyleAuto threads each stage's return value directly into the
	// downstream stage.
	StyleAuto Style = "auto"
)

// ParseStyle validates a style string from flags or config.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StyleManual, StyleAuto:
		return Style(s), nil
	default:
		return "", fmt.Errorf("unknown passing style %q (want %q or %q)", s, StyleManual, StyleAuto)
	}
}

// Runner executes pipeline definitions.
//
// Zero-value fields get defaults on Run: a nop logger, discarded output,
// an in-memory store for the manual style and a fresh UUID run ID.
type Runner struct {
	Log   *zap.Logger
	Out   io.Writer
	Store xcom.Store
	RunID string
}

// Report summarizes one pipeline run.
type Report struct {
	RunID string
	Style Style

	Result *dag.GraphResult
	Trace  trace.RunTrace

	// Final is the sink stage's value; HasFinal is false when the run
	// failed before the sink or the graph has no single sink.
	Final    int64
	HasFinal bool
}

// Run executes def with the given passing style.
//
// Stage console lines are written to Out in execution order, followed by
// either the final value or the failure. A failed stage yields a Report
// with Result.Failed() == true and a nil error; a non-nil error means the
// engine itself could not run the pipeline.
func (r *Runner) Run(ctx context.Context, def Definition, style Style) (*Report, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	out := r.Out
	if out == nil {
		out = io.Discard
	}

	g, err := def.Graph()
	if err != nil {
		return nil, err
	}

	runID := r.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	var stageRunner dag.StageRunner
	switch style {
	case StyleManual:
		store := r.Store
		if store == nil {
			store = xcom.NewMemStore()
		}
		stageRunner = xcom.NewRunner(store, runID)
	case StyleAuto:
		if err := flow.CheckGraph(g); err != nil {
			return nil, err
		}
		stageRunner = flow.NewRunner()
	default:
		return nil, fmt.Errorf("unknown passing style %q", style)
	}

	log.Debug("starting pipeline run",
		zap.String("pipeline", def.Name),
		zap.String("run_id", runID),
		zap.String("style", string(style)),
		zap.String("graph_hash", g.Hash().String()),
	)

	recorder := trace.NewRecorder()
	ex, err := dag.NewExecutor(g, stageRunner)
	if err != nil {
		return nil, err
	}
	ex.Sink = recorder

	res, err := ex.RunSerial(ctx)
	if err != nil {
		metrics.RunsTotal.WithLabelValues(string(style), "error").Inc()
		return nil, err
	}

	for _, name := range res.ExecutionOrder {
		if line, ok := res.Lines[name]; ok {
			fmt.Fprintln(out, line)
		}
		node, _ := g.Node(name)
		switch res.FinalState[name] {
		case dag.TaskCompleted:
			metrics.StagesTotal.WithLabelValues(string(node.Task.Op)).Inc()
			log.Debug("stage completed",
				zap.String("stage", name),
				zap.Int64("value", res.Values[name]),
			)
		case dag.TaskFailed:
			reason := res.FailureReasons[name]
			metrics.StageFailuresTotal.WithLabelValues(reason).Inc()
			fmt.Fprintf(out, "Stage %s failed: %s\n", name, reason)
			log.Warn("stage failed",
				zap.String("stage", name),
				zap.String("reason", reason),
			)
		}
	}

	report := &Report{
		RunID:  runID,
		Style:  style,
		Result: res,
		Trace:  recorder.Trace(g.Hash().String()),
	}

	if res.Failed() {
		metrics.RunsTotal.WithLabelValues(string(style), "failed").Inc()
		return report, nil
	}

	metrics.RunsTotal.WithLabelValues(string(style), "ok").Inc()
	if v, ok := res.FinalValue(g); ok {
		report.Final = v
		report.HasFinal = true
		fmt.Fprintf(out, "Result: %d\n", v)
	}
	return report, nil
}
