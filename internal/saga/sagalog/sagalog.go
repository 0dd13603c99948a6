// Package sagalog is the durable audit trail of checkout saga
// executions. Each state transition appends one immutable row, so the
// log answers both "where is saga X right now" and, after a crash,
// "which sagas were in flight and need compensation".
package sagalog

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Status is the lifecycle state of a saga execution.
type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusFailed       Status = "FAILED"
)

// Entry is a single row in the saga log.
type Entry struct {
	// SagaID is the order id, so the log joins with business data.
	SagaID string

	Status Status

	// CurrentStep is the step that just executed or failed; empty on
	// the STARTED/COMPLETED boundary rows.
	CurrentStep string

	// Payload is the JSON-serialized checkout request, written once on
	// STARTED so a failed saga can be replayed from the log.
	Payload string

	// ErrorMessages is a JSON array of failure details, one per failed
	// step or compensation.
	ErrorMessages string

	// TraceID and SpanID are the W3C identifiers of the OpenTelemetry
	// span active when the row was written, so a log row links straight
	// to its distributed trace.
	TraceID string
	SpanID  string

	UpdatedAt time.Time
}

// Repository is the port for persisting log entries. The table is
// append-only: Save always adds a row, never updates one.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
}

// NewEntry builds an Entry with trace identifiers extracted from the
// active span in ctx. Without an active span (unit tests) both ids stay
// empty.
func NewEntry(ctx context.Context, sagaID string, status Status, currentStep, payload string, errs []string) *Entry {
	errJSON := "[]"
	if len(errs) > 0 {
		if b, err := json.Marshal(errs); err == nil {
			errJSON = string(b)
		}
	}

	var traceID, spanID string
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		traceID = sc.TraceID().String()
		spanID = sc.SpanID().String()
	}

	return &Entry{
		SagaID:        sagaID,
		Status:        status,
		CurrentStep:   currentStep,
		Payload:       payload,
		ErrorMessages: errJSON,
		TraceID:       traceID,
		SpanID:        spanID,
		UpdatedAt:     time.Now().UTC(),
	}
}
