// Package saga runs a sequence of steps with compensating actions.
//
// The checkout workflow spans three writes (order insert, stock
// decrement, customer upsert) that are each atomic on their own but not
// jointly. The orchestrator guarantees that a failure partway through
// undoes everything already done, in reverse order, so no half-created
// order is ever observable.
package saga

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/srrfarms/storefront/internal/saga/sagalog"
)

// Step is a single unit of work. Compensate must undo Execute's effects
// and is only called after Execute succeeded.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// Orchestrator executes steps sequentially, compensating completed
// steps LIFO when one fails. Every transition is appended to the saga
// log; a nil log repository disables logging.
type Orchestrator struct {
	id    string
	steps []Step
	log   sagalog.Repository
}

func NewOrchestrator(id string, steps []Step, log sagalog.Repository) *Orchestrator {
	return &Orchestrator{id: id, steps: steps, log: log}
}

// Start runs the saga. The returned error is the failing step's error,
// after compensation has been attempted for every completed step.
func (o *Orchestrator) Start(ctx context.Context, payload any) error {
	o.record(ctx, sagalog.StatusStarted, "", encodePayload(payload), nil)

	var completed []Step
	for _, step := range o.steps {
		if err := step.Execute(ctx); err != nil {
			slog.WarnContext(ctx, "saga step failed, rolling back",
				"saga_id", o.id, "step", step.Name(), "error", err)
			errs := []string{fmt.Sprintf("%s: %v", step.Name(), err)}
			o.record(ctx, sagalog.StatusCompensating, step.Name(), "", errs)
			errs = append(errs, o.rollback(ctx, completed)...)
			o.record(ctx, sagalog.StatusFailed, step.Name(), "", errs)
			return err
		}
		completed = append(completed, step)
		o.record(ctx, sagalog.StatusStepDone, step.Name(), "", nil)
	}

	o.record(ctx, sagalog.StatusCompleted, "", "", nil)
	return nil
}

// rollback compensates completed steps in reverse order. Compensation
// failures are collected, not fatal: a broken compensation must not
// stop the remaining ones from running.
func (o *Orchestrator) rollback(ctx context.Context, completed []Step) []string {
	var errs []string
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if err := step.Compensate(ctx); err != nil {
			slog.ErrorContext(ctx, "saga compensation failed",
				"saga_id", o.id, "step", step.Name(), "error", err)
			errs = append(errs, fmt.Sprintf("compensate %s: %v", step.Name(), err))
		}
	}
	return errs
}

func (o *Orchestrator) record(ctx context.Context, status sagalog.Status, step, payload string, errs []string) {
	if o.log == nil {
		return
	}
	entry := sagalog.NewEntry(ctx, o.id, status, step, payload, errs)
	if err := o.log.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "saga log write failed", "saga_id", o.id, "error", err)
	}
}

func encodePayload(payload any) string {
	if payload == nil {
		return ""
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(b)
}
