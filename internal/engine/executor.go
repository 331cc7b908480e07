// Package engine executes an ordered chain of database operations with
// skip-on-failure semantics: every operation gets a result slot, but once
// one fails, the rest of the chain is skipped rather than attempted
// against an unconfirmed schema.
package engine

import (
	"context"
	"fmt"
	"time"

	"sqlscope/backend/internal/gateway"
	"sqlscope/backend/internal/model"
	"sqlscope/backend/internal/safety"
)

// Validator checks a query operation's SQL before it reaches the session.
type Validator func(sql string) error

// Executor runs operation chains against one database session. It holds
// no state across invocations; a fresh session can be swapped in per call.
type Executor struct {
	session  gateway.Session
	validate Validator
}

// New creates an Executor using the package safety validator.
func New(session gateway.Session) *Executor {
	return NewWithValidator(session, safety.Validate)
}

// NewWithValidator creates an Executor with a custom SQL validator.
func NewWithValidator(session gateway.Session, validate Validator) *Executor {
	return &Executor{session: session, validate: validate}
}

// Run executes the chain strictly in order. Operations after the first
// failure are marked skipped without touching the validator or session.
// Cancellation fails the in-flight operation and skips the remainder.
// Business-level failures never surface as errors; they become data in
// the returned ChainResult.
func (e *Executor) Run(ctx context.Context, ops []model.Operation) *model.ChainResult {
	results := make([]model.OperationResult, 0, len(ops))
	chainFailed := false

	for i, op := range ops {
		if chainFailed {
			results = append(results, model.OperationResult{
				Index:  i,
				Kind:   op.Kind,
				Status: model.StatusSkipped,
			})
			continue
		}

		res := e.runOne(ctx, i, op)
		if res.Status == model.StatusFailed {
			chainFailed = true
		}
		results = append(results, res)
	}

	return Aggregate(results)
}

func (e *Executor) runOne(ctx context.Context, index int, op model.Operation) model.OperationResult {
	res := model.OperationResult{Index: index, Kind: op.Kind}
	start := time.Now()
	record := func() {
		res.ExecutionTimeMs = time.Since(start).Milliseconds()
	}

	if err := ctx.Err(); err != nil {
		record()
		res.Status = model.StatusFailed
		res.ErrorMessage = "operation cancelled"
		return res
	}

	var payload any
	var err error

	switch op.Kind {
	case model.OpListTables:
		var tables []string
		if tables, err = e.session.ListTables(ctx); err == nil {
			payload = &model.TableListPayload{Tables: tables, Count: len(tables)}
		}
	case model.OpTableInfo:
		var schemas map[string]string
		if schemas, err = e.session.DescribeTables(ctx, op.Tables); err == nil {
			payload = &model.TableInfoPayload{Schemas: schemas}
		}
	case model.OpQuery:
		if err = e.validate(op.SQL); err == nil {
			payload, err = e.session.RunSelect(ctx, op.SQL)
		}
	default:
		err = fmt.Errorf("unknown operation type: %q", op.Kind)
	}

	record()
	if err != nil {
		res.Status = model.StatusFailed
		res.ErrorMessage = errorMessage(ctx, err)
		return res
	}
	res.Status = model.StatusSucceeded
	res.Payload = payload
	return res
}

// errorMessage prefers a cancellation message when the chain context was
// aborted while a session call was in flight.
func errorMessage(ctx context.Context, err error) string {
	if ctx.Err() != nil {
		return "operation cancelled"
	}
	return err.Error()
}
