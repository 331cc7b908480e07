package engine

import (
	"context"
	"errors"
	"testing"

	"sqlscope/backend/internal/model"

	"github.com/stretchr/testify/assert"
)

// mockSession is a function-field Session: unset fields succeed with
// empty results. Call counters double as a spy.
type mockSession struct {
	listTablesFunc     func(ctx context.Context) ([]string, error)
	describeTablesFunc func(ctx context.Context, names []string) (map[string]string, error)
	runSelectFunc      func(ctx context.Context, sql string) (*model.QueryPayload, error)

	listTablesCalls     int
	describeTablesCalls int
	runSelectCalls      int
}

func (m *mockSession) ListTables(ctx context.Context) ([]string, error) {
	m.listTablesCalls++
	if m.listTablesFunc != nil {
		return m.listTablesFunc(ctx)
	}
	return []string{}, nil
}

func (m *mockSession) DescribeTables(ctx context.Context, names []string) (map[string]string, error) {
	m.describeTablesCalls++
	if m.describeTablesFunc != nil {
		return m.describeTablesFunc(ctx, names)
	}
	return map[string]string{}, nil
}

func (m *mockSession) RunSelect(ctx context.Context, sql string) (*model.QueryPayload, error) {
	m.runSelectCalls++
	if m.runSelectFunc != nil {
		return m.runSelectFunc(ctx, sql)
	}
	return &model.QueryPayload{Columns: []string{}, Rows: []map[string]any{}}, nil
}

func (m *mockSession) totalCalls() int {
	return m.listTablesCalls + m.describeTablesCalls + m.runSelectCalls
}

func TestRunEmptyChain(t *testing.T) {
	session := &mockSession{}
	result := New(session).Run(context.Background(), nil)

	assert.Empty(t, result.Results)
	assert.Equal(t, 0, result.TotalOperations)
	assert.Equal(t, 0, result.ExecutedOperations)
	assert.Equal(t, 0, result.FailedOperations)
	assert.Equal(t, int64(0), result.TotalExecutionTimeMs)
	assert.True(t, result.AllSuccessful)
	assert.Equal(t, 0, session.totalCalls())
}

func TestRunAllSucceed(t *testing.T) {
	session := &mockSession{
		listTablesFunc: func(ctx context.Context) ([]string, error) {
			return []string{"a", "b"}, nil
		},
		runSelectFunc: func(ctx context.Context, sql string) (*model.QueryPayload, error) {
			return &model.QueryPayload{
				Columns:  []string{"col"},
				Rows:     []map[string]any{{"col": 1}},
				RowCount: 1,
			}, nil
		},
	}

	ops := []model.Operation{
		model.NewListTables(),
		model.NewQuery("SELECT 1"),
	}
	result := New(session).Run(context.Background(), ops)

	assert.Len(t, result.Results, 2)
	assert.True(t, result.AllSuccessful)
	assert.Equal(t, 2, result.SuccessfulOperations)
	assert.Equal(t, 0, result.FailedOperations)

	tables := result.Results[0].Payload.(*model.TableListPayload)
	assert.Equal(t, []string{"a", "b"}, tables.Tables)
	assert.Equal(t, 2, tables.Count)

	rows := result.Results[1].Payload.(*model.QueryPayload)
	assert.Equal(t, 1, rows.RowCount)
}

func TestRunResultsKeepInputOrder(t *testing.T) {
	session := &mockSession{}
	ops := []model.Operation{
		model.NewListTables(),
		model.NewTableInfo([]string{"users"}),
		model.NewQuery("SELECT 1"),
		model.NewListTables(),
	}
	result := New(session).Run(context.Background(), ops)

	assert.Len(t, result.Results, len(ops))
	for i, r := range result.Results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, ops[i].Kind, r.Kind)
	}
}

func TestRunFirstFailureSkipsRemainder(t *testing.T) {
	session := &mockSession{
		listTablesFunc: func(ctx context.Context) ([]string, error) {
			return nil, errors.New("connection refused")
		},
	}
	ops := []model.Operation{
		model.NewListTables(),
		model.NewTableInfo([]string{"users"}),
		model.NewQuery("SELECT 1"),
	}
	result := New(session).Run(context.Background(), ops)

	assert.Len(t, result.Results, 3)
	assert.Equal(t, model.StatusFailed, result.Results[0].Status)
	assert.Equal(t, "connection refused", result.Results[0].ErrorMessage)
	assert.Equal(t, model.StatusSkipped, result.Results[1].Status)
	assert.Equal(t, model.StatusSkipped, result.Results[2].Status)

	assert.Equal(t, 1, result.ExecutedOperations)
	assert.Equal(t, 1, result.FailedOperations)
	assert.Equal(t, 0, result.SuccessfulOperations)
	assert.False(t, result.AllSuccessful)

	// Skipped operations never touch the session.
	assert.Equal(t, 1, session.totalCalls())
}

func TestRunMidChainFailure(t *testing.T) {
	session := &mockSession{
		describeTablesFunc: func(ctx context.Context, names []string) (map[string]string, error) {
			return nil, errors.New("no such table")
		},
	}
	ops := []model.Operation{
		model.NewListTables(),
		model.NewTableInfo([]string{"missing_table"}),
		model.NewQuery("SELECT 1"),
	}
	result := New(session).Run(context.Background(), ops)

	assert.Equal(t, model.StatusSucceeded, result.Results[0].Status)
	assert.Equal(t, model.StatusFailed, result.Results[1].Status)
	assert.Equal(t, model.StatusSkipped, result.Results[2].Status)
	assert.Equal(t, 2, result.ExecutedOperations)
	assert.Equal(t, 0, session.runSelectCalls)
}

func TestRunSingleFailedOperation(t *testing.T) {
	session := &mockSession{
		describeTablesFunc: func(ctx context.Context, names []string) (map[string]string, error) {
			return nil, errors.New("no such table")
		},
	}
	result := New(session).Run(context.Background(), []model.Operation{
		model.NewTableInfo([]string{"missing_table"}),
	})

	assert.Len(t, result.Results, 1)
	assert.Equal(t, model.StatusFailed, result.Results[0].Status)
	assert.False(t, result.AllSuccessful)
	assert.Equal(t, 1, result.ExecutedOperations)
}

func TestRunUnsafeQueryNeverReachesSession(t *testing.T) {
	session := &mockSession{}
	ops := []model.Operation{
		model.NewQuery("DROP TABLE users;"),
		model.NewListTables(),
	}
	result := New(session).Run(context.Background(), ops)

	assert.Equal(t, model.StatusFailed, result.Results[0].Status)
	assert.Contains(t, result.Results[0].ErrorMessage, "unsafe statement")
	assert.Equal(t, model.StatusSkipped, result.Results[1].Status)
	assert.Equal(t, 0, session.totalCalls())
}

func TestRunQueryTimeoutSkipsFollowing(t *testing.T) {
	session := &mockSession{
		runSelectFunc: func(ctx context.Context, sql string) (*model.QueryPayload, error) {
			return nil, errors.New("query: context deadline exceeded")
		},
	}
	ops := []model.Operation{
		model.NewQuery("SELECT * FROM x"),
		model.NewListTables(),
	}
	result := New(session).Run(context.Background(), ops)

	assert.Equal(t, model.StatusFailed, result.Results[0].Status)
	assert.Equal(t, model.StatusSkipped, result.Results[1].Status)
	assert.Equal(t, 0, session.listTablesCalls)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := &mockSession{}
	ops := []model.Operation{
		model.NewListTables(),
		model.NewQuery("SELECT 1"),
	}
	result := New(session).Run(ctx, ops)

	assert.Equal(t, model.StatusFailed, result.Results[0].Status)
	assert.Equal(t, "operation cancelled", result.Results[0].ErrorMessage)
	assert.Equal(t, model.StatusSkipped, result.Results[1].Status)
	assert.Equal(t, 0, session.totalCalls())
}

func TestRunCancelledMidChain(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	session := &mockSession{
		listTablesFunc: func(ctx context.Context) ([]string, error) {
			// Simulate the caller aborting while this call is in flight.
			cancel()
			return nil, ctx.Err()
		},
	}
	ops := []model.Operation{
		model.NewListTables(),
		model.NewQuery("SELECT 1"),
	}
	result := New(session).Run(ctx, ops)

	assert.Equal(t, model.StatusFailed, result.Results[0].Status)
	assert.Equal(t, "operation cancelled", result.Results[0].ErrorMessage)
	assert.Equal(t, model.StatusSkipped, result.Results[1].Status)
}

func TestRunCustomValidator(t *testing.T) {
	session := &mockSession{}
	rejectAll := func(sql string) error { return errors.New("rejected") }

	result := NewWithValidator(session, rejectAll).Run(context.Background(), []model.Operation{
		model.NewQuery("SELECT 1"),
	})

	assert.Equal(t, model.StatusFailed, result.Results[0].Status)
	assert.Equal(t, "rejected", result.Results[0].ErrorMessage)
	assert.Equal(t, 0, session.runSelectCalls)
}

func TestRunTimingSum(t *testing.T) {
	session := &mockSession{
		listTablesFunc: func(ctx context.Context) ([]string, error) {
			return nil, errors.New("boom")
		},
	}
	ops := []model.Operation{
		model.NewListTables(),
		model.NewListTables(),
		model.NewListTables(),
	}
	result := New(session).Run(context.Background(), ops)

	var sum int64
	for _, r := range result.Results {
		if r.Status != model.StatusSkipped {
			sum += r.ExecutionTimeMs
		}
	}
	assert.Equal(t, sum, result.TotalExecutionTimeMs)
	assert.Equal(t, result.TotalOperations, result.ExecutedOperations+skippedCount(result))
}

func skippedCount(c *model.ChainResult) int {
	n := 0
	for _, r := range c.Results {
		if r.Status == model.StatusSkipped {
			n++
		}
	}
	return n
}
