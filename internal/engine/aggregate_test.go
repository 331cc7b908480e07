package engine

import (
	"testing"

	"sqlscope/backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name          string
		results       []model.OperationResult
		wantExecuted  int
		wantSucceeded int
		wantFailed    int
		wantTimeMs    int64
		wantAll       bool
	}{
		{
			name:    "empty is vacuously successful",
			results: []model.OperationResult{},
			wantAll: true,
		},
		{
			name: "all succeeded",
			results: []model.OperationResult{
				{Status: model.StatusSucceeded, ExecutionTimeMs: 10},
				{Status: model.StatusSucceeded, ExecutionTimeMs: 5},
			},
			wantExecuted:  2,
			wantSucceeded: 2,
			wantTimeMs:    15,
			wantAll:       true,
		},
		{
			name: "failure plus skip",
			results: []model.OperationResult{
				{Status: model.StatusSucceeded, ExecutionTimeMs: 7},
				{Status: model.StatusFailed, ExecutionTimeMs: 3},
				{Status: model.StatusSkipped},
			},
			wantExecuted:  2,
			wantSucceeded: 1,
			wantFailed:    1,
			wantTimeMs:    10,
		},
		{
			name: "skips alone break all-successful",
			results: []model.OperationResult{
				{Status: model.StatusSucceeded, ExecutionTimeMs: 1},
				{Status: model.StatusSkipped},
			},
			wantExecuted:  1,
			wantSucceeded: 1,
			wantTimeMs:    1,
			wantAll:       false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Aggregate(tc.results)
			assert.Equal(t, len(tc.results), c.TotalOperations)
			assert.Equal(t, tc.wantExecuted, c.ExecutedOperations)
			assert.Equal(t, tc.wantSucceeded, c.SuccessfulOperations)
			assert.Equal(t, tc.wantFailed, c.FailedOperations)
			assert.Equal(t, tc.wantTimeMs, c.TotalExecutionTimeMs)
			assert.Equal(t, tc.wantAll, c.AllSuccessful)
		})
	}
}
