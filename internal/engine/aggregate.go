package engine

import "sqlscope/backend/internal/model"

// Aggregate folds per-operation results into a ChainResult. Pure function:
// counters, total time over non-skipped entries, and the all-successful
// flag, which requires that nothing failed and nothing was skipped. An
// empty chain is vacuously successful.
func Aggregate(results []model.OperationResult) *model.ChainResult {
	c := &model.ChainResult{
		Results:         results,
		TotalOperations: len(results),
	}

	for _, r := range results {
		switch r.Status {
		case model.StatusSucceeded:
			c.ExecutedOperations++
			c.SuccessfulOperations++
			c.TotalExecutionTimeMs += r.ExecutionTimeMs
		case model.StatusFailed:
			c.ExecutedOperations++
			c.FailedOperations++
			c.TotalExecutionTimeMs += r.ExecutionTimeMs
		}
	}

	c.AllSuccessful = c.FailedOperations == 0 && c.ExecutedOperations == c.TotalOperations
	return c
}
