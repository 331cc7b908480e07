package model

import "encoding/json"

type OpStatus string

const (
	StatusSucceeded OpStatus = "succeeded"
	StatusFailed    OpStatus = "failed"
	StatusSkipped   OpStatus = "skipped"
)

// TableListPayload is the successful result of a list_tables operation.
type TableListPayload struct {
	Tables []string `json:"tables"`
	Count  int      `json:"count"`
}

// TableInfoPayload maps each requested table to its rendered schema text.
type TableInfoPayload struct {
	Schemas map[string]string `json:"schemas"`
}

// QueryPayload is the successful result of a query operation.
type QueryPayload struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
}

// OperationResult records the outcome of a single operation. Results keep
// the position of their operation in the submitted chain so callers can
// correlate them regardless of where a failure cut the chain short.
type OperationResult struct {
	Index           int
	Kind            OpKind
	Status          OpStatus
	Payload         any
	ErrorMessage    string
	ExecutionTimeMs int64
}

// wireOperationResult is the JSON shape of an OperationResult.
type wireOperationResult struct {
	Operation       string `json:"operation"`
	Index           int    `json:"index"`
	Success         bool   `json:"success"`
	Skipped         bool   `json:"skipped,omitempty"`
	Error           string `json:"error,omitempty"`
	Result          any    `json:"result,omitempty"`
	ExecutionTimeMs *int64 `json:"execution_time_ms,omitempty"`
}

func (r OperationResult) toWire() wireOperationResult {
	w := wireOperationResult{
		Operation: string(r.Kind),
		Index:     r.Index,
		Success:   r.Status == StatusSucceeded,
		Skipped:   r.Status == StatusSkipped,
		Error:     r.ErrorMessage,
		Result:    r.Payload,
	}
	if r.Status != StatusSkipped {
		ms := r.ExecutionTimeMs
		w.ExecutionTimeMs = &ms
	}
	return w
}

func (r OperationResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.toWire())
}

// ChainResult is the aggregate outcome of one deep-query invocation.
// Results always has the same length as the submitted operation list.
type ChainResult struct {
	Results              []OperationResult `json:"results"`
	TotalOperations      int               `json:"total_operations"`
	ExecutedOperations   int               `json:"executed_operations"`
	SuccessfulOperations int               `json:"successful_operations"`
	FailedOperations     int               `json:"failed_operations"`
	TotalExecutionTimeMs int64             `json:"total_execution_time_ms"`
	AllSuccessful        bool              `json:"all_successful"`
}
