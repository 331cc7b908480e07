package model

// DatabaseRef identifies the registry entry a request was executed against.
type DatabaseRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type DeepQueryRequest struct {
	DatabaseID int         `json:"database_id"`
	Operations []Operation `json:"operations"`
}

type DeepQueryResponse struct {
	RequestID string      `json:"request_id"`
	Database  DatabaseRef `json:"database"`
	*ChainResult
}

type NLQueryRequest struct {
	DatabaseID int    `json:"database_id"`
	Question   string `json:"question"`
	Format     string `json:"format,omitempty"` // json (default) or csv
}
