package model

import (
	"fmt"
	"strings"
)

type OpKind string

const (
	OpListTables OpKind = "list_tables"
	OpTableInfo  OpKind = "table_info"
	OpQuery      OpKind = "query"
)

// Operation is one unit of work in a deep-query chain. The kind tag decides
// which of the optional fields is meaningful.
type Operation struct {
	Kind   OpKind   `json:"type"`
	Tables []string `json:"tables,omitempty"` // table_info only
	SQL    string   `json:"sql,omitempty"`    // query only
}

func NewListTables() Operation {
	return Operation{Kind: OpListTables}
}

func NewTableInfo(tables []string) Operation {
	return Operation{Kind: OpTableInfo, Tables: tables}
}

func NewQuery(sql string) Operation {
	return Operation{Kind: OpQuery, SQL: strings.TrimSpace(sql)}
}

// Validate rejects malformed operations before the chain starts.
func (op Operation) Validate() error {
	switch op.Kind {
	case OpListTables:
		return nil
	case OpTableInfo:
		if len(op.Tables) == 0 {
			return fmt.Errorf("table_info operation requires a non-empty table list")
		}
		for _, t := range op.Tables {
			if strings.TrimSpace(t) == "" {
				return fmt.Errorf("table_info operation contains an empty table name")
			}
		}
		return nil
	case OpQuery:
		if strings.TrimSpace(op.SQL) == "" {
			return fmt.Errorf("query operation requires non-empty sql")
		}
		return nil
	default:
		return fmt.Errorf("unknown operation type: %q", op.Kind)
	}
}
