package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"sqlscope/backend/helper"
	"sqlscope/backend/internal/model"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultTimeout bounds every primitive call a session makes.
const DefaultTimeout = 30 * time.Second

// sampleRowLimit is the number of example rows included in schema text.
const sampleRowLimit = 3

// SQLSession implements Session over a database/sql connection pool.
type SQLSession struct {
	db      *sql.DB
	dialect Dialect
	timeout time.Duration
}

// NewSQLSession wraps an existing pool. A zero timeout falls back to
// DefaultTimeout.
func NewSQLSession(db *sql.DB, dialect Dialect, timeout time.Duration) *SQLSession {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &SQLSession{db: db, dialect: dialect, timeout: timeout}
}

// Open connects to a database and verifies the connection with a ping.
func Open(dialect Dialect, dsn string, timeout time.Duration) (*SQLSession, error) {
	driver, err := dialect.DriverName()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	s := NewSQLSession(db, dialect, timeout)
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return s, nil
}

// Close releases the underlying pool.
func (s *SQLSession) Close() error {
	return s.db.Close()
}

func (s *SQLSession) ListTables(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, s.dialect.listTablesSQL())
	if err != nil {
		return nil, &Error{Op: "list_tables", Err: err}
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &Error{Op: "list_tables", Err: err}
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Op: "list_tables", Err: err}
	}
	return tables, nil
}

func (s *SQLSession) DescribeTables(ctx context.Context, names []string) (map[string]string, error) {
	schemas := make(map[string]string, len(names))
	for _, name := range names {
		if !helper.IsValidIdentifier(name) {
			return nil, &Error{Op: "table_info", Err: fmt.Errorf("invalid table name: %q", name)}
		}
		text, err := s.describeTable(ctx, name)
		if err != nil {
			return nil, err
		}
		schemas[name] = text
	}
	return schemas, nil
}

func (s *SQLSession) describeTable(ctx context.Context, name string) (string, error) {
	cols, err := s.listColumns(ctx, name)
	if err != nil {
		return "", err
	}
	if len(cols) == 0 {
		return "", &Error{Op: "table_info", Err: fmt.Errorf("no such table: %s", name)}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", s.dialect.QuoteIdentifier(name))
	for i, col := range cols {
		fmt.Fprintf(&b, "\t%s %s", col.Name, col.Type)
		if !col.Nullable {
			b.WriteString(" NOT NULL")
		}
		if col.Default != "" {
			fmt.Fprintf(&b, " DEFAULT %s", col.Default)
		}
		if col.PrimaryKey {
			b.WriteString(" PRIMARY KEY")
		}
		if i < len(cols)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")

	if sample, err := s.sampleRows(ctx, name); err == nil && sample != "" {
		b.WriteString("\n\n")
		b.WriteString(sample)
	}
	return b.String(), nil
}

func (s *SQLSession) listColumns(ctx context.Context, table string) ([]model.Column, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query, args := s.dialect.listColumnsSQL(table)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &Error{Op: "table_info", Err: err}
	}
	defer rows.Close()

	var cols []model.Column
	for rows.Next() {
		var col model.Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &col.Default, &col.PrimaryKey); err != nil {
			return nil, &Error{Op: "table_info", Err: err}
		}
		col.Nullable = nullable == "YES"
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Op: "table_info", Err: err}
	}
	return cols, nil
}

// sampleRows renders up to sampleRowLimit example rows, tab separated, in
// the style schema text is usually presented to a language model.
func (s *SQLSession) sampleRows(ctx context.Context, table string) (string, error) {
	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", s.dialect.QuoteIdentifier(table), sampleRowLimit)
	payload, err := s.RunSelect(ctx, query)
	if err != nil {
		return "", err
	}
	if payload.RowCount == 0 {
		return "", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "/*\n%d rows from %s table:\n", payload.RowCount, table)
	b.WriteString(strings.Join(payload.Columns, "\t"))
	b.WriteString("\n")
	for _, row := range payload.Rows {
		vals := make([]string, len(payload.Columns))
		for i, c := range payload.Columns {
			vals[i] = fmt.Sprintf("%v", row[c])
		}
		b.WriteString(strings.Join(vals, "\t"))
		b.WriteString("\n")
	}
	b.WriteString("*/")
	return b.String(), nil
}

func (s *SQLSession) RunSelect(ctx context.Context, query string) (*model.QueryPayload, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &Error{Op: "query", Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &Error{Op: "query", Err: err}
	}

	results := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		pointers := make([]any, len(cols))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, &Error{Op: "query", Err: err}
		}

		rowMap := make(map[string]any, len(cols))
		for i, colName := range cols {
			rowMap[colName] = normalizeValue(values[i])
		}
		results = append(results, rowMap)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Op: "query", Err: err}
	}

	return &model.QueryPayload{
		Columns:  cols,
		Rows:     results,
		RowCount: len(results),
	}, nil
}

// normalizeValue makes scanned values JSON friendly. Drivers hand back
// []byte for text-ish columns; leave everything else alone.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
