package gateway

import "fmt"

// Dialect selects the driver and introspection SQL for a session.
type Dialect string

const (
	DialectPostgres Dialect = "postgresql"
	DialectMySQL    Dialect = "mysql"
	DialectSQLite   Dialect = "sqlite"
)

// DriverName maps a dialect to its database/sql driver.
func (d Dialect) DriverName() (string, error) {
	switch d {
	case DialectPostgres:
		return "postgres", nil
	case DialectMySQL:
		return "mysql", nil
	case DialectSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported database type: %q", d)
	}
}

// QuoteIdentifier quotes a table or column name for the dialect.
func (d Dialect) QuoteIdentifier(name string) string {
	if d == DialectMySQL {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

func (d Dialect) listTablesSQL() string {
	switch d {
	case DialectMySQL:
		return `SELECT table_name FROM information_schema.tables
			WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
			ORDER BY table_name`
	case DialectSQLite:
		return `SELECT name FROM sqlite_master
			WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
			ORDER BY name`
	default:
		return `SELECT table_name FROM information_schema.tables
			WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
			ORDER BY table_name`
	}
}

// listColumnsSQL returns the introspection query for one table. SQLite has
// no information_schema, so it uses PRAGMA with the table name inlined;
// callers must have validated the identifier first.
func (d Dialect) listColumnsSQL(table string) (query string, args []any) {
	switch d {
	case DialectMySQL:
		return `SELECT column_name, column_type, is_nullable, coalesce(column_default, ''), column_key = 'PRI'
			FROM information_schema.columns
			WHERE table_schema = DATABASE() AND table_name = ?
			ORDER BY ordinal_position`, []any{table}
	case DialectSQLite:
		return fmt.Sprintf(`SELECT name, type, CASE "notnull" WHEN 0 THEN 'YES' ELSE 'NO' END,
			coalesce(dflt_value, ''), pk > 0
			FROM pragma_table_info(%s)`, "'"+table+"'"), nil
	default:
		return `SELECT c.column_name, c.data_type, c.is_nullable, coalesce(c.column_default, ''),
			EXISTS (
				SELECT 1 FROM information_schema.key_column_usage k
				JOIN information_schema.table_constraints tc
					ON tc.constraint_name = k.constraint_name
					AND tc.constraint_type = 'PRIMARY KEY'
				WHERE k.table_schema = c.table_schema
					AND k.table_name = c.table_name
					AND k.column_name = c.column_name
			)
			FROM information_schema.columns c
			WHERE c.table_schema = 'public' AND c.table_name = $1
			ORDER BY c.ordinal_position`, []any{table}
	}
}
