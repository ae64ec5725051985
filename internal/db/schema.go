package db

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
)

// RequiredColumns lists the relations and columns the climate queries bind to.
var RequiredColumns = map[string][]string{
	"station":     {"station", "name", "latitude", "longitude", "elevation"},
	"measurement": {"station", "date", "prcp", "tobs"},
}

// SchemaError reports a relation or column missing from the store.
type SchemaError struct {
	Table   string
	Missing []string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("schema: table %q not found", e.Table)
	}
	return fmt.Sprintf("schema: table %q missing columns %s", e.Table, strings.Join(e.Missing, ", "))
}

// VerifySchema reflects the store's tables and checks them against
// RequiredColumns. It is run once at startup; any mismatch is fatal.
func VerifySchema(ctx context.Context, db *sql.DB) error {
	tables := make([]string, 0, len(RequiredColumns))
	for t := range RequiredColumns {
		tables = append(tables, t)
	}
	slices.Sort(tables)

	for _, table := range tables {
		cols, err := tableColumns(ctx, db, table)
		if err != nil {
			return fmt.Errorf("reflect %s: %w", table, err)
		}
		if len(cols) == 0 {
			return &SchemaError{Table: table}
		}
		var missing []string
		for _, want := range RequiredColumns[table] {
			if _, ok := cols[want]; !ok {
				missing = append(missing, want)
			}
		}
		if len(missing) > 0 {
			return &SchemaError{Table: table, Missing: missing}
		}
	}
	return nil
}

func tableColumns(ctx context.Context, db *sql.DB, table string) (map[string]struct{}, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[strings.ToLower(name)] = struct{}{}
	}
	return out, rows.Err()
}
