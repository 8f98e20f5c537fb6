package query

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	"github.com/glassboard-labs/glassboard/pkg/core"
)

// DuckDB implements core.Querier against a DuckDB database holding the
// tabular data sources.
type DuckDB struct {
	db *sql.DB
}

// NewDuckDB creates an unconnected DuckDB querier.
func NewDuckDB() *DuckDB {
	return &DuckDB{}
}

// NewDuckDBWithDB wraps an existing connection, e.g. a mock in tests.
func NewDuckDBWithDB(db *sql.DB) *DuckDB {
	return &DuckDB{db: db}
}

// Connect opens the database. Use ":memory:" for an in-memory database.
func (d *DuckDB) Connect(ctx context.Context, path string) error {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}
	d.db = db
	return nil
}

// Close closes the connection.
func (d *DuckDB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Fetch queries the data source with the filter set applied as a WHERE
// conjunction and returns the renderable payload.
func (d *DuckDB) Fetch(ctx context.Context, dataSourceRef string, filters core.FilterSet) (*core.QueryResult, error) {
	if d.db == nil {
		return nil, fmt.Errorf("duckdb not connected")
	}

	stmt, args, err := BuildQuery(dataSourceRef, filters)
	if err != nil {
		return nil, err
	}

	rows, err := d.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", dataSourceRef, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", dataSourceRef, err)
	}

	result := &core.QueryResult{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("fetch %s: %w", dataSourceRef, err)
		}
		result.Rows = append(result.Rows, values)
	}
	return result, rows.Err()
}
