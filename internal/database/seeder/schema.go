package seeder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"jobmatch/internal/database"
)

var ErrSchemaMismatch = errors.New("schema mismatch")

// RequireColumns checks every table in want with a single catalogue query and
// reports all missing columns at once, as "table.column".
func RequireColumns(ctx context.Context, db database.DB, want map[string][]string) error {
	if db == nil {
		return errors.New("nil db")
	}
	tables := make([]string, 0, len(want))
	for table := range want {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	rows, err := db.Query(ctx,
		`SELECT table_name, column_name
		   FROM information_schema.columns
		  WHERE table_schema = current_schema() AND table_name = ANY($1)`,
		tables,
	)
	if err != nil {
		return fmt.Errorf("read columns: %w", err)
	}
	defer rows.Close()

	have := make(map[string]struct{})
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return err
		}
		have[table+"."+column] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, table := range tables {
		for _, column := range want[table] {
			if _, ok := have[table+"."+column]; !ok {
				missing = append(missing, table+"."+column)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return nil
}
