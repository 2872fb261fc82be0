package schema

import (
	"context"
	"fmt"

	"labor-board/internal/database"
)

// Verify checks that the tables the repositories depend on exist with the
// columns they scan. It catches a missed migration at startup instead of on
// the first query.
func Verify(ctx context.Context, db database.DB) error {
	checks := []struct {
		table   string
		columns []string
	}{
		{"users", []string{"id", "email", "phone", "password_hash", "created_at", "updated_at"}},
		{"profiles", []string{"id", "email", "full_name", "role", "phone_number", "skills", "daily_rate", "business_name"}},
		{"jobs", []string{"id", "client_id", "title", "description", "category", "location", "budget", "status", "created_at"}},
		{"job_applications", []string{"id", "job_id", "applicant_id", "status", "created_at", "updated_at"}},
	}
	for _, c := range checks {
		if err := ensureTableColumns(ctx, db, c.table, c.columns...); err != nil {
			return err
		}
	}
	return nil
}

func ensureTableColumns(ctx context.Context, db database.DB, table string, columns ...string) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}

	rows, err := db.Query(
		ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema='public' AND table_name=$1`,
		table,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		existing[c] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if len(existing) == 0 {
		return fmt.Errorf("schema mismatch: table %s not found", table)
	}
	for _, col := range columns {
		if _, ok := existing[col]; !ok {
			return fmt.Errorf("schema mismatch: missing column %s.%s", table, col)
		}
	}
	return nil
}
