// Package schema embeds the Postgres DDL applied by the migrate command.
package schema

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed schema.sql
var ddl string

// Statements splits the embedded DDL into executable statements, dropping
// comment-only chunks.
func Statements() []string {
	var out []string
	for _, stmt := range strings.Split(ddl, ";") {
		if s := stripComments(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func stripComments(stmt string) string {
	lines := strings.Split(stmt, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "--") {
			continue
		}
		kept = append(kept, l)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// Apply executes every statement in order inside one transaction.
func Apply(ctx context.Context, db *sql.DB) (int, error) {
	stmts := Statements()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return i, fmt.Errorf("failed to execute statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return len(stmts), fmt.Errorf("failed to commit migration: %w", err)
	}
	return len(stmts), nil
}
