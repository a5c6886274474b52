package repository

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var logsSchema string

// Migrate creates the partitioned logs table if it does not exist.
func (r *PostgresLogRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, logsSchema); err != nil {
		return fmt.Errorf("failed to apply logs schema: %w", err)
	}
	return nil
}
