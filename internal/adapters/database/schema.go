package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/navina/travelguide/internal/infrastructure/clients/postgres"
)

//go:embed sql/schema.sql
var schemaSQL string

// SeededTables lists every table the schema creates, children first
var SeededTables = []string{"conversation_messages", "conversations", "users", "tours", "pois"}

// EnsureSchema creates any missing tables and indexes
func EnsureSchema(ctx context.Context, client *postgres.Client) error {
	if _, err := client.DB().ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// TruncateAll empties every table in SeededTables
func TruncateAll(ctx context.Context, client *postgres.Client) error {
	query := "TRUNCATE TABLE "
	for i, table := range SeededTables {
		if i > 0 {
			query += ", "
		}
		query += table
	}
	query += " RESTART IDENTITY CASCADE"

	if _, err := client.DB().ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}
