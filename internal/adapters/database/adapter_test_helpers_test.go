package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/navina/travelguide/internal/infrastructure/clients/postgres"
)

func setupMockClient(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return postgres.NewClientFromDB(db), mock
}
