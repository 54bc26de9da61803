package mysql

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dentalab/internal/testutil"
)

func TestTxRunner_CommitsOnSuccess(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	runner := NewTxRunner(db)
	err := runner.WithinTx(context.Background(), nil, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO Materials (name, quantity, unitCost) VALUES ('Wax', 10, 1)`)
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM Materials WHERE name = 'Wax'`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestTxRunner_RollsBackOnError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	runner := NewTxRunner(db)
	boom := errors.New("boom")
	err := runner.WithinTx(context.Background(), nil, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO Materials (name, quantity, unitCost) VALUES ('Gypsum', 10, 1)`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM Materials WHERE name = 'Gypsum'`).Scan(&count))
	assert.Equal(t, 0, count)
}
