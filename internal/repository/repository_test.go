package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"dnaarchive/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestAuditCreateInsertsRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuditRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "audit_trails"`)).
		WithArgs("Case", 0, "POST Case", 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"audit_id"}).AddRow(41))

	entry := &model.AuditTrail{EntityType: "Case", Action: "POST Case", PerformedBy: 2, Details: []byte(`{}`)}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.Equal(t, uint(41), entry.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditCreatePropagatesErrors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuditRepository(db)

	mock.ExpectQuery(`INSERT INTO "audit_trails"`).WillReturnError(errors.New("disk full"))

	err := repo.Create(context.Background(), &model.AuditTrail{EntityType: "Case", Action: "DELETE Case", PerformedBy: 1})
	assert.EqualError(t, err, "disk full")
}

func TestAuditListNewestFirstWithFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuditRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "audit_trails" WHERE entity_type = \$1`).
		WithArgs("DNA Sample").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT \* FROM "audit_trails" WHERE entity_type = \$1 ORDER BY timestamp desc LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"audit_id", "entity_type", "action", "performed_by"}).
			AddRow(9, "DNA Sample", "PUT DNA Sample", 3).
			AddRow(7, "DNA Sample", "POST DNA Sample", 3))
	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "name", "email"}).AddRow(3, "Keeper", "keeper@dna.test"))

	logs, total, err := repo.List(context.Background(), AuditFilter{EntityType: "DNA Sample"}, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, logs, 2)
	assert.Equal(t, uint(9), logs[0].ID)
	require.NotNil(t, logs[0].User)
	assert.Equal(t, "Keeper", logs[0].User.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReturnedOnlyOnce(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMovementRepository(db)
	at := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE "sample_movements" SET "returned_date"=\$1 WHERE movement_id = \$2 AND returned_date IS NULL`).
		WithArgs(at, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "sample_movements" SET "returned_date"=\$1 WHERE movement_id = \$2 AND returned_date IS NULL`).
		WithArgs(at, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.MarkSampleMovementReturned(context.Background(), 5, at)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkSampleMovementReturned(context.Background(), 5, at)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindRoleByNameNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoleRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "roles" WHERE role_name = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"role_id", "role_name"}))

	_, err := repo.FindByName(context.Background(), model.RoleArchiveInCharge)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestConsumeRefreshTokenLosesRace(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCredentialRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "refresh_tokens" WHERE token = \$1 AND expires_at > \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "user_id"}).AddRow(3, "tok", 2))
	mock.ExpectExec(`DELETE FROM "refresh_tokens" WHERE id = \$1`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.ConsumeRefreshToken(context.Background(), "tok", now)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTxCommitsAndRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	tx := NewTransactionManager(db)

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, tx.RunInTx(context.Background(), func(ctx context.Context) error {
		_, inTx := ctx.Value(txKey).(*gorm.DB)
		assert.True(t, inTx)
		return nil
	}))

	mock.ExpectBegin()
	mock.ExpectRollback()
	boom := errors.New("boom")
	assert.ErrorIs(t, tx.RunInTx(context.Background(), func(context.Context) error { return boom }), boom)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAfterCommitWaitsForCommit(t *testing.T) {
	db, mock := newMockDB(t)
	tx := NewTransactionManager(db)

	var fired []string
	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, tx.RunInTx(context.Background(), func(ctx context.Context) error {
		AfterCommit(ctx, func() { fired = append(fired, "committed") })
		assert.Empty(t, fired, "hook must not run inside the transaction")
		return nil
	}))
	assert.Equal(t, []string{"committed"}, fired)

	mock.ExpectBegin()
	mock.ExpectRollback()
	err := tx.RunInTx(context.Background(), func(ctx context.Context) error {
		AfterCommit(ctx, func() { fired = append(fired, "rolled back") })
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, []string{"committed"}, fired)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))
	err = tx.RunInTx(context.Background(), func(ctx context.Context) error {
		AfterCommit(ctx, func() { fired = append(fired, "commit failed") })
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, []string{"committed"}, fired)

	AfterCommit(context.Background(), func() { fired = append(fired, "no tx") })
	assert.Equal(t, []string{"committed", "no tx"}, fired)
	require.NoError(t, mock.ExpectationsWereMet())
}
