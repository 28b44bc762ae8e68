package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-cred-vault/internal/logger"
	"github.com/MKhiriev/go-cred-vault/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newTestRepo(t *testing.T, db *sql.DB) VaultStore {
	t.Helper()
	storeDB := &DB{DB: db, placeholder: squirrel.Dollar, logger: logger.Nop()}
	return NewVaultRecordRepository(storeDB, logger.Nop())
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

var recordColumns = []string{
	"id", "app_name", "category", "package_name",
	"password", "username", "web_url", "website", "website_title",
}

func sampleWire() models.WireRecord {
	return models.WireRecord{
		ID:           "rec-1",
		AppName:      "blob-app",
		Category:     models.CategoryWebsite,
		PackageName:  "",
		Password:     "blob-pass",
		Username:     "blob-user",
		WebURL:       "blob-url",
		Website:      "example",
		WebsiteTitle: "blob-title",
	}
}

func TestVaultRecordRepository_UpsertRecord(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)
	record := sampleWire()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO vault_records")).
		WithArgs(
			"user-1", record.ID, record.AppName, record.Category, record.PackageName,
			record.Password, record.Username, record.WebURL, record.Website, record.WebsiteTitle,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.UpsertRecord(testContext(), "user-1", record))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVaultRecordRepository_UpsertRecordExecError(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO vault_records")).
		WillReturnError(errors.New("connection reset"))

	err := repo.UpsertRecord(testContext(), "user-1", sampleWire())
	assert.ErrorIs(t, err, ErrExecutingStatement)
}

func TestVaultRecordRepository_DeleteRecord(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM vault_records WHERE")).
		WithArgs("rec-9", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteRecord(testContext(), "user-1", "rec-9"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVaultRecordRepository_DeleteMissingRecordIsNoOp(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM vault_records WHERE")).
		WithArgs("never-existed", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.DeleteRecord(testContext(), "user-1", "never-existed"))
}

func TestVaultRecordRepository_GetUserRecords(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)
	record := sampleWire()

	rows := sqlmock.NewRows(recordColumns).AddRow(
		record.ID, string(record.AppName), string(record.Category), string(record.PackageName),
		string(record.Password), string(record.Username), string(record.WebURL), record.Website, string(record.WebsiteTitle),
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM vault_records")).
		WithArgs("user-1").
		WillReturnRows(rows)

	records, err := repo.GetUserRecords(testContext(), "user-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record, records[0])
}

func TestVaultRecordRepository_GetUserRecordsEmpty(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM vault_records")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(recordColumns))

	records, err := repo.GetUserRecords(testContext(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestVaultRecordRepository_GetUserRecordsQueryError(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM vault_records")).
		WillReturnError(errors.New("boom"))

	_, err := repo.GetUserRecords(testContext(), "user-1")
	assert.ErrorIs(t, err, ErrExecutingQuery)
}
