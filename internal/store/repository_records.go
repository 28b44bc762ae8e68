package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-cred-vault/internal/logger"
	"github.com/MKhiriev/go-cred-vault/models"
	"github.com/jackc/pgerrcode"
)

const vaultRecordsTable = "vault_records"

var vaultRecordColumns = []string{
	"user_id", "id", "app_name", "category", "package_name",
	"password", "username", "web_url", "website", "website_title",
}

// vaultRecordRepository is the SQL-backed implementation of [VaultStore].
// Queries are built with squirrel so the same code serves both the Postgres
// and SQLite backends via the DB's placeholder format.
type vaultRecordRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewVaultRecordRepository constructs a [VaultStore] backed by the provided
// database connection and logger.
func NewVaultRecordRepository(db *DB, logger *logger.Logger) VaultStore {
	logger.Debug().Msg("creating vault record repository")
	return &vaultRecordRepository{
		db:     db,
		logger: logger,
	}
}

// UpsertRecord implements [VaultStore]. Full-document overwrite: every
// column is replaced, matching the client's re-encrypt-everything contract.
func (r *vaultRecordRepository) UpsertRecord(ctx context.Context, userID string, record models.WireRecord) error {
	log := logger.FromContext(ctx)

	query, args, err := squirrel.Insert(vaultRecordsTable).
		Columns(append(vaultRecordColumns, "created_at")...).
		Values(
			userID, record.ID, record.AppName, record.Category, record.PackageName,
			record.Password, record.Username, record.WebURL, record.Website, record.WebsiteTitle,
			time.Now().UTC(),
		).
		Suffix(`ON CONFLICT (user_id, id) DO UPDATE SET
			app_name = excluded.app_name,
			category = excluded.category,
			package_name = excluded.package_name,
			password = excluded.password,
			username = excluded.username,
			web_url = excluded.web_url,
			website = excluded.website,
			website_title = excluded.website_title`).
		PlaceholderFormat(r.db.placeholder).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*vaultRecordRepository.UpsertRecord").
			Str("pg_code", postgresErrorCode(err)).
			Msg("error upserting vault record")

		// Two concurrent first-time inserts can still race into a unique
		// violation on some Postgres versions; one retry resolves it as an
		// update.
		if postgresErrorCode(err) == pgerrcode.UniqueViolation {
			if _, retryErr := r.db.ExecContext(ctx, query, args...); retryErr == nil {
				return nil
			}
		}
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// DeleteRecord implements [VaultStore]. Zero affected rows is success:
// delete is idempotent by contract.
func (r *vaultRecordRepository) DeleteRecord(ctx context.Context, userID, recordID string) error {
	log := logger.FromContext(ctx)

	query, args, err := squirrel.Delete(vaultRecordsTable).
		Where(squirrel.Eq{"user_id": userID, "id": recordID}).
		PlaceholderFormat(r.db.placeholder).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*vaultRecordRepository.DeleteRecord").Msg("error deleting vault record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// GetUserRecords implements [VaultStore].
func (r *vaultRecordRepository) GetUserRecords(ctx context.Context, userID string) ([]models.WireRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := squirrel.Select(vaultRecordColumns[1:]...).
		From(vaultRecordsTable).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at", "id").
		PlaceholderFormat(r.db.placeholder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*vaultRecordRepository.GetUserRecords").Msg("error querying vault records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.WireRecord, 0)
	for rows.Next() {
		var record models.WireRecord
		if err = rows.Scan(
			&record.ID, &record.AppName, &record.Category, &record.PackageName,
			&record.Password, &record.Username, &record.WebURL, &record.Website, &record.WebsiteTitle,
		); err != nil {
			log.Err(err).Str("func", "*vaultRecordRepository.GetUserRecords").Msg("error scanning vault record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}
