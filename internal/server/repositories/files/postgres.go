package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mzarins/filedepot/internal/common"
	"github.com/mzarins/filedepot/internal/dbx"
	"github.com/mzarins/filedepot/internal/server/models"
)

// PostgresRepository implements file record storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const fileColumns = "id, owner_id, blob_ref, display_name, created_at"

func scanRecord(row *sql.Row) (*models.FileRecord, error) {
	f := &models.FileRecord{}
	err := row.Scan(&f.ID, &f.OwnerID, &f.BlobRef, &f.DisplayName, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.FileRecord, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE owner_id = $1 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	var result []*models.FileRecord
	for rows.Next() {
		var item models.FileRecord
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.BlobRef, &item.DisplayName, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.FileRecord, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByBlobRef(ctx context.Context, blobRef string) (*models.FileRecord, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE blob_ref = $1 ORDER BY id DESC LIMIT 1`
	return r.getOne(ctx, query, blobRef)
}

func (r *PostgresRepository) GetByOwnerAndBlobRef(ctx context.Context, ownerID int64, blobRef string) (*models.FileRecord, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE owner_id = $1 AND blob_ref = $2 ORDER BY id DESC LIMIT 1`

	f, err := scanRecord(r.db.QueryRowContext(ctx, query, ownerID, blobRef))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, ownerID int64, blobRef, displayName string) (*models.FileRecord, error) {
	query :=
		`INSERT INTO files (owner_id, blob_ref, display_name)
		 VALUES ($1, $2, $3)
		 RETURNING ` + fileColumns

	f, err := scanRecord(r.db.QueryRowContext(ctx, query, ownerID, blobRef, displayName))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID int64, blobRef string) error {
	query := `DELETE FROM files WHERE owner_id = $1 AND blob_ref = $2`

	if _, err := r.db.ExecContext(ctx, query, ownerID, blobRef); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CountByBlobRef(ctx context.Context, blobRef string) (int64, error) {
	query := `SELECT count(*) FROM files WHERE blob_ref = $1`

	var n int64
	if err := r.db.QueryRowContext(ctx, query, blobRef).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.FileRecord, error) {
	f, err := scanRecord(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}
