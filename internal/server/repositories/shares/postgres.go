package shares

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mzarins/filedepot/internal/common"
	"github.com/mzarins/filedepot/internal/dbx"
	"github.com/mzarins/filedepot/internal/server/models"
)

// PostgresRepository implements share storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const shareColumns = "id, blob_ref, display_name, sender_id, recipient_id, status, created_at"

func scanShare(row *sql.Row) (*models.PendingShare, error) {
	s := &models.PendingShare{}
	err := row.Scan(&s.ID, &s.BlobRef, &s.DisplayName, &s.SenderID, &s.RecipientID, &s.Status, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, senderID, recipientID int64, blobRef, displayName string) (*models.PendingShare, error) {
	query :=
		`INSERT INTO shares (blob_ref, display_name, sender_id, recipient_id, status)
		 VALUES ($1, $2, $3, $4, 'pending')
		 RETURNING ` + shareColumns

	s, err := scanShare(r.db.QueryRowContext(ctx, query, blobRef, displayName, senderID, recipientID))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.PendingShare, error) {
	query := `SELECT ` + shareColumns + ` FROM shares WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByBlobRef(ctx context.Context, blobRef string) (*models.PendingShare, error) {
	query := `SELECT ` + shareColumns + ` FROM shares WHERE blob_ref = $1 ORDER BY id DESC LIMIT 1`
	return r.getOne(ctx, query, blobRef)
}

func (r *PostgresRepository) ListPendingForRecipient(ctx context.Context, recipientID int64) ([]*models.PendingShare, error) {
	query := `SELECT ` + shareColumns + ` FROM shares WHERE recipient_id = $1 AND status = 'pending' ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to select shares: %w", err)
	}
	defer rows.Close()

	var result []*models.PendingShare
	for rows.Next() {
		var item models.PendingShare
		if err := rows.Scan(&item.ID, &item.BlobRef, &item.DisplayName, &item.SenderID, &item.RecipientID, &item.Status, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) MarkAccepted(ctx context.Context, id int64) error {
	query := `UPDATE shares SET status = 'accepted' WHERE id = $1 AND status = 'pending'`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrInvalidState
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM shares WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.PendingShare, error) {
	s, err := scanShare(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}
