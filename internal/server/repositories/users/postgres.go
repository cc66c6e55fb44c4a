package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mzarins/filedepot/internal/common"
	"github.com/mzarins/filedepot/internal/dbx"
	"github.com/mzarins/filedepot/internal/server/models"
)

// PostgresRepository implements user storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = "id, identity_key, email, display_name, created_at"

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.IdentityKey, &u.Email, &u.DisplayName, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetOrCreate is a single upsert keyed on identity_key, so a read-then-write
// race between two first logins cannot produce two rows. Email and display
// name are refreshed from the identity provider on every login.
func (r *PostgresRepository) GetOrCreate(ctx context.Context, identityKey, email, displayName string) (*models.User, error) {
	query :=
		`INSERT INTO users (identity_key, email, display_name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (identity_key)
		 DO UPDATE SET email = EXCLUDED.email, display_name = EXCLUDED.display_name
		 RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, identityKey, email, displayName))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, identityKey, email, displayName string) (*models.User, error) {
	query :=
		`INSERT INTO users (identity_key, email, display_name)
		 VALUES ($1, $2, $3)
		 RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, identityKey, email, displayName))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByIdentityKey(ctx context.Context, identityKey string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE identity_key = $1`
	return r.getOne(ctx, query, identityKey)
}

// GetByEmail resolves a share recipient by display email. When several users
// carry the same email the oldest row wins.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 ORDER BY id LIMIT 1`
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}
