package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iqasport/referee-hub-sub000/models"
)

var ErrNGBNotFound = errors.New("national governing body not found")

type NGBRepository interface {
	GetByID(ctx context.Context, id int) (*models.NationalGoverningBody, error)
	IsAdmin(ctx context.Context, ngbID, userID int) (bool, error)
	ListAdminNGBIDs(ctx context.Context, userID int) ([]int, error)
}

type postgresNGBRepository struct {
	db *sql.DB
}

func NewPostgresNGBRepository(db *sql.DB) NGBRepository {
	return &postgresNGBRepository{db: db}
}

func (r *postgresNGBRepository) GetByID(ctx context.Context, id int) (*models.NationalGoverningBody, error) {
	query := `SELECT id, name, country, logo_key, created_at FROM ngbs WHERE id = $1`
	ngb := &models.NationalGoverningBody{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&ngb.ID, &ngb.Name, &ngb.Country, &ngb.LogoKey, &ngb.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNGBNotFound
		}
		return nil, fmt.Errorf("failed to get ngb %d: %w", id, err)
	}
	return ngb, nil
}

func (r *postgresNGBRepository) IsAdmin(ctx context.Context, ngbID, userID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM ngb_admins WHERE ngb_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, ngbID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check ngb admin: %w", err)
	}
	return exists, nil
}

func (r *postgresNGBRepository) ListAdminNGBIDs(ctx context.Context, userID int) ([]int, error) {
	query := `SELECT ngb_id FROM ngb_admins WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin ngbs: %w", err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan ngb id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ngb admin rows: %w", err)
	}
	return ids, nil
}
