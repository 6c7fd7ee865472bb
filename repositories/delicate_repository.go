package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iqasport/referee-hub-sub000/models"
	"github.com/lib/pq"
)

var ErrDelicateInfoNotFound = errors.New("user delicate info not found")

type DelicateInfoRepository interface {
	GetByUserID(ctx context.Context, userID int) (*models.UserDelicateInfo, error)
	GetByUserIDs(ctx context.Context, userIDs []int) (map[int]*models.UserDelicateInfo, error)
	Upsert(ctx context.Context, info *models.UserDelicateInfo) error
	DeleteByUserID(ctx context.Context, userID int) error
}

type postgresDelicateInfoRepository struct {
	db *sql.DB
}

func NewPostgresDelicateInfoRepository(db *sql.DB) DelicateInfoRepository {
	return &postgresDelicateInfoRepository{db: db}
}

func (r *postgresDelicateInfoRepository) GetByUserID(ctx context.Context, userID int) (*models.UserDelicateInfo, error) {
	query := `SELECT user_id, gender, created_at FROM user_delicate_info WHERE user_id = $1`
	info := &models.UserDelicateInfo{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&info.UserID, &info.Gender, &info.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDelicateInfoNotFound
		}
		return nil, fmt.Errorf("failed to get delicate info for user %d: %w", userID, err)
	}
	return info, nil
}

func (r *postgresDelicateInfoRepository) GetByUserIDs(ctx context.Context, userIDs []int) (map[int]*models.UserDelicateInfo, error) {
	byUser := make(map[int]*models.UserDelicateInfo, len(userIDs))
	if len(userIDs) == 0 {
		return byUser, nil
	}
	query := `SELECT user_id, gender, created_at FROM user_delicate_info WHERE user_id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list delicate info: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var info models.UserDelicateInfo
		if err := rows.Scan(&info.UserID, &info.Gender, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan delicate info row: %w", err)
		}
		byUser[info.UserID] = &info
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delicate info rows: %w", err)
	}
	return byUser, nil
}

func (r *postgresDelicateInfoRepository) Upsert(ctx context.Context, info *models.UserDelicateInfo) error {
	query := `
		INSERT INTO user_delicate_info (user_id, gender)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET gender = EXCLUDED.gender
		RETURNING created_at`
	if err := r.db.QueryRowContext(ctx, query, info.UserID, info.Gender).Scan(&info.CreatedAt); err != nil {
		return fmt.Errorf("failed to upsert delicate info for user %d: %w", info.UserID, err)
	}
	return nil
}

func (r *postgresDelicateInfoRepository) DeleteByUserID(ctx context.Context, userID int) error {
	query := `DELETE FROM user_delicate_info WHERE user_id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete delicate info for user %d: %w", userID, err)
	}
	return checkAffectedRows(result, ErrDelicateInfoNotFound)
}
