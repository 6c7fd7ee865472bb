package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iqasport/referee-hub-sub000/models"
	"github.com/lib/pq"
)

type CertificationRepository interface {
	// AwardBatch inserts the awarded levels for a user; levels the user
	// already holds are skipped.
	AwardBatch(ctx context.Context, userID int, levels []models.CertificationLevel) error
	ListByUserID(ctx context.Context, userID int) ([]*models.RefereeCertification, error)
	ListLevelsByUserIDs(ctx context.Context, userIDs []int) (map[int][]models.CertificationLevel, error)
}

type postgresCertificationRepository struct {
	db *sql.DB
}

func NewPostgresCertificationRepository(db *sql.DB) CertificationRepository {
	return &postgresCertificationRepository{db: db}
}

func (r *postgresCertificationRepository) AwardBatch(ctx context.Context, userID int, levels []models.CertificationLevel) error {
	if len(levels) == 0 {
		return nil
	}
	query := `
		INSERT INTO referee_certifications (user_id, level)
		SELECT $1, unnest($2::certification_level[])
		ON CONFLICT (user_id, level) DO NOTHING`

	strLevels := make([]string, len(levels))
	for i, l := range levels {
		strLevels[i] = string(l)
	}
	if _, err := r.db.ExecContext(ctx, query, userID, pq.Array(strLevels)); err != nil {
		return fmt.Errorf("failed to award certifications for user %d: %w", userID, err)
	}
	return nil
}

func (r *postgresCertificationRepository) ListByUserID(ctx context.Context, userID int) ([]*models.RefereeCertification, error) {
	query := `SELECT id, user_id, level, awarded_at FROM referee_certifications WHERE user_id = $1 ORDER BY awarded_at ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list certifications for user %d: %w", userID, err)
	}
	defer rows.Close()

	certs := make([]*models.RefereeCertification, 0)
	for rows.Next() {
		var c models.RefereeCertification
		if err := rows.Scan(&c.ID, &c.UserID, &c.Level, &c.AwardedAt); err != nil {
			return nil, fmt.Errorf("failed to scan certification row: %w", err)
		}
		certs = append(certs, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating certification rows: %w", err)
	}
	return certs, nil
}

func (r *postgresCertificationRepository) ListLevelsByUserIDs(ctx context.Context, userIDs []int) (map[int][]models.CertificationLevel, error) {
	byUser := make(map[int][]models.CertificationLevel, len(userIDs))
	if len(userIDs) == 0 {
		return byUser, nil
	}
	query := `SELECT user_id, level FROM referee_certifications WHERE user_id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list certification levels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int
		var level models.CertificationLevel
		if err := rows.Scan(&userID, &level); err != nil {
			return nil, fmt.Errorf("failed to scan certification level row: %w", err)
		}
		byUser[userID] = append(byUser[userID], level)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating certification level rows: %w", err)
	}
	return byUser, nil
}
