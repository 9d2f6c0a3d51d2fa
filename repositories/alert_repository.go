package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cardarena/arena-admin/models"
)

var ErrAlertNotFound = errors.New("alert not found")

type AlertRepository interface {
	Create(ctx context.Context, alert *models.Alert) error
	List(ctx context.Context, unackedOnly bool, limit int) ([]models.Alert, error)
	Acknowledge(ctx context.Context, id string, ackedAt time.Time) error
	CountUnacked(ctx context.Context) (int, error)
}

type postgresAlertRepository struct {
	db *sql.DB
}

func NewPostgresAlertRepository(db *sql.DB) AlertRepository {
	return &postgresAlertRepository{db: db}
}

func (r *postgresAlertRepository) Create(ctx context.Context, a *models.Alert) error {
	query := `
		INSERT INTO alerts (id, kind, message, tournament_id, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.db.QueryRowContext(ctx, query,
		a.ID, a.Kind, a.Message, a.TournamentID, a.UserID,
	).Scan(&a.CreatedAt)
}

func (r *postgresAlertRepository) List(ctx context.Context, unackedOnly bool, limit int) ([]models.Alert, error) {
	query := `
		SELECT id, kind, message, tournament_id, user_id, acknowledged, acked_at, created_at
		FROM alerts`
	if unackedOnly {
		query += ` WHERE acknowledged = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := make([]models.Alert, 0)
	for rows.Next() {
		var a models.Alert
		if scanErr := rows.Scan(
			&a.ID, &a.Kind, &a.Message, &a.TournamentID, &a.UserID,
			&a.Acknowledged, &a.AckedAt, &a.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (r *postgresAlertRepository) Acknowledge(ctx context.Context, id string, ackedAt time.Time) error {
	query := `UPDATE alerts SET acknowledged = TRUE, acked_at = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, ackedAt, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAlertNotFound)
}

func (r *postgresAlertRepository) CountUnacked(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM alerts WHERE acknowledged = FALSE`).Scan(&count)
	return count, err
}
