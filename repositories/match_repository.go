package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cardarena/arena-admin/models"
)

var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrMatchNotActive = errors.New("match is not active")
)

type ListMatchesFilter struct {
	Status   *models.MatchStatus
	PlayerID *int
	Limit    int
	Offset   int
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, filter ListMatchesFilter) ([]models.Match, error)
	// Complete and Cancel are conditional on the match still being active,
	// which makes concurrent double-completion a no-row update instead of a
	// lost race.
	Complete(ctx context.Context, exec SQLExecutor, id, winnerID int, completedAt time.Time) error
	Cancel(ctx context.Context, exec SQLExecutor, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches (player1_id, player2_id, entry_cost, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return executor.QueryRowContext(ctx, query,
		m.Player1ID, m.Player2ID, m.EntryCost, m.Status,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT id, player1_id, player2_id, entry_cost, winner_id, status, completed_at, created_at
		FROM matches
		WHERE id = $1`

	m := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Player1ID, &m.Player2ID, &m.EntryCost,
		&m.WinnerID, &m.Status, &m.CompletedAt, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) List(ctx context.Context, filter ListMatchesFilter) ([]models.Match, error) {
	query := `
		SELECT id, player1_id, player2_id, entry_cost, winner_id, status, completed_at, created_at
		FROM matches
		WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	if filter.PlayerID != nil {
		query += fmt.Sprintf(" AND (player1_id = $%d OR player2_id = $%d)", argID, argID)
		args = append(args, *filter.PlayerID)
		argID++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if scanErr := rows.Scan(
			&m.ID, &m.Player1ID, &m.Player2ID, &m.EntryCost,
			&m.WinnerID, &m.Status, &m.CompletedAt, &m.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) Complete(ctx context.Context, exec SQLExecutor, id, winnerID int, completedAt time.Time) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches
		SET status = $1, winner_id = $2, completed_at = $3
		WHERE id = $4 AND status = $5`

	result, err := executor.ExecContext(ctx, query,
		models.MatchCompleted, winnerID, completedAt, id, models.MatchActive,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotActive)
}

func (r *postgresMatchRepository) Cancel(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET status = $1 WHERE id = $2 AND status = $3`

	result, err := executor.ExecContext(ctx, query, models.MatchCancelled, id, models.MatchActive)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotActive)
}

func (r *postgresMatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count)
	return count, err
}
