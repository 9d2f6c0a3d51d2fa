package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cardarena/arena-admin/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
	// ErrVersionConflict signals a lost optimistic-locking race: the row was
	// written by someone else between our read and our write.
	ErrVersionConflict = errors.New("tournament version conflict")
)

type ListTournamentsFilter struct {
	Status *models.TournamentStatus
	Type   *models.TournamentType
	Limit  int
	Offset int
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	// UpdateWithVersion writes the full mutable state of the tournament,
	// guarded by the version the caller read. Returns ErrVersionConflict if
	// the row moved on in the meantime.
	UpdateWithVersion(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	UpdateBannerKey(ctx context.Context, tournamentID int, bannerKey *string) error
	Count(ctx context.Context, status *models.TournamentStatus) (int, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `
	id, name, type, max_players, entry_cost, prize_pool, award_percentage,
	status, participants, bracket, current_round, winner_id, prize_distributed,
	completed_at, cancelled_at, cancellation_reason, banner_key, version, created_at`

func scanTournament(row interface {
	Scan(dest ...interface{}) error
}) (*models.Tournament, error) {
	t := &models.Tournament{}
	var participants pq.Int64Array
	var bracketRaw []byte

	err := row.Scan(
		&t.ID, &t.Name, &t.Type, &t.MaxPlayers, &t.EntryCost, &t.PrizePool,
		&t.AwardPercentage, &t.Status, &participants, &bracketRaw,
		&t.CurrentRound, &t.WinnerID, &t.PrizeDistributed, &t.CompletedAt,
		&t.CancelledAt, &t.CancellationReason, &t.BannerKey, &t.Version, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Participants = make([]int, len(participants))
	for i, id := range participants {
		t.Participants[i] = int(id)
	}
	if len(bracketRaw) > 0 {
		bracket := &models.Bracket{}
		if err := json.Unmarshal(bracketRaw, bracket); err != nil {
			return nil, fmt.Errorf("failed to decode bracket column: %w", err)
		}
		t.Bracket = bracket
	}
	return t, nil
}

func participantsArray(t *models.Tournament) pq.Int64Array {
	arr := make(pq.Int64Array, len(t.Participants))
	for i, id := range t.Participants {
		arr[i] = int64(id)
	}
	return arr
}

func bracketValue(t *models.Tournament) interface{} {
	if t.Bracket == nil {
		return nil
	}
	return *t.Bracket
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (
			name, type, max_players, entry_cost, prize_pool, award_percentage,
			status, participants, banner_key
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, version, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Type, t.MaxPlayers, t.EntryCost, t.PrizePool, t.AwardPercentage,
		t.Status, participantsArray(t), t.BannerKey,
	).Scan(&t.ID, &t.Version, &t.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrTournamentNameConflict
		}
		return err
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argID)
		args = append(args, *filter.Type)
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

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, *t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) UpdateWithVersion(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE tournaments SET
			status = $1,
			participants = $2,
			bracket = $3,
			current_round = $4,
			winner_id = $5,
			prize_distributed = $6,
			completed_at = $7,
			cancelled_at = $8,
			cancellation_reason = $9,
			version = version + 1
		WHERE id = $10 AND version = $11`

	result, err := executor.ExecContext(ctx, query,
		t.Status, participantsArray(t), bracketValue(t), t.CurrentRound,
		t.WinnerID, t.PrizeDistributed, t.CompletedAt, t.CancelledAt,
		t.CancellationReason, t.ID, t.Version,
	)
	if err != nil {
		return err
	}
	if err := checkAffectedRows(result, ErrVersionConflict); err != nil {
		return err
	}
	t.Version++
	return nil
}

func (r *postgresTournamentRepository) UpdateBannerKey(ctx context.Context, tournamentID int, bannerKey *string) error {
	query := `UPDATE tournaments SET banner_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, bannerKey, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to update tournament banner key: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Count(ctx context.Context, status *models.TournamentStatus) (int, error) {
	query := `SELECT COUNT(*) FROM tournaments`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	var count int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}
