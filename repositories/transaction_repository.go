package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cardarena/arena-admin/models"
)

type ListTransactionsFilter struct {
	UserID       *int
	Type         *models.TransactionType
	TournamentID *int
	Limit        int
	Offset       int
}

// TransactionRepository persists ledger entries. Entries are append-only:
// there is deliberately no Update or Delete.
type TransactionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tx *models.Transaction) error
	List(ctx context.Context, filter ListTransactionsFilter) ([]models.Transaction, error)
	// SumByUser returns the signed sum of a user's entries, used to
	// reconcile the cached balance against the ledger.
	SumByUser(ctx context.Context, userID int) (int64, error)
}

type postgresTransactionRepository struct {
	db *sql.DB
}

func NewPostgresTransactionRepository(db *sql.DB) TransactionRepository {
	return &postgresTransactionRepository{db: db}
}

func (r *postgresTransactionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTransactionRepository) Create(ctx context.Context, exec SQLExecutor, tx *models.Transaction) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO transactions (user_id, type, amount, description, match_id, tournament_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		tx.UserID, tx.Type, tx.Amount, tx.Description, tx.MatchID, tx.TournamentID,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *postgresTransactionRepository) List(ctx context.Context, filter ListTransactionsFilter) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, type, amount, description, match_id, tournament_id, created_at
		FROM transactions
		WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.UserID != nil {
		query += fmt.Sprintf(" AND user_id = $%d", argID)
		args = append(args, *filter.UserID)
		argID++
	}
	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argID)
		args = append(args, *filter.Type)
		argID++
	}
	if filter.TournamentID != nil {
		query += fmt.Sprintf(" AND tournament_id = $%d", argID)
		args = append(args, *filter.TournamentID)
		argID++
	}

	// id is assigned by an increasing sequence, so this is creation order.
	query += " ORDER BY id DESC"

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

	transactions := make([]models.Transaction, 0)
	for rows.Next() {
		var tx models.Transaction
		if scanErr := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Type, &tx.Amount, &tx.Description,
			&tx.MatchID, &tx.TournamentID, &tx.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func (r *postgresTransactionRepository) SumByUser(ctx context.Context, userID int) (int64, error) {
	var sum int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1`,
		userID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum transactions for user %d: %w", userID, err)
	}
	return sum, nil
}
