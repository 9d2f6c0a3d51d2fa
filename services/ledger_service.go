package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/cardarena/arena-admin/models"
	"github.com/cardarena/arena-admin/repositories"
)

// RecordParams describes one coin movement. Amount is signed: debits
// negative, credits positive.
type RecordParams struct {
	UserID       int
	Type         models.TransactionType
	Amount       int64
	Description  string
	MatchID      *int
	TournamentID *int
}

// LedgerService is the only path that moves coins. Every Record adjusts the
// cached balance and appends exactly one immutable transaction entry in a
// single database transaction, so the cached balance always reconciles with
// the signed sum of the user's entries. A debit that would go negative
// writes nothing and fails with ErrInsufficientFunds.
type LedgerService interface {
	Record(ctx context.Context, params RecordParams) (*models.Transaction, error)
	// RecordInTx is Record riding a caller-managed transaction, for flows
	// that must commit or roll back the ledger entry together with other
	// state (tournament joins, settlements, refunds).
	RecordInTx(ctx context.Context, exec repositories.SQLExecutor, params RecordParams) (*models.Transaction, error)
	BalanceOf(ctx context.Context, userID int) (int64, error)
	History(ctx context.Context, filter repositories.ListTransactionsFilter) ([]models.Transaction, error)
	// Reconcile returns the cached balance and the ledger sum side by side.
	Reconcile(ctx context.Context, userID int) (cached int64, ledger int64, err error)
}

type ledgerService struct {
	tx              TxRunner
	userRepo        repositories.UserRepository
	transactionRepo repositories.TransactionRepository
}

func NewLedgerService(
	tx TxRunner,
	userRepo repositories.UserRepository,
	transactionRepo repositories.TransactionRepository,
) LedgerService {
	return &ledgerService{
		tx:              tx,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
	}
}

func (s *ledgerService) Record(ctx context.Context, params RecordParams) (*models.Transaction, error) {
	var entry *models.Transaction
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var txErr error
		entry, txErr = s.RecordInTx(ctx, exec, params)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) RecordInTx(ctx context.Context, exec repositories.SQLExecutor, params RecordParams) (*models.Transaction, error) {
	if params.Amount == 0 {
		return nil, fmt.Errorf("%w: transaction amount must be non-zero", ErrValidationFailed)
	}

	// The conditional balance update serializes concurrent movements per
	// user and rejects over-debits before anything is written.
	if err := s.userRepo.AdjustBalance(ctx, exec, params.UserID, params.Amount); err != nil {
		switch {
		case errors.Is(err, repositories.ErrBalanceTooLow):
			return nil, ErrInsufficientFunds
		case errors.Is(err, repositories.ErrUserNotFound):
			return nil, ErrUserNotFound
		default:
			return nil, fmt.Errorf("failed to adjust balance for user %d: %w", params.UserID, err)
		}
	}

	entry := &models.Transaction{
		UserID:       params.UserID,
		Type:         params.Type,
		Amount:       params.Amount,
		Description:  params.Description,
		MatchID:      params.MatchID,
		TournamentID: params.TournamentID,
	}
	if err := s.transactionRepo.Create(ctx, exec, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) BalanceOf(ctx context.Context, userID int) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return user.Balance, nil
}

func (s *ledgerService) History(ctx context.Context, filter repositories.ListTransactionsFilter) ([]models.Transaction, error) {
	return s.transactionRepo.List(ctx, filter)
}

func (s *ledgerService) Reconcile(ctx context.Context, userID int) (int64, int64, error) {
	cached, err := s.BalanceOf(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	ledger, err := s.transactionRepo.SumByUser(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return cached, ledger, nil
}
