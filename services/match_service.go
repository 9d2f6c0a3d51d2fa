package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cardarena/arena-admin/models"
	"github.com/cardarena/arena-admin/repositories"
)

type CreateMatchInput struct {
	Player1ID int   `json:"player1_id"`
	Player2ID int   `json:"player2_id"`
	EntryCost int64 `json:"entry_cost"`
}

// MatchService manages standalone matches. Entry fees are debited from both
// players when the match is created; the winner takes the whole pot on
// completion, and cancellation refunds both sides. All coin movements go
// through the ledger inside the same transaction as the match row change,
// so a failed debit leaves neither a match nor a half-charged pair.
type MatchService interface {
	Create(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, filter repositories.ListMatchesFilter) ([]models.Match, error)
	Complete(ctx context.Context, matchID, winnerID int) (*models.Match, error)
	Cancel(ctx context.Context, matchID int) (*models.Match, error)
}

type matchService struct {
	tx        TxRunner
	matchRepo repositories.MatchRepository
	ledger    LedgerService
}

func NewMatchService(tx TxRunner, matchRepo repositories.MatchRepository, ledger LedgerService) MatchService {
	return &matchService{
		tx:        tx,
		matchRepo: matchRepo,
		ledger:    ledger,
	}
}

func (s *matchService) Create(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if input.Player1ID == input.Player2ID {
		return nil, ErrMatchPlayersMustDiffer
	}
	if input.EntryCost <= 0 {
		return nil, ErrInvalidEntryCost
	}

	match := &models.Match{
		Player1ID: input.Player1ID,
		Player2ID: input.Player2ID,
		EntryCost: input.EntryCost,
		Status:    models.MatchActive,
	}

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.Create(ctx, exec, match); err != nil {
			return err
		}
		for _, playerID := range []int{input.Player1ID, input.Player2ID} {
			_, err := s.ledger.RecordInTx(ctx, exec, RecordParams{
				UserID:      playerID,
				Type:        models.TransactionMatchEntry,
				Amount:      -input.EntryCost,
				Description: fmt.Sprintf("Entry fee for match %d", match.ID),
				MatchID:     &match.ID,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) List(ctx context.Context, filter repositories.ListMatchesFilter) ([]models.Match, error) {
	return s.matchRepo.List(ctx, filter)
}

func (s *matchService) Complete(ctx context.Context, matchID, winnerID int) (*models.Match, error) {
	match, err := s.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchActive {
		return nil, ErrWrongStatus
	}
	if !match.HasPlayer(winnerID) {
		return nil, ErrInvalidWinner
	}

	completedAt := time.Now().UTC()
	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		// Conditional on status=active, so a concurrent completion loses
		// here instead of paying the pot twice.
		if err := s.matchRepo.Complete(ctx, exec, matchID, winnerID, completedAt); err != nil {
			if errors.Is(err, repositories.ErrMatchNotActive) {
				return ErrWrongStatus
			}
			return err
		}
		_, err := s.ledger.RecordInTx(ctx, exec, RecordParams{
			UserID:      winnerID,
			Type:        models.TransactionMatchWin,
			Amount:      2 * match.EntryCost,
			Description: fmt.Sprintf("Winnings for match %d", matchID),
			MatchID:     &matchID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	match.Status = models.MatchCompleted
	match.WinnerID = &winnerID
	match.CompletedAt = &completedAt
	return match, nil
}

func (s *matchService) Cancel(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchCancelled {
		return match, nil
	}
	if match.Status != models.MatchActive {
		return nil, ErrWrongStatus
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.Cancel(ctx, exec, matchID); err != nil {
			if errors.Is(err, repositories.ErrMatchNotActive) {
				return ErrWrongStatus
			}
			return err
		}
		for _, playerID := range []int{match.Player1ID, match.Player2ID} {
			_, err := s.ledger.RecordInTx(ctx, exec, RecordParams{
				UserID:      playerID,
				Type:        models.TransactionAdminAdd,
				Amount:      match.EntryCost,
				Description: fmt.Sprintf("Entry fee refund, match %d cancelled", matchID),
				MatchID:     &matchID,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	match.Status = models.MatchCancelled
	return match, nil
}
