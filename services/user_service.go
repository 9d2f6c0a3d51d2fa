package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/cardarena/arena-admin/models"
	"github.com/cardarena/arena-admin/repositories"
)

// largeAdjustmentThreshold triggers an operational alert when an admin moves
// at least this many coins in one adjustment.
const largeAdjustmentThreshold = 10_000

type UserService interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	// AdjustCoins applies an admin correction through the ledger:
	// admin_add for positive amounts, admin_remove for negative.
	AdjustCoins(ctx context.Context, userID int, amount int64, reason string) (*models.Transaction, error)
	// PurchaseCoins credits a completed coin purchase. Payment capture
	// happens upstream; this only records the resulting coins.
	PurchaseCoins(ctx context.Context, userID int, amount int64) (*models.Transaction, error)
}

type userService struct {
	userRepo repositories.UserRepository
	ledger   LedgerService
	alerts   AlertService
}

func NewUserService(userRepo repositories.UserRepository, ledger LedgerService, alerts AlertService) UserService {
	return &userService{
		userRepo: userRepo,
		ledger:   ledger,
		alerts:   alerts,
	}
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *userService) AdjustCoins(ctx context.Context, userID int, amount int64, reason string) (*models.Transaction, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	txType := models.TransactionAdminAdd
	if amount < 0 {
		txType = models.TransactionAdminRemove
	}
	if reason == "" {
		reason = "Admin balance adjustment"
	}

	entry, err := s.ledger.Record(ctx, RecordParams{
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Description: reason,
	})
	if err != nil {
		return nil, err
	}

	if amount >= largeAdjustmentThreshold || amount <= -largeAdjustmentThreshold {
		s.alerts.Publish(ctx, models.AlertLargeAdjustment,
			fmt.Sprintf("Admin moved %d coins for user %d: %s", amount, userID, reason),
			nil, &userID)
	}
	return entry, nil
}

func (s *userService) PurchaseCoins(ctx context.Context, userID int, amount int64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.ledger.Record(ctx, RecordParams{
		UserID:      userID,
		Type:        models.TransactionCoinPurchase,
		Amount:      amount,
		Description: fmt.Sprintf("Purchase of %d coins", amount),
	})
}
