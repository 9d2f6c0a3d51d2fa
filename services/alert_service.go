package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cardarena/arena-admin/brackets"
	"github.com/cardarena/arena-admin/models"
	"github.com/cardarena/arena-admin/repositories"
	"github.com/google/uuid"
)

// AlertService records operational alerts and streams them to dashboard
// clients. Publish never fails the calling business operation: persistence
// and broadcast errors are logged and swallowed.
type AlertService interface {
	Publish(ctx context.Context, kind models.AlertKind, message string, tournamentID, userID *int)
	List(ctx context.Context, unackedOnly bool, limit int) ([]models.Alert, error)
	Acknowledge(ctx context.Context, id string) error
}

type alertService struct {
	alertRepo repositories.AlertRepository
	hub       *brackets.Hub
	logger    *slog.Logger
}

func NewAlertService(alertRepo repositories.AlertRepository, hub *brackets.Hub, logger *slog.Logger) AlertService {
	return &alertService{
		alertRepo: alertRepo,
		hub:       hub,
		logger:    logger,
	}
}

func (s *alertService) Publish(ctx context.Context, kind models.AlertKind, message string, tournamentID, userID *int) {
	alert := &models.Alert{
		ID:           uuid.New(),
		Kind:         kind,
		Message:      message,
		TournamentID: tournamentID,
		UserID:       userID,
	}
	if err := s.alertRepo.Create(ctx, alert); err != nil {
		s.logger.Error("failed to persist alert",
			slog.String("kind", string(kind)), slog.Any("error", err))
	}
	s.hub.BroadcastToRoom(brackets.AlertRoom, brackets.EventAlert, alert)
}

func (s *alertService) List(ctx context.Context, unackedOnly bool, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.alertRepo.List(ctx, unackedOnly, limit)
}

func (s *alertService) Acknowledge(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrAlertNotFound
	}
	if err := s.alertRepo.Acknowledge(ctx, id, time.Now().UTC()); err != nil {
		if errors.Is(err, repositories.ErrAlertNotFound) {
			return ErrAlertNotFound
		}
		return err
	}
	return nil
}
