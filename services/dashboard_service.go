package services

import (
	"context"

	"github.com/cardarena/arena-admin/models"
	"github.com/cardarena/arena-admin/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	GetStats(ctx context.Context) (models.DashboardStats, error)
}

type dashboardService struct {
	userRepo       repositories.UserRepository
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	alertRepo      repositories.AlertRepository
}

func NewDashboardService(
	userRepo repositories.UserRepository,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	alertRepo repositories.AlertRepository,
) DashboardService {
	return &dashboardService{
		userRepo:       userRepo,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		alertRepo:      alertRepo,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	active := models.StatusActive

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.UsersTotal, err = s.userRepo.Count(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.TournamentsTotal, err = s.tournamentRepo.Count(gCtx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		stats.ActiveTournaments, err = s.tournamentRepo.Count(gCtx, &active)
		return err
	})
	g.Go(func() error {
		var err error
		stats.MatchesTotal, err = s.matchRepo.Count(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.CoinsInCirculation, err = s.userRepo.TotalCoins(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.UnackedAlerts, err = s.alertRepo.CountUnacked(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, err
	}
	return stats, nil
}
