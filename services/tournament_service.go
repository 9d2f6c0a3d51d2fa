package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cardarena/arena-admin/brackets"
	"github.com/cardarena/arena-admin/models"
	"github.com/cardarena/arena-admin/repositories"
	"github.com/cardarena/arena-admin/storage"
	"github.com/google/uuid"
)

// maxVersionRetries bounds how often an operation is retried after losing
// the optimistic-locking race before ErrConcurrentUpdate is surfaced.
const maxVersionRetries = 3

type CreateTournamentInput struct {
	Name            string                `json:"name"`
	Type            models.TournamentType `json:"type"`
	MaxPlayers      int                   `json:"max_players"`
	EntryCost       int64                 `json:"entry_cost"`
	PrizePool       int64                 `json:"prize_pool"`
	AwardPercentage *int                  `json:"award_percentage,omitempty"`
}

type ListTournamentsFilter struct {
	Status *models.TournamentStatus
	Type   *models.TournamentType
	Limit  int
	Offset int
}

// TournamentService orchestrates the tournament lifecycle: registration,
// bracket generation, round advancement and coin settlement. All writes to
// one tournament are serialized through a version compare-and-swap: the
// tournament is read, mutated in memory, and written back together with its
// ledger entries in one database transaction that only commits if the
// version is still the one that was read.
type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	Join(ctx context.Context, tournamentID, userID int) (*models.Tournament, error)
	Leave(ctx context.Context, tournamentID, userID int) (*models.Tournament, error)
	Start(ctx context.Context, tournamentID int) (*models.Tournament, error)
	ReportResult(ctx context.Context, tournamentID int, matchUID string, winnerID int) (*models.Tournament, error)
	Cancel(ctx context.Context, tournamentID int, reason string) (*models.Tournament, error)
	UploadBanner(ctx context.Context, tournamentID int, contentType string, body io.Reader) (*models.Tournament, error)
}

type tournamentService struct {
	tx             TxRunner
	tournamentRepo repositories.TournamentRepository
	ledger         LedgerService
	alerts         AlertService
	hub            *brackets.Hub
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTournamentService(
	tx TxRunner,
	tournamentRepo repositories.TournamentRepository,
	ledger LedgerService,
	alerts AlertService,
	hub *brackets.Hub,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		ledger:         ledger,
		alerts:         alerts,
		hub:            hub,
		uploader:       uploader,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, ErrTournamentNameRequired
	}
	if input.MaxPlayers != 4 && input.MaxPlayers != 8 {
		return nil, ErrInvalidMaxPlayers
	}
	if input.EntryCost <= 0 {
		return nil, ErrInvalidEntryCost
	}
	if input.PrizePool <= 0 {
		return nil, ErrInvalidPrizePool
	}
	award := models.DefaultAwardPercentage
	if input.AwardPercentage != nil {
		award = *input.AwardPercentage
		if award < 0 || award > 100 {
			return nil, ErrInvalidAwardPercentage
		}
	}
	if input.Type == "" {
		input.Type = models.TournamentPublic
	}
	if input.Type != models.TournamentPublic && input.Type != models.TournamentPrivate {
		return nil, fmt.Errorf("%w: unknown tournament type %q", ErrValidationFailed, input.Type)
	}

	tournament := &models.Tournament{
		Name:            input.Name,
		Type:            input.Type,
		MaxPlayers:      input.MaxPlayers,
		EntryCost:       input.EntryCost,
		PrizePool:       input.PrizePool,
		AwardPercentage: award,
		Status:          models.StatusRegistration,
		Participants:    []int{},
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	s.resolveBannerURL(tournament)
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	s.resolveBannerURL(tournament)
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, repositories.ListTournamentsFilter{
		Status: filter.Status,
		Type:   filter.Type,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
	if err != nil {
		return nil, err
	}
	for i := range tournaments {
		s.resolveBannerURL(&tournaments[i])
	}
	return tournaments, nil
}

// errNoop aborts the surrounding transaction without surfacing an error to
// the caller; used for idempotent retries of cancel and settlement.
var errNoop = errors.New("no-op")

// withTournament reads the tournament, applies op to the in-memory copy, and
// persists it with a version CAS inside one transaction. Ledger writes done
// by op through the same executor commit or roll back atomically with the
// tournament row. Lost races are retried with a fresh read.
func (s *tournamentService) withTournament(ctx context.Context, id int, op func(t *models.Tournament, exec repositories.SQLExecutor) error) (*models.Tournament, error) {
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		tournament, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
			if opErr := op(tournament, exec); opErr != nil {
				return opErr
			}
			return s.tournamentRepo.UpdateWithVersion(ctx, exec, tournament)
		})
		if errors.Is(err, repositories.ErrVersionConflict) {
			s.logger.Warn("tournament version conflict, retrying",
				slog.Int("tournament_id", id), slog.Int("attempt", attempt+1))
			continue
		}
		if errors.Is(err, errNoop) {
			return tournament, nil
		}
		if err != nil {
			return nil, err
		}
		return tournament, nil
	}
	return nil, ErrConcurrentUpdate
}

func (s *tournamentService) Join(ctx context.Context, tournamentID, userID int) (*models.Tournament, error) {
	tournament, err := s.withTournament(ctx, tournamentID, func(t *models.Tournament, exec repositories.SQLExecutor) error {
		if t.Status != models.StatusRegistration {
			return ErrWrongStatus
		}
		if t.HasParticipant(userID) {
			return ErrAlreadyJoined
		}
		if len(t.Participants) >= t.MaxPlayers {
			return ErrTournamentFull
		}

		_, err := s.ledger.RecordInTx(ctx, exec, RecordParams{
			UserID:       userID,
			Type:         models.TransactionTournamentEntry,
			Amount:       -t.EntryCost,
			Description:  fmt.Sprintf("Entry fee for tournament %q", t.Name),
			TournamentID: &t.ID,
		})
		if err != nil {
			return err
		}

		t.Participants = append(t.Participants, userID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToRoom(brackets.TournamentRoom(tournamentID), brackets.EventBracketUpdated, tournament)
	return tournament, nil
}

func (s *tournamentService) Leave(ctx context.Context, tournamentID, userID int) (*models.Tournament, error) {
	return s.withTournament(ctx, tournamentID, func(t *models.Tournament, exec repositories.SQLExecutor) error {
		if t.Status != models.StatusRegistration {
			return ErrWrongStatus
		}
		if !t.HasParticipant(userID) {
			return ErrNotJoined
		}

		_, err := s.ledger.RecordInTx(ctx, exec, RecordParams{
			UserID:       userID,
			Type:         models.TransactionAdminAdd,
			Amount:       t.EntryCost,
			Description:  fmt.Sprintf("Entry fee refund, left tournament %q", t.Name),
			TournamentID: &t.ID,
		})
		if err != nil {
			return err
		}

		remaining := make([]int, 0, len(t.Participants)-1)
		for _, id := range t.Participants {
			if id != userID {
				remaining = append(remaining, id)
			}
		}
		t.Participants = remaining
		return nil
	})
}

func (s *tournamentService) Start(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.withTournament(ctx, tournamentID, func(t *models.Tournament, exec repositories.SQLExecutor) error {
		if t.Status != models.StatusRegistration {
			return ErrWrongStatus
		}
		if len(t.Participants) != t.MaxPlayers {
			return ErrIncompleteRoster
		}

		bracket, buildErr := brackets.Build(t.Participants, t.MaxPlayers)
		if buildErr != nil {
			return fmt.Errorf("%w: %v", ErrValidationFailed, buildErr)
		}
		t.Bracket = bracket
		t.Status = models.StatusActive
		t.CurrentRound = 1
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tournament started",
		slog.Int("tournament_id", tournamentID),
		slog.Int("players", tournament.MaxPlayers))
	s.hub.BroadcastToRoom(brackets.TournamentRoom(tournamentID), brackets.EventBracketUpdated, tournament)
	return tournament, nil
}

func (s *tournamentService) ReportResult(ctx context.Context, tournamentID int, matchUID string, winnerID int) (*models.Tournament, error) {
	settledNow := false
	tournament, err := s.withTournament(ctx, tournamentID, func(t *models.Tournament, exec repositories.SQLExecutor) error {
		settledNow = false
		if t.Status == models.StatusCompleted && t.PrizeDistributed {
			// Idempotent retry of the final result: already settled, treat
			// as success without touching the ledger again.
			return errNoop
		}
		if t.Status != models.StatusActive || t.Bracket == nil {
			return ErrWrongStatus
		}

		outcome, advErr := brackets.Advance(t.Bracket, t.CurrentRound, matchUID, winnerID, time.Now().UTC())
		if advErr != nil {
			switch {
			case errors.Is(advErr, brackets.ErrMatchNotFound):
				return ErrMatchNotFound
			case errors.Is(advErr, brackets.ErrStaleMatch):
				return ErrStaleMatch
			case errors.Is(advErr, brackets.ErrInvalidWinner):
				return ErrInvalidWinner
			default:
				return advErr
			}
		}

		if outcome.ChampionID == nil {
			if outcome.RoundCompleted {
				t.CurrentRound++
			}
			return nil
		}

		if err := s.settle(ctx, exec, t, *outcome.ChampionID); err != nil {
			return err
		}
		settledNow = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	room := brackets.TournamentRoom(tournamentID)
	s.hub.BroadcastToRoom(room, brackets.EventBracketUpdated, tournament)
	if settledNow {
		s.hub.BroadcastToRoom(room, brackets.EventTournamentCompleted, tournament)
		s.alerts.Publish(ctx, models.AlertTournamentCompleted,
			fmt.Sprintf("Tournament %q completed, champion %d awarded %d coins",
				tournament.Name, *tournament.WinnerID, tournament.PrizeAmount()),
			&tournament.ID, tournament.WinnerID)
	}
	return tournament, nil
}

// settle pays the champion exactly once. The prize_distributed flag is
// flipped in the same versioned write as the credit, so a concurrent or
// retried settlement either sees the flag or loses the version CAS.
func (s *tournamentService) settle(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, championID int) error {
	if t.PrizeDistributed {
		return ErrAlreadySettled
	}

	prize := t.PrizeAmount()
	if prize > 0 {
		_, err := s.ledger.RecordInTx(ctx, exec, RecordParams{
			UserID:       championID,
			Type:         models.TransactionTournamentWin,
			Amount:       prize,
			Description:  fmt.Sprintf("Champion prize for tournament %q", t.Name),
			TournamentID: &t.ID,
		})
		if err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	t.WinnerID = &championID
	t.PrizeDistributed = true
	t.Status = models.StatusCompleted
	t.CompletedAt = &now

	s.logger.Info("tournament settled",
		slog.Int("tournament_id", t.ID),
		slog.Int("champion_id", championID),
		slog.Int64("prize", prize))
	return nil
}

func (s *tournamentService) Cancel(ctx context.Context, tournamentID int, reason string) (*models.Tournament, error) {
	cancelledNow := false
	tournament, err := s.withTournament(ctx, tournamentID, func(t *models.Tournament, exec repositories.SQLExecutor) error {
		cancelledNow = false
		if t.Status == models.StatusCancelled {
			// Re-cancelling is a no-op, not a double refund.
			return errNoop
		}
		if t.Status == models.StatusCompleted {
			return ErrWrongStatus
		}

		// Every current participant holds exactly one outstanding entry
		// debit (leavers were refunded on the way out), so one offsetting
		// credit each settles the whole roster.
		for _, userID := range t.Participants {
			_, err := s.ledger.RecordInTx(ctx, exec, RecordParams{
				UserID:       userID,
				Type:         models.TransactionAdminAdd,
				Amount:       t.EntryCost,
				Description:  fmt.Sprintf("Entry fee refund, tournament %q cancelled", t.Name),
				TournamentID: &t.ID,
			})
			if err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		t.Status = models.StatusCancelled
		t.CancelledAt = &now
		if reason != "" {
			t.CancellationReason = &reason
		}
		cancelledNow = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cancelledNow {
		s.hub.BroadcastToRoom(brackets.TournamentRoom(tournamentID), brackets.EventTournamentCancelled, tournament)
		s.alerts.Publish(ctx, models.AlertTournamentCancelled,
			fmt.Sprintf("Tournament %q cancelled: %s", tournament.Name, reason),
			&tournament.ID, nil)
	}
	return tournament, nil
}

func (s *tournamentService) UploadBanner(ctx context.Context, tournamentID int, contentType string, body io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, ErrBannersDisabled
	}
	tournament, err := s.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tournaments/%d/banner-%s", tournamentID, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("failed to upload banner: %w", err)
	}

	oldKey := tournament.BannerKey
	if err := s.tournamentRepo.UpdateBannerKey(ctx, tournamentID, &result.Key); err != nil {
		return nil, err
	}
	if oldKey != nil {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			s.logger.Warn("failed to delete previous banner",
				slog.String("key", *oldKey), slog.Any("error", delErr))
		}
	}

	tournament.BannerKey = &result.Key
	s.resolveBannerURL(tournament)
	return tournament, nil
}

func (s *tournamentService) resolveBannerURL(t *models.Tournament) {
	if s.uploader == nil || t.BannerKey == nil {
		return
	}
	url := s.uploader.GetPublicURL(*t.BannerKey)
	if url != "" {
		t.BannerURL = &url
	}
}
