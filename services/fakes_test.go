package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/cardarena/arena-admin/brackets"
	"github.com/cardarena/arena-admin/models"
	"github.com/cardarena/arena-admin/repositories"
)

// fakeStore is the in-memory backing state shared by the fake repositories.
// fakeTxRunner snapshots and restores it to mimic transaction rollback.
type fakeStore struct {
	users        map[int]*models.User
	tournaments  map[int]*models.Tournament
	matches      map[int]*models.Match
	transactions []models.Transaction
	alerts       []models.Alert

	nextTournamentID int
	nextMatchID      int
	nextUserID       int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[int]*models.User),
		tournaments: make(map[int]*models.Tournament),
		matches:     make(map[int]*models.Match),
	}
}

func (s *fakeStore) seedUser(id int, balance int64) {
	s.users[id] = &models.User{
		ID:      id,
		Role:    models.RolePlayer,
		Balance: balance,
	}
	if id >= s.nextUserID {
		s.nextUserID = id + 1
	}
}

func cloneTournament(t *models.Tournament) *models.Tournament {
	c := *t
	c.Participants = append([]int(nil), t.Participants...)
	if t.Bracket != nil {
		b := models.Bracket{Size: t.Bracket.Size, Rounds: make([][]models.BracketMatch, len(t.Bracket.Rounds))}
		for i, round := range t.Bracket.Rounds {
			b.Rounds[i] = append([]models.BracketMatch(nil), round...)
		}
		c.Bracket = &b
	}
	return &c
}

func (s *fakeStore) snapshot() *fakeStore {
	snap := newFakeStore()
	snap.nextTournamentID = s.nextTournamentID
	snap.nextMatchID = s.nextMatchID
	snap.nextUserID = s.nextUserID
	for id, u := range s.users {
		c := *u
		snap.users[id] = &c
	}
	for id, t := range s.tournaments {
		snap.tournaments[id] = cloneTournament(t)
	}
	for id, m := range s.matches {
		c := *m
		snap.matches[id] = &c
	}
	snap.transactions = append([]models.Transaction(nil), s.transactions...)
	snap.alerts = append([]models.Alert(nil), s.alerts...)
	return snap
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.users = snap.users
	s.tournaments = snap.tournaments
	s.matches = snap.matches
	s.transactions = snap.transactions
	s.alerts = snap.alerts
	s.nextTournamentID = snap.nextTournamentID
	s.nextMatchID = snap.nextMatchID
	s.nextUserID = snap.nextUserID
}

// fakeTxRunner calls fn directly and rolls the store back on error, the same
// observable behavior as a real transaction.
type fakeTxRunner struct {
	store *fakeStore
}

func (r *fakeTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	snap := r.store.snapshot()
	if err := fn(nil); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, u := range r.store.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
		if u.Nickname == user.Nickname {
			return repositories.ErrUserNicknameConflict
		}
	}
	if r.store.nextUserID == 0 {
		r.store.nextUserID = 1
	}
	user.ID = r.store.nextUserID
	r.store.nextUserID++
	user.CreatedAt = time.Now().UTC()
	c := *user
	r.store.users[user.ID] = &c
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.User, error) {
	u, ok := r.store.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.store.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	for _, u := range r.store.users {
		users = append(users, *u)
	}
	return users, nil
}

func (r *fakeUserRepo) AdjustBalance(ctx context.Context, exec repositories.SQLExecutor, userID int, delta int64) error {
	u, ok := r.store.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	if u.Balance+delta < 0 {
		return repositories.ErrBalanceTooLow
	}
	u.Balance += delta
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int, error) {
	return len(r.store.users), nil
}

func (r *fakeUserRepo) TotalCoins(ctx context.Context) (int64, error) {
	var total int64
	for _, u := range r.store.users {
		total += u.Balance
	}
	return total, nil
}

type fakeTournamentRepo struct {
	store *fakeStore
	// conflictsToInject makes the next N versioned writes fail, to exercise
	// the retry loop.
	conflictsToInject int
}

func (r *fakeTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	for _, existing := range r.store.tournaments {
		if existing.Name == t.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	r.store.nextTournamentID++
	t.ID = r.store.nextTournamentID
	t.Version = 1
	t.CreatedAt = time.Now().UTC()
	r.store.tournaments[t.ID] = cloneTournament(t)
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, ok := r.store.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return cloneTournament(t), nil
}

func (r *fakeTournamentRepo) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	var out []models.Tournament
	for _, t := range r.store.tournaments {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Type != nil && t.Type != *filter.Type {
			continue
		}
		out = append(out, *cloneTournament(t))
	}
	return out, nil
}

func (r *fakeTournamentRepo) UpdateWithVersion(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament) error {
	if r.conflictsToInject > 0 {
		r.conflictsToInject--
		return repositories.ErrVersionConflict
	}
	stored, ok := r.store.tournaments[t.ID]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	if stored.Version != t.Version {
		return repositories.ErrVersionConflict
	}
	t.Version++
	r.store.tournaments[t.ID] = cloneTournament(t)
	return nil
}

func (r *fakeTournamentRepo) UpdateBannerKey(ctx context.Context, tournamentID int, bannerKey *string) error {
	t, ok := r.store.tournaments[tournamentID]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.BannerKey = bannerKey
	return nil
}

func (r *fakeTournamentRepo) Count(ctx context.Context, status *models.TournamentStatus) (int, error) {
	n := 0
	for _, t := range r.store.tournaments {
		if status == nil || t.Status == *status {
			n++
		}
	}
	return n, nil
}

type fakeTransactionRepo struct {
	store *fakeStore
}

func (r *fakeTransactionRepo) Create(ctx context.Context, exec repositories.SQLExecutor, tx *models.Transaction) error {
	tx.ID = int64(len(r.store.transactions) + 1)
	tx.CreatedAt = time.Now().UTC()
	r.store.transactions = append(r.store.transactions, *tx)
	return nil
}

func (r *fakeTransactionRepo) List(ctx context.Context, filter repositories.ListTransactionsFilter) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range r.store.transactions {
		if filter.UserID != nil && tx.UserID != *filter.UserID {
			continue
		}
		if filter.Type != nil && tx.Type != *filter.Type {
			continue
		}
		if filter.TournamentID != nil && (tx.TournamentID == nil || *tx.TournamentID != *filter.TournamentID) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (r *fakeTransactionRepo) SumByUser(ctx context.Context, userID int) (int64, error) {
	var sum int64
	for _, tx := range r.store.transactions {
		if tx.UserID == userID {
			sum += tx.Amount
		}
	}
	return sum, nil
}

type fakeMatchRepo struct {
	store *fakeStore
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	r.store.nextMatchID++
	match.ID = r.store.nextMatchID
	match.CreatedAt = time.Now().UTC()
	c := *match
	r.store.matches[match.ID] = &c
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	m, ok := r.store.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	c := *m
	return &c, nil
}

func (r *fakeMatchRepo) List(ctx context.Context, filter repositories.ListMatchesFilter) ([]models.Match, error) {
	var out []models.Match
	for _, m := range r.store.matches {
		if filter.Status != nil && m.Status != *filter.Status {
			continue
		}
		if filter.PlayerID != nil && !m.HasPlayer(*filter.PlayerID) {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (r *fakeMatchRepo) Complete(ctx context.Context, exec repositories.SQLExecutor, id, winnerID int, completedAt time.Time) error {
	m, ok := r.store.matches[id]
	if !ok || m.Status != models.MatchActive {
		return repositories.ErrMatchNotActive
	}
	winner := winnerID
	at := completedAt
	m.Status = models.MatchCompleted
	m.WinnerID = &winner
	m.CompletedAt = &at
	return nil
}

func (r *fakeMatchRepo) Cancel(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	m, ok := r.store.matches[id]
	if !ok || m.Status != models.MatchActive {
		return repositories.ErrMatchNotActive
	}
	m.Status = models.MatchCancelled
	return nil
}

func (r *fakeMatchRepo) Count(ctx context.Context) (int, error) {
	return len(r.store.matches), nil
}

type fakeAlertRepo struct {
	store *fakeStore
}

func (r *fakeAlertRepo) Create(ctx context.Context, alert *models.Alert) error {
	alert.CreatedAt = time.Now().UTC()
	r.store.alerts = append(r.store.alerts, *alert)
	return nil
}

func (r *fakeAlertRepo) List(ctx context.Context, unackedOnly bool, limit int) ([]models.Alert, error) {
	var out []models.Alert
	for _, a := range r.store.alerts {
		if unackedOnly && a.Acknowledged {
			continue
		}
		out = append(out, a)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeAlertRepo) Acknowledge(ctx context.Context, id string, ackedAt time.Time) error {
	for i := range r.store.alerts {
		if r.store.alerts[i].ID.String() == id {
			at := ackedAt
			r.store.alerts[i].Acknowledged = true
			r.store.alerts[i].AckedAt = &at
			return nil
		}
	}
	return repositories.ErrAlertNotFound
}

func (r *fakeAlertRepo) CountUnacked(ctx context.Context) (int, error) {
	n := 0
	for _, a := range r.store.alerts {
		if !a.Acknowledged {
			n++
		}
	}
	return n, nil
}

// testEnv wires the full service stack over the in-memory store.
type testEnv struct {
	store          *fakeStore
	tournamentRepo *fakeTournamentRepo
	ledger         LedgerService
	alerts         AlertService
	tournaments    TournamentService
	matches        MatchService
	users          UserService
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	hub := brackets.NewHub(logger)

	tx := &fakeTxRunner{store: store}
	userRepo := &fakeUserRepo{store: store}
	tournamentRepo := &fakeTournamentRepo{store: store}
	transactionRepo := &fakeTransactionRepo{store: store}
	matchRepo := &fakeMatchRepo{store: store}
	alertRepo := &fakeAlertRepo{store: store}

	ledger := NewLedgerService(tx, userRepo, transactionRepo)
	alerts := NewAlertService(alertRepo, hub, logger)

	return &testEnv{
		store:          store,
		tournamentRepo: tournamentRepo,
		ledger:         ledger,
		alerts:         alerts,
		tournaments:    NewTournamentService(tx, tournamentRepo, ledger, alerts, hub, nil, logger),
		matches:        NewMatchService(tx, matchRepo, ledger),
		users:          NewUserService(userRepo, ledger, alerts),
	}
}
