package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/swiss-tournament/db"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/swiss"
)

// MatchReport is the outcome of one game. Player1ID == Player2ID records a bye.
type MatchReport struct {
	TournamentID int `json:"-"`
	Player1ID    int `json:"player1_id"`
	Score1       int `json:"score1"`
	Player2ID    int `json:"player2_id"`
	Score2       int `json:"score2"`
}

// ClosedTournament is the result of closing a tournament.
type ClosedTournament struct {
	Tournament *models.Tournament   `json:"tournament"`
	Standings  []models.StandingRow `json:"standings"`
	ArchiveURL string               `json:"archive_url,omitempty"`
}

// LifecycleService gates every write into the store. Each admission check and
// the write it guards run in one transaction with the tournament row locked.
type LifecycleService interface {
	CreateTournament(ctx context.Context, name string) (*models.Tournament, error)
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	RenameTournament(ctx context.Context, id int, name string) (*models.Tournament, error)
	StartTournament(ctx context.Context, id int) (*models.Tournament, error)
	CloseTournament(ctx context.Context, id int) (*ClosedTournament, error)
	CountTournaments(ctx context.Context, phases ...models.TournamentPhase) (int, error)

	CreatePlayer(ctx context.Context, name string) (*models.Player, error)
	GetPlayer(ctx context.Context, id int) (*models.Player, error)
	RenamePlayer(ctx context.Context, id int, name string) (*models.Player, error)
	SetPlayerStatus(ctx context.Context, id int, status models.PlayerStatus) (*models.Player, error)
	CountPlayers(ctx context.Context, statuses ...models.PlayerStatus) (int, error)

	RegisterPlayer(ctx context.Context, tournamentID, playerID int) (*models.Registration, error)
	// DeregisterPlayers removes the listed registrations, or all of them when
	// no player is given.
	DeregisterPlayers(ctx context.Context, tournamentID int, playerIDs ...int) (int64, error)
	CountRegisteredPlayers(ctx context.Context, tournamentID int) (int, error)

	ReportMatch(ctx context.Context, report MatchReport) (*models.MatchRecord, error)
}

type lifecycleService struct {
	db               *sql.DB
	tournamentRepo   repositories.TournamentRepository
	playerRepo       repositories.PlayerRepository
	registrationRepo repositories.RegistrationRepository
	matchRepo        repositories.MatchRepository
	archiver         StandingsArchiver
	notifier         EventNotifier
	opts             swiss.RankOptions
	logger           *slog.Logger
}

type LifecycleDeps struct {
	DB               *sql.DB
	TournamentRepo   repositories.TournamentRepository
	PlayerRepo       repositories.PlayerRepository
	RegistrationRepo repositories.RegistrationRepository
	MatchRepo        repositories.MatchRepository
	// Archiver и Notifier необязательны.
	Archiver    StandingsArchiver
	Notifier    EventNotifier
	RankOptions swiss.RankOptions
	Logger      *slog.Logger
}

func NewLifecycleService(deps LifecycleDeps) LifecycleService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &lifecycleService{
		db:               deps.DB,
		tournamentRepo:   deps.TournamentRepo,
		playerRepo:       deps.PlayerRepo,
		registrationRepo: deps.RegistrationRepo,
		matchRepo:        deps.MatchRepo,
		archiver:         deps.Archiver,
		notifier:         deps.Notifier,
		opts:             deps.RankOptions,
		logger:           logger,
	}
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	return name, nil
}

// --- Tournaments ---

func (s *lifecycleService) CreateTournament(ctx context.Context, name string) (*models.Tournament, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	tournament := &models.Tournament{Name: name, Phase: models.PhasePlanned}
	if err := s.tournamentRepo.Create(ctx, nil, tournament); err != nil {
		return nil, handleRepositoryError(err)
	}
	s.logger.InfoContext(ctx, "Tournament created", slog.Int("tournament_id", tournament.ID))
	return tournament, nil
}

func (s *lifecycleService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return tournament, nil
}

func (s *lifecycleService) RenameTournament(ctx context.Context, id int, name string) (*models.Tournament, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	var tournament *models.Tournament
	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var txErr error
		if tournament, txErr = s.tournamentRepo.GetByIDForUpdate(ctx, tx, id); txErr != nil {
			return txErr
		}
		if txErr = s.tournamentRepo.UpdateName(ctx, tx, id, name); txErr != nil {
			return txErr
		}
		tournament.Name = name
		return nil
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return tournament, nil
}

// StartTournament moves a planned tournament to ongoing. Starting an ongoing
// tournament is a no-op.
func (s *lifecycleService) StartTournament(ctx context.Context, id int) (*models.Tournament, error) {
	var (
		tournament *models.Tournament
		changed    bool
	)
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var txErr error
		if tournament, txErr = s.tournamentRepo.GetByIDForUpdate(ctx, tx, id); txErr != nil {
			return txErr
		}
		switch tournament.Phase {
		case models.PhaseOngoing:
			return nil
		case models.PhasePlanned:
		default:
			return tournamentPhaseError(id, tournament.Phase, models.PhasePlanned)
		}
		if txErr = s.tournamentRepo.UpdatePhase(ctx, tx, id, models.PhaseOngoing); txErr != nil {
			return txErr
		}
		tournament.Phase = models.PhaseOngoing
		changed = true
		return nil
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	if changed {
		s.logger.InfoContext(ctx, "Tournament started", slog.Int("tournament_id", id))
		notify(s.notifier, id, swiss.EventPhaseChanged, tournament)
	}
	return tournament, nil
}

// CloseTournament is permitted from any phase. The final standings are taken
// before the registrations are removed and, once committed, archived.
func (s *lifecycleService) CloseTournament(ctx context.Context, id int) (*ClosedTournament, error) {
	var (
		tournament *models.Tournament
		final      []models.StandingRow
		changed    bool
	)
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var txErr error
		if tournament, txErr = s.tournamentRepo.GetByIDForUpdate(ctx, tx, id); txErr != nil {
			return txErr
		}
		if tournament.Phase == models.PhaseClosed {
			return nil
		}
		if final, txErr = standingsInTx(ctx, tx, s.registrationRepo, s.matchRepo, id, s.opts); txErr != nil {
			return txErr
		}
		deleted, txErr := s.registrationRepo.Delete(ctx, tx, id)
		if txErr != nil {
			return txErr
		}
		if txErr = s.tournamentRepo.UpdatePhase(ctx, tx, id, models.PhaseClosed); txErr != nil {
			return txErr
		}
		s.logger.DebugContext(ctx, "Registrations removed on close",
			slog.Int("tournament_id", id), slog.Int64("deleted", deleted))
		tournament.Phase = models.PhaseClosed
		changed = true
		return nil
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	result := &ClosedTournament{Tournament: tournament, Standings: final}
	if result.Standings == nil {
		result.Standings = []models.StandingRow{}
	}
	if !changed {
		return result, nil
	}

	s.logger.InfoContext(ctx, "Tournament closed", slog.Int("tournament_id", id), slog.Int("players", len(final)))
	if s.archiver != nil {
		url, archErr := s.archiver.ArchiveStandings(ctx, tournament, result.Standings)
		if archErr != nil {
			// Турнир уже закрыт, архив можно выгрузить повторно вручную.
			s.logger.ErrorContext(ctx, "Failed to archive final standings",
				slog.Int("tournament_id", id), slog.Any("error", archErr))
		} else {
			result.ArchiveURL = url
		}
	}
	notify(s.notifier, id, swiss.EventTournamentClosed, result)

	return result, nil
}

func (s *lifecycleService) CountTournaments(ctx context.Context, phases ...models.TournamentPhase) (int, error) {
	for _, p := range phases {
		if !p.Valid() {
			return 0, fmt.Errorf("%w: unknown phase %q", ErrValidationFailed, p)
		}
	}
	return s.tournamentRepo.CountByPhase(ctx, nil, phases...)
}

// --- Players ---

func (s *lifecycleService) CreatePlayer(ctx context.Context, name string) (*models.Player, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	player := &models.Player{Name: name, Status: models.PlayerActive}
	if err := s.playerRepo.Create(ctx, nil, player); err != nil {
		return nil, handleRepositoryError(err)
	}
	return player, nil
}

func (s *lifecycleService) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return player, nil
}

func (s *lifecycleService) RenamePlayer(ctx context.Context, id int, name string) (*models.Player, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	if err := s.playerRepo.UpdateName(ctx, nil, id, name); err != nil {
		return nil, handleRepositoryError(err)
	}
	return s.GetPlayer(ctx, id)
}

// SetPlayerStatus is permitted at any time. Existing registrations and match
// history are left as they are.
func (s *lifecycleService) SetPlayerStatus(ctx context.Context, id int, status models.PlayerStatus) (*models.Player, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown player status %q", ErrValidationFailed, status)
	}
	if err := s.playerRepo.UpdateStatus(ctx, nil, id, status); err != nil {
		return nil, handleRepositoryError(err)
	}
	s.logger.InfoContext(ctx, "Player status changed", slog.Int("player_id", id), slog.String("status", string(status)))
	return s.GetPlayer(ctx, id)
}

func (s *lifecycleService) CountPlayers(ctx context.Context, statuses ...models.PlayerStatus) (int, error) {
	for _, st := range statuses {
		if !st.Valid() {
			return 0, fmt.Errorf("%w: unknown player status %q", ErrValidationFailed, st)
		}
	}
	return s.playerRepo.CountByStatus(ctx, nil, statuses...)
}

// --- Registrations ---

func (s *lifecycleService) RegisterPlayer(ctx context.Context, tournamentID, playerID int) (*models.Registration, error) {
	reg := &models.Registration{TournamentID: tournamentID, PlayerID: playerID}
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		tournament, txErr := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if txErr != nil {
			return txErr
		}
		if tournament.Phase != models.PhasePlanned {
			return tournamentPhaseError(tournamentID, tournament.Phase, models.PhasePlanned)
		}
		player, txErr := s.playerRepo.GetByID(ctx, tx, playerID)
		if txErr != nil {
			return txErr
		}
		if player.Status != models.PlayerActive {
			return playerStatusError(playerID, player.Status, models.PlayerActive)
		}
		return s.registrationRepo.Create(ctx, tx, reg)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	s.logger.InfoContext(ctx, "Player registered",
		slog.Int("tournament_id", tournamentID), slog.Int("player_id", playerID))
	notify(s.notifier, tournamentID, swiss.EventRegistrations, reg)
	return reg, nil
}

func (s *lifecycleService) DeregisterPlayers(ctx context.Context, tournamentID int, playerIDs ...int) (int64, error) {
	var deleted int64
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, txErr := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID); txErr != nil {
			return txErr
		}
		var txErr error
		deleted, txErr = s.registrationRepo.Delete(ctx, tx, tournamentID, playerIDs...)
		return txErr
	})
	if err != nil {
		return 0, handleRepositoryError(err)
	}
	if deleted > 0 {
		notify(s.notifier, tournamentID, swiss.EventRegistrations, map[string]interface{}{
			"removed": deleted, "player_ids": playerIDs,
		})
	}
	return deleted, nil
}

func (s *lifecycleService) CountRegisteredPlayers(ctx context.Context, tournamentID int) (int, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return 0, handleRepositoryError(err)
	}
	return s.registrationRepo.Count(ctx, nil, tournamentID)
}

// --- Matches ---

func (s *lifecycleService) ReportMatch(ctx context.Context, report MatchReport) (*models.MatchRecord, error) {
	if report.Score1 < 0 || report.Score2 < 0 {
		return nil, fmt.Errorf("%w: scores must not be negative", ErrValidationFailed)
	}

	match := &models.MatchRecord{
		TournamentID: report.TournamentID,
		Player1ID:    report.Player1ID,
		Score1:       report.Score1,
		Player2ID:    report.Player2ID,
		Score2:       report.Score2,
	}
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		tournament, txErr := s.tournamentRepo.GetByIDForUpdate(ctx, tx, report.TournamentID)
		if txErr != nil {
			return txErr
		}
		if tournament.Phase != models.PhaseOngoing {
			return tournamentPhaseError(report.TournamentID, tournament.Phase, models.PhaseOngoing)
		}
		for _, pid := range []int{report.Player1ID, report.Player2ID} {
			ok, txErr := s.registrationRepo.IsRegistered(ctx, tx, report.TournamentID, pid)
			if txErr != nil {
				return txErr
			}
			if !ok {
				return fmt.Errorf("%w: player %d, tournament %d", ErrNotRegistered, pid, report.TournamentID)
			}
		}
		return s.matchRepo.Create(ctx, tx, match)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	s.logger.InfoContext(ctx, "Match reported",
		slog.Int("tournament_id", match.TournamentID),
		slog.Int("match_id", match.ID),
		slog.Bool("bye", match.IsBye()))
	notify(s.notifier, match.TournamentID, swiss.EventMatchReported, match)
	return match, nil
}
