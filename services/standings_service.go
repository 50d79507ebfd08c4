package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/swiss"
	"golang.org/x/sync/errgroup"
)

type StandingsService interface {
	// ComputeStandings returns the ordered table of a tournament. It is
	// recomputed from match records on every call.
	ComputeStandings(ctx context.Context, tournamentID int) ([]models.StandingRow, error)
}

type standingsService struct {
	tournamentRepo   repositories.TournamentRepository
	registrationRepo repositories.RegistrationRepository
	matchRepo        repositories.MatchRepository
	opts             swiss.RankOptions
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	registrationRepo repositories.RegistrationRepository,
	matchRepo repositories.MatchRepository,
	opts swiss.RankOptions,
) StandingsService {
	return &standingsService{
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
		matchRepo:        matchRepo,
		opts:             opts,
	}
}

func (s *standingsService) ComputeStandings(ctx context.Context, tournamentID int) ([]models.StandingRow, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}

	var (
		players []models.RegisteredPlayer
		matches []models.MatchRecord
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = s.registrationRepo.ListPlayers(gCtx, nil, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gCtx, nil, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load standings snapshot for tournament %d: %w", tournamentID, err)
	}

	return swiss.ComputeStandings(tournamentID, players, matches, s.opts), nil
}

// standingsInTx reads the snapshot sequentially through exec, which may be a
// transaction that cannot serve concurrent queries.
func standingsInTx(
	ctx context.Context,
	exec repositories.SQLExecutor,
	registrationRepo repositories.RegistrationRepository,
	matchRepo repositories.MatchRepository,
	tournamentID int,
	opts swiss.RankOptions,
) ([]models.StandingRow, error) {
	players, err := registrationRepo.ListPlayers(ctx, exec, tournamentID)
	if err != nil {
		return nil, err
	}
	matches, err := matchRepo.ListByTournament(ctx, exec, tournamentID)
	if err != nil {
		return nil, err
	}
	return swiss.ComputeStandings(tournamentID, players, matches, opts), nil
}
