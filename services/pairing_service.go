package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/swiss"
)

type PairingService interface {
	// NextRound pairs the current standings of an ongoing tournament.
	NextRound(ctx context.Context, tournamentID int) ([]models.Pairing, error)
}

type pairingService struct {
	tournamentRepo repositories.TournamentRepository
	standings      StandingsService
	notifier       EventNotifier
	logger         *slog.Logger

	// *rand.Rand is not safe for concurrent use.
	mu  sync.Mutex
	rnd swiss.RandSource
}

func NewPairingService(
	tournamentRepo repositories.TournamentRepository,
	standings StandingsService,
	rnd swiss.RandSource,
	notifier EventNotifier,
	logger *slog.Logger,
) PairingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &pairingService{
		tournamentRepo: tournamentRepo,
		standings:      standings,
		rnd:            rnd,
		notifier:       notifier,
		logger:         logger,
	}
}

func (s *pairingService) NextRound(ctx context.Context, tournamentID int) ([]models.Pairing, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if tournament.Phase != models.PhaseOngoing {
		return nil, tournamentPhaseError(tournamentID, tournament.Phase, models.PhaseOngoing)
	}

	standings, err := s.standings.ComputeStandings(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	pairings, err := swiss.Pair(standings, s.rnd)
	s.mu.Unlock()
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to pair next round",
			slog.Int("tournament_id", tournamentID),
			slog.Int("players", len(standings)),
			slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "Next round paired",
		slog.Int("tournament_id", tournamentID),
		slog.Int("pairs", len(pairings)))
	notify(s.notifier, tournamentID, swiss.EventPairingsGenerated, pairings)

	return pairings, nil
}
