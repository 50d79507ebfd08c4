package swiss

import (
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

var (
	ErrExhaustedByeCandidates = errors.New("every player already received a bye")
	ErrInvalidPairings        = errors.New("pairings do not cover every player exactly once")
)

// RandSource is the only source of non-determinism in pairing. *rand.Rand
// satisfies it.
type RandSource interface {
	Intn(n int) int
}

// Pair builds the next round from standings in canonical order.
//
// With an odd field one player without a bye is drawn uniformly from rnd and
// emitted first as a self-pair. The rest are paired with their neighbour in
// the standings. Players who already met may be paired again.
func Pair(standings []models.StandingRow, rnd RandSource) ([]models.Pairing, error) {
	remaining := make([]models.StandingRow, len(standings))
	copy(remaining, standings)

	pairings := make([]models.Pairing, 0, (len(remaining)+1)/2)

	if len(remaining)%2 != 0 {
		candidates := make([]int, 0, len(remaining))
		for i, row := range remaining {
			if row.Byes == 0 {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) == 0 {
			return nil, ErrExhaustedByeCandidates
		}

		idx := candidates[rnd.Intn(len(candidates))]
		bye := remaining[idx]
		remaining = append(remaining[:idx], remaining[idx+1:]...)

		pairings = append(pairings, models.Pairing{
			Player1ID:   bye.PlayerID,
			Player1Name: bye.Name,
			Player2ID:   bye.PlayerID,
			Player2Name: bye.Name,
			IsBye:       true,
		})
	}

	for i := 0; i+1 < len(remaining); i += 2 {
		p1, p2 := remaining[i], remaining[i+1]
		pairings = append(pairings, models.Pairing{
			Player1ID:   p1.PlayerID,
			Player1Name: p1.Name,
			Player2ID:   p2.PlayerID,
			Player2Name: p2.Name,
		})
	}

	if err := ValidatePairings(standings, pairings); err != nil {
		return nil, err
	}
	return pairings, nil
}

// ValidatePairings checks that every standings row appears in exactly one
// pairing and that at most one bye was handed out.
func ValidatePairings(standings []models.StandingRow, pairings []models.Pairing) error {
	if want := (len(standings) + 1) / 2; len(pairings) != want {
		return fmt.Errorf("%w: got %d pairs for %d players, want %d", ErrInvalidPairings, len(pairings), len(standings), want)
	}

	seen := make(map[int]int, len(standings))
	byes := 0
	for _, p := range pairings {
		if p.IsBye {
			byes++
			seen[p.Player1ID]++
			continue
		}
		seen[p.Player1ID]++
		seen[p.Player2ID]++
	}
	if byes > 1 {
		return fmt.Errorf("%w: %d byes in one round", ErrInvalidPairings, byes)
	}

	for _, row := range standings {
		if seen[row.PlayerID] != 1 {
			return fmt.Errorf("%w: player %d appears %d times", ErrInvalidPairings, row.PlayerID, seen[row.PlayerID])
		}
		delete(seen, row.PlayerID)
	}
	if len(seen) != 0 {
		return fmt.Errorf("%w: %d unknown players paired", ErrInvalidPairings, len(seen))
	}
	return nil
}
