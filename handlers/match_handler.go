package handlers

import (
	"net/http"

	"github.com/Dosada05/swiss-tournament/services"
)

// MatchHandler serves match reports and the two derived views: standings and
// next-round pairings.
type MatchHandler struct {
	lifecycle services.LifecycleService
	standings services.StandingsService
	pairing   services.PairingService
}

func NewMatchHandler(lifecycle services.LifecycleService, standings services.StandingsService, pairing services.PairingService) *MatchHandler {
	return &MatchHandler{lifecycle: lifecycle, standings: standings, pairing: pairing}
}

// ReportHandler обрабатывает POST /tournaments/{tournamentID}/matches
func (h *MatchHandler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var report services.MatchReport
	if err := readJSON(w, r, &report); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	report.TournamentID = id

	match, err := h.lifecycle.ReportMatch(r.Context(), report)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rows, err := h.standings.ComputeStandings(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) PairingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	pairings, err := h.pairing.NextRound(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"pairings": pairings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
