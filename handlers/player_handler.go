package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/services"
)

type PlayerHandler struct {
	lifecycle services.LifecycleService
}

func NewPlayerHandler(lifecycle services.LifecycleService) *PlayerHandler {
	return &PlayerHandler{lifecycle: lifecycle}
}

type createPlayerInput struct {
	Name string `json:"name"`
}

type updatePlayerInput struct {
	Name   *string              `json:"name"`
	Status *models.PlayerStatus `json:"status"`
}

func (h *PlayerHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input createPlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.lifecycle.CreatePlayer(r.Context(), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateHandler обрабатывает PATCH /players/{playerID}: имя и/или статус.
func (h *PlayerHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input updatePlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Name == nil && input.Status == nil {
		badRequestResponse(w, r, errors.New("nothing to update: provide name or status"))
		return
	}

	var player *models.Player
	if input.Name != nil {
		if player, err = h.lifecycle.RenamePlayer(r.Context(), id, *input.Name); err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
	}
	if input.Status != nil {
		if player, err = h.lifecycle.SetPlayerStatus(r.Context(), id, *input.Status); err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CountHandler обрабатывает GET /players/count?status=active
func (h *PlayerHandler) CountHandler(w http.ResponseWriter, r *http.Request) {
	var statuses []models.PlayerStatus
	for _, s := range queryList(r, "status") {
		statuses = append(statuses, models.PlayerStatus(s))
	}

	count, err := h.lifecycle.CountPlayers(r.Context(), statuses...)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"count": count}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
