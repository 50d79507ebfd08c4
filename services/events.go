package services

import (
	"context"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/swiss"
)

// EventNotifier доставляет события подписчикам турнира. *swiss.Hub его реализует.
type EventNotifier interface {
	BroadcastToRoom(roomID string, event swiss.Event)
}

// StandingsArchiver сохраняет итоговую таблицу закрытого турнира и возвращает
// адрес, по которому она доступна.
type StandingsArchiver interface {
	ArchiveStandings(ctx context.Context, tournament *models.Tournament, rows []models.StandingRow) (string, error)
}

func notify(n EventNotifier, tournamentID int, eventType string, payload interface{}) {
	if n == nil {
		return
	}
	room := swiss.RoomForTournament(tournamentID)
	n.BroadcastToRoom(room, swiss.Event{Type: eventType, Payload: payload, RoomID: room})
}
