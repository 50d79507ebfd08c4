package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/swiss-tournament/handlers"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const requestTimeout = 30 * time.Second

func SetupRoutes(
	router chi.Router,
	allowedOrigins []string,
	playerHandler *handlers.PlayerHandler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Веб-сокеты живут дольше любого таймаута запроса.
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(requestTimeout))

		r.Route("/players", func(r chi.Router) {
			r.Post("/", playerHandler.CreateHandler)
			r.Get("/count", playerHandler.CountHandler)
			r.Patch("/{playerID}", playerHandler.UpdateHandler)
		})

		r.Route("/tournaments", func(r chi.Router) {
			r.Post("/", tournamentHandler.CreateHandler)
			r.Get("/count", tournamentHandler.CountHandler)

			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Get("/", tournamentHandler.GetByIDHandler)
				r.Patch("/", tournamentHandler.UpdateHandler)
				r.Post("/start", tournamentHandler.StartHandler)
				r.Post("/close", tournamentHandler.CloseHandler)

				r.Post("/registrations", tournamentHandler.RegisterHandler)
				r.Delete("/registrations", tournamentHandler.DeregisterHandler)
				r.Get("/registrations/count", tournamentHandler.CountRegistrationsHandler)

				r.Post("/matches", matchHandler.ReportHandler)
				r.Get("/standings", matchHandler.StandingsHandler)
				r.Get("/pairings", matchHandler.PairingsHandler)
			})
		})
	})
}
