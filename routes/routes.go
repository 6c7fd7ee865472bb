package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/iqasport/referee-hub-sub000/handlers"
	"github.com/iqasport/referee-hub-sub000/middleware"
)

// SetupRoutes wires every handler onto the router. All routes below /auth
// require a bearer token.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	teamHandler *handlers.TeamHandler,
	tournamentHandler *handlers.TournamentHandler,
	inviteHandler *handlers.InviteHandler,
	participantHandler *handlers.ParticipantHandler,
	managerHandler *handlers.ManagerHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/signup", authHandler.Register)
	router.Post("/auth/signin", authHandler.Login)

	router.Get("/openapi.json", handlers.OpenAPIDoc)
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/openapi.json"),
	))

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate([]byte(jwtSecret)))

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", tournamentHandler.List)
			r.Post("/", tournamentHandler.Create)

			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Get("/", tournamentHandler.GetByID)
				r.Put("/", tournamentHandler.Update)
				r.Get("/ws", webSocketHandler.ServeWs)

				r.Route("/invites", func(r chi.Router) {
					r.Get("/", inviteHandler.List)
					r.Post("/", inviteHandler.Create)
					r.Post("/{teamID}", inviteHandler.Respond)
				})

				r.Route("/participants", func(r chi.Router) {
					r.Get("/", participantHandler.List)
					r.Delete("/{participantID}", participantHandler.Delete)
					r.Put("/{participantID}/roster", participantHandler.UpdateRoster)
				})

				r.Get("/teams/{participantID}/roster", participantHandler.ManagerRoster)

				r.Route("/managers", func(r chi.Router) {
					r.Get("/", managerHandler.ListTournamentManagers)
					r.Post("/", managerHandler.AddTournamentManager)
					r.Delete("/{userID}", managerHandler.RemoveTournamentManager)
				})
			})
		})

		r.Route("/ngbs/{ngbID}/teams/{teamID}", func(r chi.Router) {
			r.Get("/", teamHandler.GetByID)
			r.Get("/tournamentInvites", inviteHandler.ListForTeam)

			r.Route("/managers", func(r chi.Router) {
				r.Get("/", managerHandler.ListTeamManagers)
				r.Post("/", managerHandler.AddTeamManager)
				r.Delete("/{userID}", managerHandler.RemoveTeamManager)
			})
		})

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/", userHandler.GetProfile)
			r.Post("/avatar", userHandler.UploadAvatar)

			r.Route("/gender", func(r chi.Router) {
				r.Get("/", userHandler.GetGender)
				r.Put("/", userHandler.SetGender)
				r.Delete("/", userHandler.DeleteGender)
			})

			r.Route("/certifications", func(r chi.Router) {
				r.Get("/", userHandler.ListCertifications)
				r.Post("/", userHandler.RecordCertification)
			})
		})
	})
}
