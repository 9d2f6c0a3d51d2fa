package routes

import (
	"github.com/cardarena/arena-admin/handlers"
	"github.com/cardarena/arena-admin/middleware"
	"github.com/cardarena/arena-admin/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes wires all handlers onto the router. Role enforcement happens
// here, before any orchestrator call: start, cancel, result reporting and
// the coin/alert administration all require the admin role.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	transactionHandler *handlers.TransactionHandler,
	alertHandler *handlers.AlertHandler,
	dashboardHandler *handlers.DashboardHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(jwtSecret))
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	router.Post("/auth/signup", authHandler.SignUpHandler)
	router.Post("/auth/signin", authHandler.SignInHandler)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/{tournamentID}/join", tournamentHandler.JoinHandler)
			r.Post("/{tournamentID}/leave", tournamentHandler.LeaveHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", tournamentHandler.CreateHandler)
			r.Post("/{tournamentID}/start", tournamentHandler.StartHandler)
			r.Post("/{tournamentID}/matches/{matchUID}/result", tournamentHandler.ReportResultHandler)
			r.Post("/{tournamentID}/cancel", tournamentHandler.CancelHandler)
			r.Put("/{tournamentID}/banner", tournamentHandler.UploadBannerHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/", matchHandler.ListHandler)
		r.Get("/{matchID}", matchHandler.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", matchHandler.CreateHandler)
			r.Post("/{matchID}/complete", matchHandler.CompleteHandler)
			r.Post("/{matchID}/cancel", matchHandler.CancelHandler)
		})
	})

	router.Route("/users", func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/{userID}", userHandler.GetByIDHandler)
		r.Post("/me/coins/purchase", userHandler.PurchaseCoinsHandler)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/", userHandler.ListHandler)
			r.Get("/{userID}/balance", userHandler.BalanceHandler)
			r.Get("/{userID}/transactions", transactionHandler.ListByUserHandler)
			r.Post("/{userID}/coins/adjust", userHandler.AdjustCoinsHandler)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticate, adminOnly)
		r.Get("/transactions", transactionHandler.ListHandler)
		r.Get("/alerts", alertHandler.ListHandler)
		r.Post("/alerts/{alertID}/ack", alertHandler.AcknowledgeHandler)
		r.Get("/dashboard/stats", dashboardHandler.StatsHandler)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeTournament)
	router.Get("/ws/alerts", webSocketHandler.ServeAlerts)
}
