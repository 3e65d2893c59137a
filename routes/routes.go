package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/mindware/taskmaster/config"
	"github.com/mindware/taskmaster/docs"
	"github.com/mindware/taskmaster/handlers"
	"github.com/mindware/taskmaster/middleware"
)

func SetupRoutes(
	router *chi.Mux,
	cfg *config.Config,
	teamHandler *handlers.TeamHandler,
	challengeHandler *handlers.ChallengeHandler,
	submissionHandler *handlers.SubmissionHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Team-facing endpoints
	router.Post("/authenticate", teamHandler.Authenticate)
	router.Post("/submission", submissionHandler.Submit)

	router.Route("/team", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(cfg.AdminCode))
		r.Post("/", teamHandler.CreateTeam)
		r.Get("/", teamHandler.ListTeams)
	})

	router.Route("/challenge", func(r chi.Router) {
		// Public: only started challenges are ever visible here.
		r.Get("/", challengeHandler.ListStarted)
		r.Get("/current", challengeHandler.Current)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(cfg.AdminCode))
			r.Get("/all", challengeHandler.ListAll)
			r.Post("/create", challengeHandler.Create)
			r.Delete("/{challengeID}", challengeHandler.Delete)
			r.Get("/{challengeID}/submissions", submissionHandler.DownloadArchive)
			r.Get("/{challengeID}/submissions/{teamID}/count", submissionHandler.CountTeamSubmissions)
			r.Delete("/{challengeID}/submissions/{teamID}", submissionHandler.DeleteTeamSubmissions)
		})
	})

	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(docs.OpenAPI)
	})
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}
