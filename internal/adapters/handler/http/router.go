package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type Handlers struct {
	Polls     *PollHandler
	Votes     *VoteHandler
	Results   *ResultsHandler
	Dashboard *DashboardHandler
	Users     *UserHandler
}

func NewHandler(h Handlers, verifier ports.TokenVerifier, log *logrus.Entry, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&logFormatter{log: log}))
	r.Use(middleware.Recoverer)
	r.Use(CORS(allowedOrigins))

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Use(Authenticate(verifier))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/polls", func(r chi.Router) {
			r.Get("/", h.Polls.ListActive)
			r.Get("/{id}", h.Polls.GetPoll)
			r.Post("/{id}/responses", h.Votes.SubmitResponse)
		})

		r.With(RequireUser).Get("/dashboard", h.Dashboard.GetDashboard)
		r.With(RequireUser).Get("/users/me", h.Users.GetMe)

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin)

			r.Route("/polls", func(r chi.Router) {
				r.Get("/", h.Polls.ListForAdmin)
				r.Post("/", h.Polls.CreatePoll)
				r.Get("/{id}", h.Polls.GetForAdmin)
				r.Put("/{id}", h.Polls.UpdatePoll)
				r.Delete("/{id}", h.Polls.DeletePoll)
				r.Get("/{id}/results", h.Results.GetResults)
			})
			r.Get("/users", h.Users.ListUsers)
		})
	})

	return r
}
