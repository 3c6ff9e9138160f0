package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/projectpilot/pkg/usecase"
	"github.com/secmon-lab/projectpilot/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases

	// slackInstalledURL is where the browser goes after a Slack installation; empty answers JSON
	slackInstalledURL string
}

type Options func(*Server)

// WithSlackInstalledURL redirects the Slack OAuth callback to url on success
func WithSlackInstalledURL(url string) Options {
	return func(s *Server) {
		s.slackInstalledURL = url
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api", s.health)

	// Public endpoints
	r.Post("/api/users", s.registerHandler)
	r.Post("/api/token", s.tokenHandler)
	r.Get("/api/slack/callback", s.slackCallbackHandler)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(uc.Auth))

		r.Get("/api/users/me", s.meHandler)

		r.Route("/api/projects", func(r chi.Router) {
			r.Get("/", s.listProjectsHandler)
			r.Post("/", s.createProjectHandler)

			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", s.getProjectHandler)
				r.Put("/", s.updateProjectHandler)
				r.Delete("/", s.deleteProjectHandler)

				r.Post("/clickup/token", s.clickUpTokenHandler)
				r.Post("/clickup/list", s.clickUpListHandler)
				r.Post("/slack", s.slackConfigHandler)
				r.Get("/slack/oauth-url", s.slackOAuthURLHandler)
			})
		})

		r.Post("/api/gpt-query", s.queryHandler)
		r.Post("/api/save-chat", s.saveChatHandler)
		r.Get("/api/get-chats", s.getChatsHandler)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, messageResponse{Message: "projectpilot"})
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.From(r.Context()).With("request_id", middleware.GetReqID(r.Context()))
		r = r.WithContext(logging.With(r.Context(), logger))

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
