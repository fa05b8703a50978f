package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkrausse/billable/internal/auth"
	authHandler "github.com/mkrausse/billable/internal/http/auth"
	clientHandler "github.com/mkrausse/billable/internal/http/client"
	generatorHandler "github.com/mkrausse/billable/internal/http/generator"
	invoiceHandler "github.com/mkrausse/billable/internal/http/invoice"
	projectHandler "github.com/mkrausse/billable/internal/http/project"
	webhookHandler "github.com/mkrausse/billable/internal/http/webhook"
	"github.com/mkrausse/billable/internal/metrics"
)

func New(
	authSvc *auth.Service,
	allowOrigin string,
	authV1 *authHandler.Handler,
	clientsV1 *clientHandler.Handler,
	projectsV1 *projectHandler.Handler,
	invoicesV1 *invoiceHandler.Handler,
	generatorV1 *generatorHandler.Handler,
	webhooksV1 *webhookHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(metrics.Middleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{allowOrigin},
		AllowedMethods: []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		r.Route("/webhooks", webhooksV1.Routes)

		r.Group(func(r chi.Router) {
			r.Use(authSvc.Middleware)

			r.Route("/clients", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				clientsV1.Routes(r)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				projectsV1.Routes(r)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				r.Route("/generator", generatorV1.Routes)
				invoicesV1.Routes(r)
			})
		})
	})

	return router
}
