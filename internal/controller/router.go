package controller

import (
	"net/http"
	"time"

	"github.com/akshayds23/Whizrobo/internal/controller/handlers"
	"github.com/akshayds23/Whizrobo/internal/controller/middleware"
	"github.com/akshayds23/Whizrobo/internal/metrics"
	"github.com/akshayds23/Whizrobo/internal/model"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterConfig carries what the router needs besides the handlers
type RouterConfig struct {
	JWTSecret      string
	RequestTimeout time.Duration
	Gatherer       prometheus.Gatherer
	Metrics        *metrics.Metrics
}

// NewRouter builds the HTTP API
func NewRouter(h *handlers.Handlers, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger, cfg.Metrics))
	r.Use(chimw.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}

	r.Get("/healthz", h.HandleHealth)
	r.Get("/recommend", h.HandleRecommend)
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate([]byte(cfg.JWTSecret), logger))

		// robot API
		r.Route("/robot", func(r chi.Router) {
			r.Use(middleware.RequireRobot)

			r.Get("/sync", h.HandleSync)
			r.Post("/refresh", h.HandleRefresh)
			r.Post("/logs", h.HandleUsageLogs)
		})

		// admin API
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)

			r.Route("/licenses", func(r chi.Router) {
				r.With(middleware.RequirePermission(model.PermissionIssueLicense)).Post("/", h.HandleIssueLicense)

				r.Route("/{id}", func(r chi.Router) {
					r.With(middleware.RequirePermission(model.PermissionRevokeLicense)).Post("/revoke", h.HandleRevokeLicense)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(model.PermissionViewLicenseStatus))

						r.Get("/status", h.HandleLicenseStatus)
						r.Get("/notifications", h.HandleListNotifications)
						r.Post("/notifications/{notificationID}/ack", h.HandleAcknowledgeNotification)
					})
				})
			})

			r.Route("/robots", func(r chi.Router) {
				r.With(middleware.RequirePermission(model.PermissionManageRobots)).Get("/", h.HandleListRobots)

				r.Route("/{id}", func(r chi.Router) {
					r.With(middleware.RequirePermission(model.PermissionViewLicenseStatus)).Get("/license-status", h.HandleRobotLicenseStatus)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(model.PermissionManageRobots))

						r.Post("/refresh", h.HandleRequestRefresh)
						r.Post("/lock", h.HandleLockRobot)
					})
				})
			})

			r.Route("/organizations", func(r chi.Router) {
				r.With(middleware.RequirePermission(model.PermissionViewOrg)).Get("/", h.HandleListOrganizations)

				r.Route("/{orgID}", func(r chi.Router) {
					r.With(middleware.RequirePermission(model.PermissionViewOrg)).Get("/", h.HandleGetOrganization)

					r.Route("/courses", func(r chi.Router) {
						r.Use(middleware.RequirePermission(model.PermissionAssignCourse))

						r.Get("/", h.HandleListCourseAccess)
						r.Post("/", h.HandleAssignCourse)
						r.Delete("/{courseID}", h.HandleRemoveCourse)
					})
				})
			})
		})
	})

	return r
}
