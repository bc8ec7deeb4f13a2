// Package handlers is the HTTP surface: public registration, admin API, and health.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/otel/trace"

	"EventRegistration/internal/kv"
	"EventRegistration/internal/log"
	mw "EventRegistration/internal/middleware"
	"EventRegistration/internal/models"
	"EventRegistration/internal/sessions"
	"EventRegistration/internal/tracing"
)

// RegistrationService handles public submissions.
type RegistrationService interface {
	Submit(ctx context.Context, req models.RegistrationRequest) (*models.SubmitResult, error)
	CheckPaymentExists(ctx context.Context, paymentID string) (bool, error)
}

// AdminService answers the dashboard queries.
type AdminService interface {
	ListRegistrations(ctx context.Context, q models.ListQuery) (*models.ListResult, error)
	GetStats(ctx context.Context) (*models.Stats, error)
	GetRegistration(ctx context.Context, id int64) (*models.Registration, error)
	DeleteRegistration(ctx context.Context, id int64) (*models.DeletedRegistration, error)
}

// AuthService logs the admin in and checks tokens.
type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error)
	ValidateToken(token string) (*models.AdminPrincipal, error)
}

// Pinger reports whether storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps is everything the router needs. Sessions, LoginLimiter, and Tracer are optional.
type Deps struct {
	Registrations RegistrationService
	Admin         AdminService
	Auth          AuthService
	DB            Pinger

	Sessions     *sessions.Store
	LoginLimiter kv.Limiter
	Tracer       trace.Tracer

	FrontendURL  string
	MaxBodyBytes int64
	// Location is the zone export timestamps are shown in.
	Location *time.Location
	Now      func() time.Time
}

// Handler holds the dependencies shared by every endpoint.
type Handler struct {
	Deps
}

// New fills defaults and returns the handler set.
func New(d Deps) *Handler {
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.MaxBodyBytes <= 0 {
		d.MaxBodyBytes = 8 << 20
	}
	return &Handler{Deps: d}
}

// cookieTokens adapts an optional session store to middleware.TokenSource.
func (h *Handler) cookieTokens() mw.TokenSource {
	if h.Sessions == nil {
		return nil
	}
	return h.Sessions
}

// Routes builds the chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(tracing.Middleware(h.Tracer))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.FrontendURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(maxBytes(h.MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		jsonError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		jsonError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/api/health", h.Health)

	r.Route("/api/registration", func(r chi.Router) {
		r.Post("/submit", h.SubmitRegistration)
		r.Get("/verify/{paymentId}", h.VerifyPayment)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Group(func(g chi.Router) {
			if h.LoginLimiter != nil {
				g.Use(mw.RateLimit(h.LoginLimiter))
			}
			g.Post("/login", h.Login)
		})
		r.Post("/logout", h.Logout)

		r.Group(func(g chi.Router) {
			g.Use(mw.AdminOnly(h.Auth, h.cookieTokens()))

			g.Get("/forms", h.ListForms)
			g.Get("/forms/export", h.ExportForms)
			g.Get("/forms/print", h.PrintForms)
			g.Get("/forms/{id}", h.GetForm)
			g.Get("/forms/{id}/print", h.PrintForm)
			g.Delete("/forms/{id}", h.DeleteForm)
			g.Get("/stats", h.Stats)
		})
	})

	return r
}

func maxBytes(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger writes one access line per request through the service logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Info(log.CatHTTP, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"reqId", middleware.GetReqID(r.Context()),
		)
	})
}

// recoverer turns a panic into the generic 500 envelope.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error(log.CatHTTP, "panic recovered", "path", r.URL.Path, "panic", rec)
				jsonError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
