package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/p28/portal/internal/auth"
	"github.com/p28/portal/internal/entitlement"
	"github.com/p28/portal/internal/handler"
	"github.com/p28/portal/internal/middleware"
	"github.com/p28/portal/internal/web"
)

// Stores are the persistence backends, SQLite or Postgres.
type Stores struct {
	Entitlements entitlement.Store
	Tiers        handler.TierLister
}

type Config struct {
	SiteURL      string
	Version      string
	AuthCookie   string
	AdminEmails  []string
	CookieSecure bool
	// Resolver turns a request into a session. Required.
	Resolver auth.Resolver
	// Limiter overrides the in-memory rate limiter, e.g. with Redis.
	Limiter middleware.Limiter
}

type Server struct {
	cfg          Config
	logger       *slog.Logger
	appArea      auth.Area
	adminArea    auth.Area
	rateLimiter  *middleware.RateLimiter
	limiter      middleware.Limiter

	attributionH *handler.AttributionHandler
	healthH      *handler.HealthHandler
	tierH        *handler.TierHandler
	entitlementH *handler.EntitlementHandler
	dashboardH   *handler.DashboardHandler
	marketingH   *handler.MarketingHandler
	seoH         *handler.SEOHandler
}

func New(stores Stores, cfg Config, logger *slog.Logger) (*Server, error) {
	if cfg.Resolver == nil {
		return nil, fmt.Errorf("server: resolver is required")
	}
	if cfg.AuthCookie == "" {
		cfg.AuthCookie = auth.DefaultAccessCookie
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	renderer := handler.NewRenderer(tmpl, cfg.SiteURL, logger.With("component", "render"))

	svc := entitlement.NewService(stores.Entitlements, logger.With("component", "entitlement"))

	rl := middleware.NewRateLimiter()
	var limiter middleware.Limiter = rl
	if cfg.Limiter != nil {
		limiter = cfg.Limiter
	}

	return &Server{
		cfg:          cfg,
		logger:       logger,
		appArea:      auth.AppArea,
		adminArea:    auth.AdminArea.WithAllowedEmails(cfg.AdminEmails),
		rateLimiter:  rl,
		limiter:      limiter,

		attributionH: handler.NewAttributionHandler(cfg.CookieSecure, logger.With("component", "attribution")),
		healthH:      handler.NewHealthHandler(cfg.Version),
		tierH:        handler.NewTierHandler(stores.Tiers, renderer, logger.With("component", "tiers")),
		entitlementH: handler.NewEntitlementHandler(svc, logger.With("component", "entitlement")),
		dashboardH:   handler.NewDashboardHandler(svc, stores.Tiers, renderer, logger.With("component", "dashboard")),
		marketingH:   handler.NewMarketingHandler(renderer, cfg.AuthCookie, cfg.CookieSecure),
		seoH:         handler.NewSEOHandler(cfg.SiteURL),
	}, nil
}

// RateLimiter returns the in-memory rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Public pages
	mux.HandleFunc("GET /{$}", s.marketingH.LandingPage)
	mux.HandleFunc("GET /pricing", s.tierH.PricingPage)
	mux.HandleFunc("GET /login", s.marketingH.LoginPage)
	mux.HandleFunc("POST /logout", s.marketingH.Logout)

	// SEO
	mux.HandleFunc("GET /robots.txt", s.seoH.Robots)
	mux.HandleFunc("GET /sitemap.xml", s.seoH.Sitemap)

	// Public API
	mux.HandleFunc("GET /health", s.healthH.Check)
	mux.HandleFunc("GET /api/health", s.healthH.Check)
	mux.HandleFunc("GET /api/package-subscriptions/tiers", s.tierH.List)
	mux.HandleFunc("POST /api/attribution", s.attributionH.Capture)

	s.registerProtectedRoutes(mux)

	var h http.Handler = mux
	h = middleware.RequestLogger(s.logger.With("component", "http"))(h)
	h = middleware.AnonSession(s.cfg.CookieSecure)(h)
	return h
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	appMw := middleware.RequireSession(s.cfg.Resolver, s.appArea)
	adminMw := middleware.RequireSession(s.cfg.Resolver, s.adminArea)
	apiMw := middleware.RequireSessionAPI(s.cfg.Resolver)

	mux.Handle("GET /auth/callback", appMw(http.HandlerFunc(s.entitlementH.AuthCallback)))

	mux.Handle("GET /app", appMw(http.HandlerFunc(s.dashboardH.App)))
	mux.Handle("GET /app/{$}", appMw(http.HandlerFunc(s.dashboardH.App)))
	mux.Handle("GET /app/courses/{courseID}", appMw(http.HandlerFunc(s.dashboardH.CoursePage)))
	mux.Handle("GET /admin", adminMw(http.HandlerFunc(s.dashboardH.Admin)))
	mux.Handle("GET /admin/{$}", adminMw(http.HandlerFunc(s.dashboardH.Admin)))

	// Anything else under a protected area is gated before it 404s.
	mux.Handle("/app/", appMw(http.NotFoundHandler()))
	mux.Handle("/admin/", adminMw(http.NotFoundHandler()))

	mux.Handle("GET /api/courses/{courseID}/access", apiMw(http.HandlerFunc(s.entitlementH.CourseAccess)))
	mux.Handle("POST /api/entitlements/link", apiMw(s.rateLimitedHandler("link", s.entitlementH.Link, 10)))
}

// rateLimitedHandler limits h per client IP. Each route counts separately.
func (s *Server) rateLimitedHandler(route string, h http.HandlerFunc, perMinute int) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return route + ":" + middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.limiter, keyFunc, perMinute, time.Minute)
	wrapped := rl(h)
	return wrapped.ServeHTTP
}
