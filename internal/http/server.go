// Package http serves the dashboard as a JSON API. Each user gets one
// dashboard.Coordinator, kept in an idle-expiring session registry.
package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"loandash/internal/cache"
	"loandash/internal/dashboard"
	"loandash/internal/loans"
	applog "loandash/internal/log"
	"loandash/internal/middleware/ratelimit"
	"loandash/internal/middleware/security"
	"loandash/internal/middleware/trace"
)

// HeaderUserID carries the caller's identity when no IdentityFunc is set.
const HeaderUserID = "X-User-ID"

const (
	defaultSessionTTL   = 30 * time.Minute
	defaultSessionMax   = 1000
	cacheCleanupPeriod  = 5 * time.Minute
	defaultCycleTimeout = 15 * time.Second
)

// ErrMissingIdentity is returned by an IdentityFunc that finds no user.
var ErrMissingIdentity = errors.New("missing user identity")

// IdentityFunc resolves the user a request acts for.
type IdentityFunc func(*http.Request) (string, error)

// HeaderIdentity reads the user from the X-User-ID header.
func HeaderIdentity(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if id == "" {
		return "", ErrMissingIdentity
	}
	return id, nil
}

// Publisher announces loan changes. amqp.Client implements it.
type Publisher interface {
	PublishLoanChanged(ctx context.Context, userID, loanID string) error
}

// Deps wires the server to a backend and the translation pipeline.
// Writer, Prefs, Publisher and Ready are optional.
type Deps struct {
	Store      loans.Store
	Writer     loans.Writer
	Prefs      loans.PreferenceStore
	Translator dashboard.Translator
	Publisher  Publisher
	Identity   IdentityFunc
	Logger     *applog.Logger

	// Ready probes the backend for /readyz
	Ready func(ctx context.Context) error
	// Cleaners are backend caches swept alongside the session registry
	Cleaners []cache.Cleaner

	SessionTTL        time.Duration
	SessionMax        int
	LanguageRateLimit int
	// CycleTimeout bounds one fetch and translate cycle
	CycleTimeout time.Duration
}

type Server struct {
	http.Server
	deps     Deps
	logger   *applog.Logger
	events   *applog.StructuredLogger
	sessions *cache.LRUCache[*dashboard.Coordinator]
	caches   *cache.Manager
	limiter  *ratelimit.Limiter
	clientIP *security.ClientIPResolver
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. Call Shutdown to stop its background cleanup.
func NewServer(addr string, deps Deps) *Server {
	if deps.Identity == nil {
		deps.Identity = HeaderIdentity
	}
	if deps.Logger == nil {
		deps.Logger = applog.New(applog.DefaultConfig())
	}
	if deps.SessionTTL <= 0 {
		deps.SessionTTL = defaultSessionTTL
	}
	if deps.SessionMax <= 0 {
		deps.SessionMax = defaultSessionMax
	}
	if deps.CycleTimeout <= 0 {
		deps.CycleTimeout = defaultCycleTimeout
	}

	logger := deps.Logger.WithComponent(applog.ComponentHTTP)
	s := &Server{
		deps:     deps,
		logger:   logger,
		events:   applog.NewStructuredLogger(logger),
		sessions: cache.NewLRUCache[*dashboard.Coordinator](deps.SessionMax, deps.SessionTTL, cache.WithSlidingExpiry()),
		caches:   cache.NewManager(),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: deps.LanguageRateLimit,
		}),
		clientIP: security.NewClientIPResolver(),
	}
	s.tracer = trace.NewMiddleware(logger, s.clientIP.ClientIP)

	s.caches.Register(s.sessions)
	for _, c := range deps.Cleaners {
		s.caches.Register(c)
	}
	s.caches.StartCleanup(cacheCleanupPeriod)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/dashboard", s.withUser(s.handleDashboard))
	mux.HandleFunc("GET /api/language", s.withUser(s.handleGetLanguage))
	mux.Handle("PUT /api/language", s.limiter.Middleware(s.clientIP.ClientIP, onRateLimited)(
		s.withUser(s.handleChangeLanguage)))
	mux.HandleFunc("POST /api/loans", s.withUser(s.handleCreateLoan))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	handler := applog.Middleware(logger)(s.tracer.Middleware(headers.Middleware(mux)))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown stops background cleanup and gracefully shuts the listener down.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// SessionCount reports how many dashboards are live.
func (s *Server) SessionCount() int {
	return s.sessions.Size()
}

// session returns the user's coordinator, creating it on first use.
func (s *Server) session(userID string) *dashboard.Coordinator {
	return s.sessions.GetOrCreate(userID, func() *dashboard.Coordinator {
		var opts []dashboard.Option
		if s.deps.Prefs != nil {
			opts = append(opts, dashboard.WithPreferences(s.deps.Prefs))
		}
		return dashboard.New(userID, s.deps.Store, s.deps.Translator, opts...)
	})
}

type userHandler func(w http.ResponseWriter, r *http.Request, userID string)

func (s *Server) withUser(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.deps.Identity(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "missing user identity")
			return
		}
		next(w, r, userID)
	}
}

func onRateLimited(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
}
