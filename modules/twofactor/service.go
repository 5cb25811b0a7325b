package twofactor

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/secyourflow/authkit/pkg/ratelimiter"
	"github.com/secyourflow/authkit/pkg/session"
	"github.com/secyourflow/authkit/pkg/sessiontrust"
	"github.com/secyourflow/authkit/pkg/twofactor"
)

// SessionCookieName is the cookie carrying the session token. A bearer token
// in the Authorization header is accepted as an alternative for API clients.
const SessionCookieName = "session_token"

// Service exposes the two-factor operations over HTTP. It owns no business
// logic: each handler resolves the session, applies the rate limit where a
// code is being checked, delegates to the core service, and translates the
// outcome.
type Service struct {
	cfg       Config
	core      *twofactor.Service
	sessions  *session.Manager
	keychain  *sessiontrust.Keychain
	limiter   ratelimiter.Limiter
	ipLimiter ratelimiter.Limiter
	log       *slog.Logger
}

// Option configures the HTTP module.
type Option func(*Service)

// WithIPLimiter mounts a coarse per-IP limit in front of the code-checking
// endpoints, ahead of session resolution and the per-user attempt limit. It
// caps anonymous probing against stolen session tokens; size its window well
// above the per-user limit so shared egress addresses are not starved.
func WithIPLimiter(limiter ratelimiter.Limiter) Option {
	return func(s *Service) {
		s.ipLimiter = limiter
	}
}

// NewService assembles the HTTP module.
func NewService(
	cfg Config,
	core *twofactor.Service,
	sessions *session.Manager,
	keychain *sessiontrust.Keychain,
	limiter ratelimiter.Limiter,
	log *slog.Logger,
	opts ...Option,
) *Service {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{
		cfg:      cfg,
		core:     core,
		sessions: sessions,
		keychain: keychain,
		limiter:  limiter,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle returns the module's router, meant to be mounted under a path like
// /2fa/totp by the host application.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/status", s.withSession(s.status))
	r.Post("/enroll", s.withSession(s.enroll))
	r.Post("/recovery-codes", s.withSession(s.regenerateRecoveryCodes))

	r.Group(func(g chi.Router) {
		if s.ipLimiter != nil {
			g.Use(ratelimiter.Middleware(s.ipLimiter, ratelimiter.Composite(clientIP)))
		}
		g.Post("/verify", s.withSession(s.verify))
		g.Post("/challenge", s.withSession(s.challenge))
		g.Post("/disable", s.withSession(s.disable))
	})

	return r
}

// clientIP keys the pre-session limit by the remote address, port stripped.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// withSession resolves and validates the caller's session before invoking
// the handler with it.
func (s *Service) withSession(next func(http.ResponseWriter, *http.Request, *session.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}

		sess, err := s.sessions.Get(r.Context(), token)
		if err != nil || !sess.IsAuthenticated() {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}

		next(w, r, sess)
	}
}

func sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// consumeAttempt applies the per-user attempt limit for code-checking
// endpoints. Returns false after writing the 429 response when the caller is
// over the limit.
func (s *Service) consumeAttempt(w http.ResponseWriter, r *http.Request, op, userID string) bool {
	result, err := s.limiter.Consume(r.Context(), op+":"+userID)
	if err != nil {
		s.log.ErrorContext(r.Context(), "rate limit check failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
		return false
	}
	if !result.Allowed() {
		writeRetryAfter(w, result)
		return false
	}
	return true
}

// resetAttempts clears the attempt window after a successful verification so
// earlier failures stop counting against the user.
func (s *Service) resetAttempts(r *http.Request, op, userID string) {
	if err := s.limiter.Reset(r.Context(), op+":"+userID); err != nil {
		s.log.WarnContext(r.Context(), "rate limit reset failed", "op", op, "error", err)
	}
}
