package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appActivity "github.com/lantern-hub/lantern/internal/application/activity"
	appArbitration "github.com/lantern-hub/lantern/internal/application/arbitration"
	appAttempt "github.com/lantern-hub/lantern/internal/application/attempt"
	appAuth "github.com/lantern-hub/lantern/internal/application/auth"
	appLeaderboard "github.com/lantern-hub/lantern/internal/application/leaderboard"
	appRiddle "github.com/lantern-hub/lantern/internal/application/riddle"
	appUser "github.com/lantern-hub/lantern/internal/application/user"
	"github.com/lantern-hub/lantern/internal/domain/notification"
	domainUser "github.com/lantern-hub/lantern/internal/domain/user"
	"github.com/lantern-hub/lantern/internal/infrastructure/avatar"
	"github.com/lantern-hub/lantern/internal/infrastructure/metrics"
)

// Options carries transport settings that are not services.
type Options struct {
	SessionCookieName   string
	SessionCookieSecure bool
	DisplayLocation     *time.Location
	AvatarMaxBytes      int64
	// AvatarDir is served under /avatar/ when avatars are kept on local disk.
	AvatarDir           string
	PingInterval        time.Duration
	MetricsHandler      http.Handler
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	arbitrationSvc *appArbitration.Service
	activitySvc    *appActivity.Service
	riddleSvc      *appRiddle.Service
	attemptSvc     *appAttempt.Service
	leaderboardSvc *appLeaderboard.Service
	authSvc        *appAuth.Service
	userSvc        *appUser.Service
	sseHub         notification.SSEHub
	avatars        avatar.Store
	metrics        *metrics.Metrics
	health         func(context.Context) error
	validate       *requestValidator
	opts           Options
	logger         zerolog.Logger
}

func NewServer(
	arbitrationSvc *appArbitration.Service,
	activitySvc *appActivity.Service,
	riddleSvc *appRiddle.Service,
	attemptSvc *appAttempt.Service,
	leaderboardSvc *appLeaderboard.Service,
	authSvc *appAuth.Service,
	userSvc *appUser.Service,
	sseHub notification.SSEHub,
	avatars avatar.Store,
	m *metrics.Metrics,
	health func(context.Context) error,
	opts Options,
	logger zerolog.Logger,
) *Server {
	if opts.SessionCookieName == "" {
		opts.SessionCookieName = "lantern_session"
	}
	if opts.DisplayLocation == nil {
		opts.DisplayLocation = time.UTC
	}
	if opts.AvatarMaxBytes <= 0 {
		opts.AvatarMaxBytes = 16 << 20
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = 25 * time.Second
	}
	return &Server{
		arbitrationSvc: arbitrationSvc,
		activitySvc:    activitySvc,
		riddleSvc:      riddleSvc,
		attemptSvc:     attemptSvc,
		leaderboardSvc: leaderboardSvc,
		authSvc:        authSvc,
		userSvc:        userSvc,
		sseHub:         sseHub,
		avatars:        avatars,
		metrics:        m,
		health:         health,
		validate:       newRequestValidator(),
		opts:           opts,
		logger:         logger.With().Str("component", "http").Logger(),
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}

	r.Get("/healthz", s.healthz)
	if s.opts.MetricsHandler != nil {
		r.Handle("/metrics", s.opts.MetricsHandler)
	}
	if s.opts.AvatarDir != "" {
		r.Handle("/avatar/*", http.FileServer(http.Dir(s.opts.AvatarDir)))
	}
	// The event stream outlives any request timeout.
	r.With(s.optionalAuth).Get("/api/events", s.events)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Post("/login", s.login)
		r.Post("/logout", s.logout)
		r.Get("/logout", s.logout)
		r.Get("/activity", s.getActivity)
		r.Get("/leaderboard/standings", s.standings)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.me)
			r.Get("/riddles", s.riddleFeed)
			r.Get("/riddles/{riddleId}", s.getRiddle)
			r.Post("/riddles/{riddleId}/answer", s.submitAnswer)
			r.Get("/my/records", s.myRecords)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", s.adminLogin)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Use(s.requireRole(string(domainUser.RoleAdmin)))

				r.Put("/activity", s.updateActivity)

				r.Get("/riddles", s.listRiddles)
				r.Post("/riddles", s.createRiddle)
				r.Get("/riddles/{riddleId}", s.getRiddleAdmin)
				r.Put("/riddles/{riddleId}", s.updateRiddle)
				r.Delete("/riddles/{riddleId}", s.deleteRiddle)

				r.Get("/users", s.listParticipants)
				r.Delete("/users/{userId}", s.deleteParticipant)
				r.Get("/leaderboard", s.leaderboard)
				r.Get("/records/export", s.exportRecords)
			})
		})
	})

	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			respondError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", err.Error())
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

// Helpers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

// respondInternal hides storage details from clients and marks the call as
// safe to retry.
func (s *Server) respondInternal(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error().Err(err).Str("path", r.URL.Path).Str("request_id", middleware.GetReqID(r.Context())).Msg("request failed")
	respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
		"error":     "STORAGE_UNAVAILABLE",
		"message":   "temporarily unavailable, please retry",
		"retryable": true,
	})
}

func parseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	val := chi.URLParam(r, key)
	return uuid.Parse(val)
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := []string{}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLimitOffset(r *http.Request, defaultLimit, maxLimit int) (int, int) {
	limit := defaultLimit
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil {
			limit = l
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil {
			offset = o
		}
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// pagination is the page/pageSize form used by list screens.
type pagination struct {
	Page     int
	PageSize int
}

func (p pagination) limit() int  { return p.PageSize }
func (p pagination) offset() int { return (p.Page - 1) * p.PageSize }

func parsePagination(r *http.Request, defaultSize, maxSize int) pagination {
	p := pagination{Page: 1, PageSize: defaultSize}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil && v > 0 {
		p.PageSize = v
	}
	if p.PageSize > maxSize {
		p.PageSize = maxSize
	}
	return p
}

type pageResponse struct {
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
	List       interface{} `json:"list"`
}

func newPageResponse(p pagination, total int, list interface{}) pageResponse {
	pages := 0
	if p.PageSize > 0 {
		pages = (total + p.PageSize - 1) / p.PageSize
	}
	return pageResponse{Total: total, Page: p.Page, PageSize: p.PageSize, TotalPages: pages, List: list}
}
