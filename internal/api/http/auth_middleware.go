package httpapi

import (
	"errors"
	"net/http"
	"strings"

	appAuth "github.com/lantern-hub/lantern/internal/application/auth"
	domainSession "github.com/lantern-hub/lantern/internal/domain/session"
	domainUser "github.com/lantern-hub/lantern/internal/domain/user"
)

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r, s.opts.SessionCookieName)
		u, sess, err := s.authSvc.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, appAuth.ErrUnauthenticated) {
				respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "please sign in")
				return
			}
			s.respondInternal(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withAuthUser(r.Context(), newAuthUser(u, sess))))
	})
}

// optionalAuth attaches the caller when a valid session is presented and
// lets anonymous requests through unchanged.
func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r, s.opts.SessionCookieName)
		if token != "" {
			if u, sess, err := s.authSvc.Authenticate(r.Context(), token); err == nil {
				r = r.WithContext(withAuthUser(r.Context(), newAuthUser(u, sess)))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	for _, r := range roles {
		allowed[strings.ToUpper(r)] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := authUserFromContext(r.Context())
			if user == nil {
				respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth")
				return
			}
			if _, ok := allowed[strings.ToUpper(string(user.Role))]; !ok {
				respondError(w, http.StatusForbidden, "FORBIDDEN", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newAuthUser(u *domainUser.User, sess *domainSession.Session) *AuthUser {
	return &AuthUser{
		UserID:    u.UserID,
		Username:  u.Username,
		Avatar:    u.AvatarRef(),
		Role:      u.Role,
		SessionID: sess.SessionID,
	}
}

func extractToken(r *http.Request, cookieName string) string {
	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	}
	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil {
			return c.Value
		}
	}
	return ""
}
