package httpapi

import (
	"errors"
	"mime"
	"net"
	"net/http"
	"time"

	appAuth "github.com/lantern-hub/lantern/internal/application/auth"
	domainUser "github.com/lantern-hub/lantern/internal/domain/user"
	"github.com/lantern-hub/lantern/internal/infrastructure/avatar"
)

type loginRequest struct {
	Username string `json:"username" validate:"notblank"`
}

type adminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User         interface{} `json:"user"`
	SessionID    string      `json:"session_id"`
	ExpiresAt    string      `json:"expires_at"`
	SessionToken string      `json:"session_token"`
}

// login signs a participant in by display name, with an optional avatar
// uploaded as the multipart "file" field.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	multipart := mediaType == "multipart/form-data"
	if multipart {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.AvatarMaxBytes+(1<<20))
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid multipart form")
			return
		}
		req.Username = r.FormValue("username")
	} else if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if _, err := domainUser.NormalizeDisplayName(req.Username); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}

	var avatarRef *string
	if multipart {
		ref, err := s.saveAvatar(r)
		if err != nil {
			if errors.Is(err, avatar.ErrUnsupportedType) || errors.Is(err, avatar.ErrTooLarge) || errors.Is(err, avatar.ErrEmpty) || errors.Is(err, errBadUpload) {
				respondError(w, http.StatusBadRequest, "INVALID_AVATAR", err.Error())
				return
			}
			s.respondInternal(w, r, err)
			return
		}
		avatarRef = ref
	}

	userAgent, ip := clientInfo(r)
	res, err := s.authSvc.SignIn(r.Context(), req.Username, avatarRef, &userAgent, &ip)
	if err != nil {
		s.respondInternal(w, r, err)
		return
	}
	s.setSessionCookie(w, res)
	respondJSON(w, http.StatusOK, newLoginResponse(res))
}

var errBadUpload = errors.New("invalid avatar upload")

// saveAvatar stores the optional "file" field and returns its reference.
func (s *Server) saveAvatar(r *http.Request) (*string, error) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errBadUpload
	}
	defer file.Close()
	ref, err := s.avatars.Save(r.Context(), header.Filename, file)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (s *Server) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	userAgent, ip := clientInfo(r)
	res, err := s.authSvc.AdminLogin(r.Context(), req.Username, req.Password, &userAgent, &ip)
	if err != nil {
		if errors.Is(err, appAuth.ErrInvalidCredentials) || errors.Is(err, appAuth.ErrUserDisabled) {
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
			return
		}
		s.respondInternal(w, r, err)
		return
	}
	s.setSessionCookie(w, res)
	respondJSON(w, http.StatusOK, newLoginResponse(res))
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	token := extractToken(r, s.opts.SessionCookieName)
	if err := s.authSvc.Logout(r.Context(), token); err != nil {
		s.logger.Warn().Err(err).Msg("logout failed")
	}

	cookie := &http.Cookie{
		Name:     s.opts.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.opts.SessionCookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
	http.SetCookie(w, cookie)
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "OK"})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u := authUserFromContext(r.Context())
	if u == nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"userId":   u.UserID,
		"username": u.Username,
		"avatar":   u.Avatar,
		"role":     u.Role,
	})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, res *appAuth.LoginResult) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.SessionCookieName,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.Session.ExpiresAt,
		HttpOnly: true,
		Secure:   s.opts.SessionCookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func newLoginResponse(res *appAuth.LoginResult) loginResponse {
	return loginResponse{
		User:         res.User,
		SessionID:    res.Session.SessionID.String(),
		ExpiresAt:    res.Session.ExpiresAt.Format(time.RFC3339),
		SessionToken: res.Token,
	}
}

func clientInfo(r *http.Request) (string, string) {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return r.UserAgent(), ip
}
