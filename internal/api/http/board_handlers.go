package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	appLeaderboard "github.com/lantern-hub/lantern/internal/application/leaderboard"
	appUser "github.com/lantern-hub/lantern/internal/application/user"
	domainLeaderboard "github.com/lantern-hub/lantern/internal/domain/leaderboard"
	domainUser "github.com/lantern-hub/lantern/internal/domain/user"
)

func (s *Server) myRecords(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	if auth == nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth")
		return
	}
	records, err := s.attemptSvc.ListForUser(r.Context(), auth.UserID)
	if err != nil {
		s.respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}

func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	p := parsePagination(r, 20, 200)
	entries, total, err := s.leaderboardSvc.List(r.Context(), appLeaderboard.ListInput{
		Keyword: r.URL.Query().Get("keyword"),
		Order:   domainLeaderboard.ParseOrder(r.URL.Query().Get("order")),
		Limit:   p.limit(),
		Offset:  p.offset(),
	})
	if err != nil {
		s.respondInternal(w, r, err)
		return
	}
	if entries == nil {
		entries = []*domainLeaderboard.Entry{}
	}
	respondJSON(w, http.StatusOK, newPageResponse(p, total, entries))
}

func (s *Server) standings(w http.ResponseWriter, r *http.Request) {
	limit, _ := parseLimitOffset(r, 50, 200)
	rows, err := s.leaderboardSvc.Standings(r.Context(), limit)
	if err != nil {
		s.respondInternal(w, r, err)
		return
	}
	if rows == nil {
		rows = []*domainLeaderboard.Standing{}
	}
	respondJSON(w, http.StatusOK, rows)
}

// exportRecords renders the whole winners board as a CSV download.
func (s *Server) exportRecords(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	rows, err := s.leaderboardSvc.Export(r.Context(), &buf, appLeaderboard.ExportInput{
		Keyword: r.URL.Query().Get("keyword"),
		Order:   domainLeaderboard.ParseOrder(r.URL.Query().Get("order")),
		Expr:    r.URL.Query().Get("expr"),
	})
	if err != nil {
		if errors.Is(err, appLeaderboard.ErrInvalidFilter) {
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
			return
		}
		s.respondInternal(w, r, err)
		return
	}
	filename := fmt.Sprintf("lantern-records-%s.csv", time.Now().In(s.opts.DisplayLocation).Format("20060102-150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Row-Count", strconv.Itoa(rows))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) listParticipants(w http.ResponseWriter, r *http.Request) {
	p := parsePagination(r, 20, 200)
	users, total, err := s.userSvc.ListParticipants(r.Context(), appUser.ListInput{
		Keyword: r.URL.Query().Get("keyword"),
		Limit:   p.limit(),
		Offset:  p.offset(),
	})
	if err != nil {
		s.respondInternal(w, r, err)
		return
	}
	if users == nil {
		users = []*domainUser.User{}
	}
	respondJSON(w, http.StatusOK, newPageResponse(p, total, users))
}

func (s *Server) deleteParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "userId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid userId")
		return
	}
	err = s.userSvc.DeleteParticipant(r.Context(), id)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]interface{}{"status": "OK"})
	case errors.Is(err, appUser.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, appUser.ErrAdminAccount), errors.Is(err, appUser.ErrHasWonRiddles):
		respondError(w, http.StatusConflict, "CONFLICT", err.Error())
	default:
		s.respondInternal(w, r, err)
	}
}
