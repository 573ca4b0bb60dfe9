package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	appActivity "github.com/lantern-hub/lantern/internal/application/activity"
	domainActivity "github.com/lantern-hub/lantern/internal/domain/activity"
)

var localTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

type activityRequest struct {
	Name      string `json:"name" validate:"notblank,max=100"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// getActivity returns the window and its phase, creating the default window
// on first use.
func (s *Server) getActivity(w http.ResponseWriter, r *http.Request) {
	status, err := s.activitySvc.Status(r.Context())
	if err != nil {
		s.respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

func (s *Server) updateActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	start, err := parseTime(req.StartTime, s.opts.DisplayLocation)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid start_time")
		return
	}
	end, err := parseTime(req.EndTime, s.opts.DisplayLocation)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid end_time")
		return
	}
	saved, err := s.activitySvc.Update(r.Context(), appActivity.UpdateInput{
		Name:      req.Name,
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		if errors.Is(err, domainActivity.ErrInvalidWindow) || errors.Is(err, domainActivity.ErrNameRequired) {
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
			return
		}
		s.respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

// parseTime accepts RFC3339 or a wall-clock time in loc.
func parseTime(val string, loc *time.Location) (time.Time, error) {
	val = strings.TrimSpace(val)
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range localTimeLayouts {
		if t, err := time.ParseInLocation(layout, val, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", val)
}
