package activity

import (
	"errors"
	"strings"
	"time"
)

// Phase is where the contest stands relative to its window.
type Phase string

const (
	PhaseNotStarted Phase = "NOT_STARTED"
	PhaseActive     Phase = "ACTIVE"
	PhaseEnded      Phase = "ENDED"
)

var (
	ErrNameRequired  = errors.New("activity name is required")
	ErrInvalidWindow = errors.New("end time must be after start time")
)

// Window is the single contest activity record.
type Window struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewWindow validates and builds a window.
func NewWindow(name string, start, end time.Time) (*Window, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !end.After(start) {
		return nil, ErrInvalidWindow
	}
	return &Window{
		Name:      name,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// PhaseAt evaluates the half-open interval [StartTime, EndTime).
func (w *Window) PhaseAt(now time.Time) Phase {
	if now.Before(w.StartTime) {
		return PhaseNotStarted
	}
	if !now.Before(w.EndTime) {
		return PhaseEnded
	}
	return PhaseActive
}
