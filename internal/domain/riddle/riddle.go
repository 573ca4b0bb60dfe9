package riddle

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrQuestionRequired = errors.New("question is required")
	ErrAnswerRequired   = errors.New("answer is required")
)

// Riddle is a single contest question. Solved and WinnerID are written once,
// by the conditional winning transition, and never change afterwards.
type Riddle struct {
	ID        int64      `json:"id"`
	RiddleID  uuid.UUID  `json:"riddleId"`
	Question  string     `json:"question"`
	Remark    *string    `json:"remark,omitempty"`
	Options   []string   `json:"options"`
	Answer    string     `json:"-"`
	Solved    bool       `json:"solved"`
	WinnerID  *uuid.UUID `json:"winnerId,omitempty"`
	SolvedAt  *time.Time `json:"solvedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// WithWinner is a riddle joined with its winner's display fields.
type WithWinner struct {
	Riddle
	WinnerName   *string `json:"winnerName,omitempty"`
	WinnerAvatar *string `json:"winnerAvatar,omitempty"`
}

// New builds an unsolved riddle.
func New(question, answer string, options []string, remark *string) (*Riddle, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" {
		return nil, ErrQuestionRequired
	}
	if answer == "" {
		return nil, ErrAnswerRequired
	}
	now := time.Now().UTC()
	return &Riddle{
		RiddleID:  uuid.New(),
		Question:  question,
		Remark:    remark,
		Options:   CleanOptions(options),
		Answer:    answer,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NormalizeAnswer trims surrounding whitespace and folds case.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Matches reports whether a submitted answer equals the riddle's answer,
// ignoring case and surrounding whitespace.
func (r *Riddle) Matches(submitted string) bool {
	return NormalizeAnswer(submitted) == NormalizeAnswer(r.Answer)
}

// CleanOptions drops blank options and keeps the order of the rest.
func CleanOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Filter controls admin listing.
type Filter struct {
	Keyword *string
	Solved  *bool
}
