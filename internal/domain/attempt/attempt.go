package attempt

import (
	"time"

	"github.com/google/uuid"
)

// RecordResult is the outcome of reserving a (user, riddle) slot.
type RecordResult string

const (
	RecordAccepted  RecordResult = "ACCEPTED"
	RecordDuplicate RecordResult = "DUPLICATE"
)

// Attempt is one user's single submission for one riddle. Rows are
// append-only; (UserID, RiddleID) is unique in the store.
type Attempt struct {
	ID          int64     `json:"id"`
	AttemptID   uuid.UUID `json:"attemptId"`
	UserID      uuid.UUID `json:"userId"`
	RiddleID    uuid.UUID `json:"riddleId"`
	Correct     bool      `json:"correct"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

// New builds an attempt stamped at the given instant.
func New(userID, riddleID uuid.UUID, correct bool, at time.Time) *Attempt {
	return &Attempt{
		AttemptID:   uuid.New(),
		UserID:      userID,
		RiddleID:    riddleID,
		Correct:     correct,
		AttemptedAt: at.UTC(),
	}
}

// Record is an attempt joined with riddle details for history views.
type Record struct {
	Attempt
	RiddleQuestion string `json:"riddleQuestion"`
	RiddleAnswer   string `json:"riddleAnswer"`
	// Won is true when the riddle's winner is this attempt's user.
	Won bool `json:"won"`
}
