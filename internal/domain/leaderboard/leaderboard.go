package leaderboard

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order controls solved_at sorting.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder maps a query value onto an Order. Earliest win first is the
// default.
func ParseOrder(s string) Order {
	if strings.EqualFold(strings.TrimSpace(s), string(OrderDesc)) {
		return OrderDesc
	}
	return OrderAsc
}

// Entry is one solved riddle with its winner.
type Entry struct {
	RiddleID     uuid.UUID `json:"riddleId"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	WinnerID     uuid.UUID `json:"winnerId"`
	WinnerName   string    `json:"winnerName"`
	WinnerAvatar *string   `json:"winnerAvatar,omitempty"`
	SolvedAt     time.Time `json:"solvedAt"`
}

// Standing aggregates wins per participant.
type Standing struct {
	UserID       uuid.UUID `json:"userId"`
	Username     string    `json:"username"`
	Avatar       *string   `json:"avatar,omitempty"`
	Wins         int       `json:"wins"`
	LastSolvedAt time.Time `json:"lastSolvedAt"`
}

// Filter narrows the winners board. Keyword matches question, answer or
// winner name.
type Filter struct {
	Keyword *string
	Order   Order
}
