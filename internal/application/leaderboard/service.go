package leaderboard

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/lantern-hub/lantern/internal/domain/leaderboard"
)

const (
	exportTimeLayout = "2006-01-02 15:04:05"
	utf8BOM          = "\ufeff"
)

// ErrInvalidFilter wraps expression compile and evaluation failures.
var ErrInvalidFilter = errors.New("invalid filter")

var exportHeader = []string{"record id", "winner", "riddle", "answer", "solved at"}

// Service serves the winners board, standings and the CSV export.
type Service struct {
	repo     domain.Repository
	location *time.Location
	logger   zerolog.Logger
}

// NewService creates a leaderboard service. Export times are rendered in loc.
func NewService(repo domain.Repository, loc *time.Location, logger zerolog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:     repo,
		location: loc,
		logger:   logger.With().Str("service", "leaderboard").Logger(),
	}
}

// ListInput selects one page of the winners board.
type ListInput struct {
	Keyword string
	Order   domain.Order
	Limit   int
	Offset  int
}

func (in ListInput) filter() domain.Filter {
	f := domain.Filter{Order: in.Order}
	if f.Order == "" {
		f.Order = domain.OrderAsc
	}
	if kw := strings.TrimSpace(in.Keyword); kw != "" {
		f.Keyword = &kw
	}
	return f
}

// List returns one page of solved riddles and the total count.
func (s *Service) List(ctx context.Context, input ListInput) ([]*domain.Entry, int, error) {
	return s.repo.List(ctx, input.filter(), input.Limit, input.Offset)
}

// Standings ranks participants by number of wins.
func (s *Service) Standings(ctx context.Context, limit int) ([]*domain.Standing, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.Standings(ctx, limit)
}

// ExportInput selects rows for the CSV export.
type ExportInput struct {
	Keyword string
	Order   domain.Order
	Expr    string
}

// Export writes the winners board as CSV with a UTF-8 byte order mark and
// returns the number of data rows written.
func (s *Service) Export(ctx context.Context, w io.Writer, input ExportInput) (int, error) {
	filter, err := CompileFilter(input.Expr)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	entries, err := s.repo.ListAll(ctx, ListInput{Keyword: input.Keyword, Order: input.Order}.filter())
	if err != nil {
		return 0, err
	}

	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return 0, err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, err
	}
	rows := 0
	for _, e := range entries {
		ok, err := filter.Match(e)
		if err != nil {
			return rows, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		if !ok {
			continue
		}
		rows++
		record := []string{
			strconv.Itoa(rows),
			e.WinnerName,
			e.Question,
			e.Answer,
			e.SolvedAt.In(s.location).Format(exportTimeLayout),
		}
		if err := cw.Write(record); err != nil {
			return rows, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return rows, err
	}
	s.logger.Info().Int("rows", rows).Msg("leaderboard exported")
	return rows, nil
}
