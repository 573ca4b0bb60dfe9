package leaderboard

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domain "github.com/lantern-hub/lantern/internal/domain/leaderboard"
	"github.com/lantern-hub/lantern/internal/domain/leaderboard/mocks"
)

func sampleEntries() []*domain.Entry {
	return []*domain.Entry{
		{RiddleID: uuid.New(), Question: "q1", Answer: "lantern", WinnerID: uuid.New(), WinnerName: "Lily", SolvedAt: time.Date(2026, 2, 12, 12, 0, 0, 0, time.UTC)},
		{RiddleID: uuid.New(), Question: "q2", Answer: "moon", WinnerID: uuid.New(), WinnerName: "Bo", SolvedAt: time.Date(2026, 2, 12, 13, 30, 5, 0, time.UTC)},
	}
}

func TestService_List_DefaultsToAscending(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	svc := NewService(repo, nil, zerolog.Nop())
	ctx := context.Background()

	repo.EXPECT().
		List(ctx, gomock.Any(), 20, 40).
		DoAndReturn(func(_ context.Context, f domain.Filter, _, _ int) ([]*domain.Entry, int, error) {
			assert.Equal(t, domain.OrderAsc, f.Order)
			require.NotNil(t, f.Keyword)
			assert.Equal(t, "Lily", *f.Keyword)
			return sampleEntries()[:1], 41, nil
		})

	entries, total, err := svc.List(ctx, ListInput{Keyword: " Lily ", Limit: 20, Offset: 40})

	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 41, total)
}

func TestService_Standings_DefaultLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	svc := NewService(repo, nil, zerolog.Nop())

	repo.EXPECT().Standings(gomock.Any(), 50).Return(nil, nil)

	_, err := svc.Standings(context.Background(), 0)
	require.NoError(t, err)
}

func TestService_Export(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)

	t.Run("writes BOM, header and local times", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRepository(ctrl)
		svc := NewService(repo, shanghai, zerolog.Nop())
		repo.EXPECT().ListAll(gomock.Any(), gomock.Any()).Return(sampleEntries(), nil)

		var buf bytes.Buffer
		rows, err := svc.Export(context.Background(), &buf, ExportInput{})

		require.NoError(t, err)
		assert.Equal(t, 2, rows)
		out := buf.String()
		assert.True(t, strings.HasPrefix(out, utf8BOM))
		lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, utf8BOM)), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "record id,winner,riddle,answer,solved at", lines[0])
		assert.Equal(t, "1,Lily,q1,lantern,2026-02-12 20:00:00", lines[1])
		assert.Equal(t, "2,Bo,q2,moon,2026-02-12 21:30:05", lines[2])
	})

	t.Run("applies expression filter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRepository(ctrl)
		svc := NewService(repo, shanghai, zerolog.Nop())
		repo.EXPECT().ListAll(gomock.Any(), gomock.Any()).Return(sampleEntries(), nil)

		var buf bytes.Buffer
		rows, err := svc.Export(context.Background(), &buf, ExportInput{Expr: "winner == 'Bo'"})

		require.NoError(t, err)
		assert.Equal(t, 1, rows)
		assert.Contains(t, buf.String(), "1,Bo,q2,moon")
		assert.NotContains(t, buf.String(), "Lily")
	})

	t.Run("rejects malformed expression before reading", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRepository(ctrl)
		svc := NewService(repo, shanghai, zerolog.Nop())

		var buf bytes.Buffer
		_, err := svc.Export(context.Background(), &buf, ExportInput{Expr: "winner =="})

		assert.ErrorIs(t, err, ErrInvalidFilter)
		assert.Zero(t, buf.Len())
	})

	t.Run("rejects unknown variable even with nothing to export", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRepository(ctrl)
		svc := NewService(repo, shanghai, zerolog.Nop())

		var buf bytes.Buffer
		_, err := svc.Export(context.Background(), &buf, ExportInput{Expr: "foo > 1"})

		assert.ErrorIs(t, err, ErrInvalidFilter)
		assert.Zero(t, buf.Len())
	})
}

func TestCompileFilter_Variables(t *testing.T) {
	_, err := CompileFilter("foo > 1 && winner == 'Lily'")
	assert.ErrorIs(t, err, ErrUnknownVariable)
	assert.ErrorContains(t, err, "foo")

	f, err := CompileFilter("winner == 'Lily' && question != '' && answer != '' && riddle_id != '' && solved_at > 0")
	require.NoError(t, err)
	assert.NotNil(t, f)
}

func TestRowFilter_Match(t *testing.T) {
	e := sampleEntries()[0]

	tests := []struct {
		name     string
		expr     string
		expected bool
		wantErr  error
	}{
		{name: "empty matches", expr: "", expected: true},
		{name: "string equality", expr: "answer == 'lantern'", expected: true},
		{name: "numeric comparison", expr: "solved_at >= 1770897600", expected: true},
		{name: "combined", expr: "winner == 'Lily' && question == 'q2'", expected: false},
		{name: "non boolean", expr: "solved_at + 1", wantErr: ErrFilterNotBoolean},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := CompileFilter(tt.expr)
			require.NoError(t, err)
			ok, err := f.Match(e)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}
