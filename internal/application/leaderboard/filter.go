package leaderboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Knetic/govaluate"

	domain "github.com/lantern-hub/lantern/internal/domain/leaderboard"
)

var (
	ErrFilterNotBoolean = errors.New("filter did not evaluate to boolean")
	ErrUnknownVariable  = errors.New("unknown filter variable")
)

var filterVariables = map[string]struct{}{
	"winner":    {},
	"question":  {},
	"answer":    {},
	"riddle_id": {},
	"solved_at": {},
}

// RowFilter is a compiled boolean expression over export rows. Available
// variables: winner, question, answer, riddle_id, solved_at (unix seconds).
type RowFilter struct {
	expr *govaluate.EvaluableExpression
}

// CompileFilter parses expression and rejects variables rows do not carry.
// An empty expression yields a nil filter that matches every row.
func CompileFilter(expression string) (*RowFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, nil
	}
	expr, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return nil, err
	}
	for _, v := range expr.Vars() {
		if _, ok := filterVariables[v]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownVariable, v)
		}
	}
	return &RowFilter{expr: expr}, nil
}

// Match evaluates the filter against e.
func (f *RowFilter) Match(e *domain.Entry) (bool, error) {
	if f == nil {
		return true, nil
	}
	result, err := f.expr.Evaluate(entryParams(e))
	if err != nil {
		return false, err
	}
	v, ok := result.(bool)
	if !ok {
		return false, ErrFilterNotBoolean
	}
	return v, nil
}

func entryParams(e *domain.Entry) map[string]interface{} {
	return map[string]interface{}{
		"winner":    e.WinnerName,
		"question":  e.Question,
		"answer":    e.Answer,
		"riddle_id": e.RiddleID.String(),
		"solved_at": float64(e.SolvedAt.Unix()),
	}
}
