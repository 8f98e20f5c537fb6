// Package query implements the data query collaborator: it turns a data
// source reference plus a combined filter set into a renderable payload.
// The engine core never calls Fetch inside a propagation pass; the UI layer
// dispatches fetches asynchronously after the pass returns.
package query

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/glassboard-labs/glassboard/pkg/core"
)

// identRe accepts plain SQL identifiers, optionally schema-qualified. Data
// source refs and predicate columns come from stored metadata, but they
// still never reach the SQL string unvalidated.
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// BuildQuery renders a parameterized SELECT for the data source constrained
// by the filter set. Predicates on other data sources are ignored.
func BuildQuery(dataSourceRef string, filters core.FilterSet) (string, []any, error) {
	if !identRe.MatchString(dataSourceRef) {
		return "", nil, fmt.Errorf("invalid data source ref %q", dataSourceRef)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT * FROM %s", dataSourceRef)

	var args []any
	var clauses []string
	for _, p := range filters.ForSource(dataSourceRef) {
		if !identRe.MatchString(p.Column) {
			return "", nil, fmt.Errorf("invalid column %q in predicate from %s", p.Column, p.Producer)
		}
		switch p.Op {
		case core.OpEq:
			clauses = append(clauses, fmt.Sprintf("%s = ?", p.Column))
			args = append(args, p.Value)
		case core.OpIn:
			if len(p.Values) == 0 {
				continue
			}
			ph := strings.TrimSuffix(strings.Repeat("?, ", len(p.Values)), ", ")
			clauses = append(clauses, fmt.Sprintf("%s IN (%s)", p.Column, ph))
			args = append(args, p.Values...)
		default:
			return "", nil, fmt.Errorf("unknown filter operator %q", p.Op)
		}
	}

	if len(clauses) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(clauses, " AND "))
	}
	return sb.String(), args, nil
}

// Result pairs a fetch outcome with its error for async delivery.
type Result struct {
	Payload *core.QueryResult
	Err     error
}

// FetchAsync runs q.Fetch on its own goroutine and delivers the outcome on
// the returned channel, so propagation never blocks on a data fetch. The
// channel is buffered; abandoning it leaks nothing.
func FetchAsync(ctx context.Context, q core.Querier, dataSourceRef string, filters core.FilterSet) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		payload, err := q.Fetch(ctx, dataSourceRef, filters)
		ch <- Result{Payload: payload, Err: err}
	}()
	return ch
}
