// Package resolver decides which card page a free-text name refers to.
package resolver

import (
	"context"
	"strings"

	"gatherer-crawler/internal/components/assert"
	"gatherer-crawler/internal/components/telemetry"

	"github.com/antzucaro/matchr"
)

const (
	report_resolver_resolve = "resolver.resolve"
)

// Candidate is a single entry of a search result.
type Candidate struct {
	DisplayName string
	Ref         string
}

// Searcher looks up card names.
//
// note: fault injection point
type Searcher interface {
	Search(ctx context.Context, name string) ([]Candidate, error)
}

type Kind int

const (
	NotFound Kind = iota
	Unique
	Ambiguous
)

func (k Kind) String() string {
	switch k {
	case Unique:
		return "unique"
	case Ambiguous:
		return "ambiguous"
	default:
		return "not found"
	}
}

// Resolution is the outcome of resolving a name, Ref is only set when the
// outcome is Unique. Candidates counts the distinct card names found.
type Resolution struct {
	Kind       Kind
	Ref        string
	Candidates int
}

type Resolver struct {
	search Searcher
	tel    telemetry.API
}

func New(search Searcher, tel telemetry.API) Resolver {
	assert.NotNil(search)
	assert.NotNil(tel)
	return Resolver{
		search: search,
		tel:    telemetry.NewScopedAPI("resolver", tel),
	}
}

func canonicalName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Classify groups candidates by card name. Several printings of the same
// card are one match.
func Classify(candidates []Candidate) Resolution {
	if len(candidates) == 0 {
		return Resolution{Kind: NotFound}
	}

	seen := map[string]struct{}{}
	for _, c := range candidates {
		seen[canonicalName(c.DisplayName)] = struct{}{}
	}
	if len(seen) == 1 {
		return Resolution{Kind: Unique, Ref: candidates[0].Ref, Candidates: 1}
	}
	return Resolution{Kind: Ambiguous, Candidates: len(seen)}
}

// closest returns the candidate whose name is the most similar to `name`.
func closest(name string, candidates []Candidate) (Candidate, float64) {
	var best Candidate
	bestScore := -1.0
	for _, c := range candidates {
		score := matchr.JaroWinkler(canonicalName(name), canonicalName(c.DisplayName), false)
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best, bestScore
}

// Resolve searches for `name` and classifies the result, errors from the
// Searcher are returned untouched.
func (r Resolver) Resolve(ctx context.Context, name string) (Resolution, error) {
	candidates, err := r.search.Search(ctx, name)
	if err != nil {
		r.tel.ReportBroken(report_resolver_resolve, err, name)
		return Resolution{}, err
	}

	res := Classify(candidates)
	switch res.Kind {
	case Unique:
		r.tel.ReportDebug("resolved name", name, res.Ref)
	case Ambiguous:
		best, score := closest(name, candidates)
		r.tel.ReportWarning(
			report_resolver_resolve,
			"ambiguous name",
			name,
			res.Candidates,
			best.DisplayName,
			score,
		)
	case NotFound:
		r.tel.ReportWarning(report_resolver_resolve, "no matches", name)
	}
	return res, nil
}
