// Package resolve turns loose user input into known names: an account email
// given to --account, or a mistyped domain that earns a "did you mean" hint.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Candidate is something the user can refer to by label, such as an account
// identified by its email.
type Candidate struct {
	ID    int
	Label string
}

var (
	ErrEmptyQuery   = errors.New("empty search query")
	ErrNoCandidates = errors.New("nothing to match against")
	ErrNoMatch      = errors.New("no match")
)

// AmbiguousError lists the candidates that matched equally well.
type AmbiguousError struct {
	Query      string
	Candidates []Candidate
}

func (e *AmbiguousError) Error() string {
	labels := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		labels[i] = fmt.Sprintf("%s (%d)", c.Label, c.ID)
	}
	return fmt.Sprintf("%q is ambiguous: %s", e.Query, strings.Join(labels, ", "))
}

type labels []Candidate

func (l labels) String(i int) string { return strings.ToLower(l[i].Label) }
func (l labels) Len() int            { return len(l) }

// maxListed caps the candidates an AmbiguousError names.
const maxListed = 5

// Best returns the candidate whose label matches query. A case-insensitive
// exact label wins outright; otherwise the top fuzzy score must be unique.
func Best(query string, candidates []Candidate) (Candidate, error) {
	query = strings.TrimSpace(query)
	switch {
	case query == "":
		return Candidate{}, ErrEmptyQuery
	case len(candidates) == 0:
		return Candidate{}, ErrNoCandidates
	}

	for _, c := range candidates {
		if strings.EqualFold(c.Label, query) {
			return c, nil
		}
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), labels(candidates))
	if len(matches) == 0 {
		return Candidate{}, fmt.Errorf("%w for %q", ErrNoMatch, query)
	}

	tied := []Candidate{candidates[matches[0].Index]}
	for _, m := range matches[1:] {
		if m.Score != matches[0].Score {
			break
		}
		tied = append(tied, candidates[m.Index])
	}
	if len(tied) > 1 {
		return Candidate{}, &AmbiguousError{Query: query, Candidates: tied[:min(len(tied), maxListed)]}
	}
	return tied[0], nil
}

// Suggest returns up to limit names resembling query, best first. The last
// label of query is ignored so a mistyped TLD still finds its domain, and
// names equal to query are never suggested.
func Suggest(query string, names []string, limit int) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}

	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(n)
	}
	pattern := query
	if dot := strings.LastIndexByte(query, '.'); dot > 0 {
		pattern = query[:dot]
	}

	var out []string
	for _, m := range fuzzy.Find(pattern, lowered) {
		if len(out) == limit {
			break
		}
		if lowered[m.Index] != query {
			out = append(out, names[m.Index])
		}
	}
	return out
}

// DidYouMean phrases suggestions as a hint line; "" when there are none.
func DidYouMean(suggestions []string) string {
	switch len(suggestions) {
	case 0:
		return ""
	case 1:
		return "Did you mean " + suggestions[0] + "?"
	default:
		return "Did you mean one of: " + strings.Join(suggestions, ", ") + "?"
	}
}
