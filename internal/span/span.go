// Package span resolves a repository plus since/until bounds into an
// ordered, filtered commit list (C2).
package span

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/mrshoenel/git-density/internal/vcs"
	"github.com/mrshoenel/git-density/pkg/models"
)

// Selector chooses which signature timestamp a bound is compared against.
type Selector int

const (
	Author Selector = iota
	Committer
)

// commitishPattern matches a bare or abbreviated commit SHA.
var commitishPattern = regexp.MustCompile(`^[a-f0-9]{3,64}$`)

const dateLayout = "2006-01-02 15:04"

// Bound is a since/until bound: at most one of Date/CommitISH is set: both
// nil means an unbounded (open) end.
type Bound struct {
	Date      *time.Time
	CommitISH string
}

// IsCommitISH reports whether the bound names a commit rather than a date.
func (b Bound) IsCommitISH() bool { return b.CommitISH != "" }

// IsZero reports whether the bound is unset (open end).
func (b Bound) IsZero() bool { return b.Date == nil && b.CommitISH == "" }

// ParseBound parses a bound string as either a `yyyy-MM-dd HH:mm` date (held
// internally as UTC) or a commit-ish matching `^[a-f0-9]{3,64}$`. An empty
// string yields the zero Bound.
func ParseBound(s string) (Bound, error) {
	if s == "" {
		return Bound{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		utc := t.UTC()
		return Bound{Date: &utc}, nil
	}
	if commitishPattern.MatchString(s) {
		return Bound{CommitISH: s}, nil
	}
	return Bound{}, models.NewError(models.BoundsInvalid, "ParseBound",
		fmt.Errorf("%q is neither a %q date nor a commit-ish", s, dateLayout))
}

// Request configures span resolution.
type Request struct {
	Since    Bound
	Until    Bound
	Limit    int // 0 means unlimited
	ShaFilter map[string]struct{}
	Selector Selector
}

func (r Request) signatureOf(c vcs.Commit) vcs.Signature {
	if r.Selector == Committer {
		return c.Committer
	}
	return c.Author
}

// Result is the resolved, inclusive slice of commits plus presentation
// strings for the resolved bounds.
type Result struct {
	Commits     []vcs.Commit
	SincePretty string
	UntilPretty string
}

type state int

const (
	unresolved state = iota
	resolving
	resolved
	failed
)

// Span resolves commit bounds against a repository exactly once; repeated
// calls to Resolve return the memoized result.
type Span struct {
	repo vcs.Repository
	req  Request

	mu     sync.Mutex
	st     state
	result Result
	err    error
}

// New creates a Span bound to repo and req, in the Unresolved state.
func New(repo vcs.Repository, req Request) *Span {
	return &Span{repo: repo, req: req, st: unresolved}
}

// State reports the span's current lifecycle state as a string, matching
// the {Unresolved, Resolving, Resolved, Failed} state machine.
func (s *Span) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.st {
	case resolving:
		return "Resolving"
	case resolved:
		return "Resolved"
	case failed:
		return "Failed"
	default:
		return "Unresolved"
	}
}

// Resolve runs the commit-span algorithm (§4.2), memoizing its outcome.
func (s *Span) Resolve() (Result, error) {
	s.mu.Lock()
	if s.st == resolved {
		defer s.mu.Unlock()
		return s.result, nil
	}
	if s.st == failed {
		defer s.mu.Unlock()
		return Result{}, s.err
	}
	s.st = resolving
	s.mu.Unlock()

	result, err := s.resolve()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.st = failed
		s.err = err
		return Result{}, err
	}
	s.st = resolved
	s.result = result
	return result, nil
}

func (s *Span) resolve() (Result, error) {
	all, err := s.repo.AllCommits()
	if err != nil {
		return Result{}, models.NewError(models.RepositoryUnavailable, "Resolve", err)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Committer.When.Before(all[j].Committer.When)
	})

	candidates := all
	if len(s.req.ShaFilter) > 0 {
		filtered := make([]vcs.Commit, 0, len(s.req.ShaFilter))
		for _, c := range all {
			if _, ok := s.req.ShaFilter[c.SHA]; ok {
				filtered = append(filtered, c)
			}
		}
		candidates = filtered
	}

	if s.req.Limit > 0 && s.req.Limit < len(candidates) {
		candidates = candidates[:s.req.Limit]
	}

	sinceIdx, err := s.resolveSinceIndex(candidates)
	if err != nil {
		return Result{}, err
	}
	untilIdx, untilMatches, err := s.resolveUntilIndex(candidates)
	if err != nil {
		return Result{}, err
	}

	if sinceIdx < 0 || untilIdx < 0 || untilIdx < sinceIdx {
		return Result{}, models.NewError(models.BoundsInvalid, "Resolve",
			fmt.Errorf("since index %d, until index %d are not a valid inclusive range over %d candidates", sinceIdx, untilIdx, len(candidates)))
	}

	if s.req.Since.IsCommitISH() && s.req.Until.IsCommitISH() &&
		s.req.Since.CommitISH == s.req.Until.CommitISH && untilMatches > 1 {
		return Result{}, models.NewError(models.AmbiguousSha, "Resolve",
			fmt.Errorf("commit-ish %q matches %d commits", s.req.Since.CommitISH, untilMatches))
	}

	return Result{
		Commits:     candidates[sinceIdx : untilIdx+1],
		SincePretty: prettyBound(s.req.Since),
		UntilPretty: prettyBound(s.req.Until),
	}, nil
}

// resolveSinceIndex finds the index of the first candidate matching Since,
// or 0 if Since is unset.
func (s *Span) resolveSinceIndex(candidates []vcs.Commit) (int, error) {
	if s.req.Since.IsZero() {
		return 0, nil
	}
	for i, c := range candidates {
		if s.boundMatches(s.req.Since, c) {
			return i, nil
		}
	}
	return -1, nil
}

// resolveUntilIndex finds the index of the last candidate matching Until
// (count of matches ≤ until-date, or the first id-prefix match for a
// commit-ish), or the last candidate index if Until is unset. It also
// returns how many candidates matched an exact commit-ish Until bound, to
// support the AmbiguousSha check.
func (s *Span) resolveUntilIndex(candidates []vcs.Commit) (int, int, error) {
	if s.req.Until.IsZero() {
		return len(candidates) - 1, 0, nil
	}
	if s.req.Until.IsCommitISH() {
		matches := 0
		idx := -1
		for i, c := range candidates {
			if matchesCommitISH(s.req.Until.CommitISH, c.SHA) {
				matches++
				if idx == -1 {
					idx = i
				}
			}
		}
		return idx, matches, nil
	}
	idx := -1
	for i, c := range candidates {
		sig := s.req.signatureOf(c)
		if !sig.When.After(*s.req.Until.Date) {
			idx = i
		}
	}
	return idx, 0, nil
}

func (s *Span) boundMatches(b Bound, c vcs.Commit) bool {
	if b.IsCommitISH() {
		return matchesCommitISH(b.CommitISH, c.SHA)
	}
	sig := s.req.signatureOf(c)
	return !sig.When.Before(*b.Date)
}

func matchesCommitISH(prefix, sha string) bool {
	if len(prefix) > len(sha) {
		return false
	}
	return sha[:len(prefix)] == prefix
}

func prettyBound(b Bound) string {
	switch {
	case b.IsZero():
		return ""
	case b.IsCommitISH():
		short := b.CommitISH
		if len(short) > 7 {
			short = short[:7]
		}
		return "#" + short
	default:
		return b.Date.Format(dateLayout)
	}
}
