package span

import (
	"testing"
	"time"

	"github.com/mrshoenel/git-density/internal/vcs"
	"github.com/mrshoenel/git-density/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	commits []vcs.Commit
	failAll bool
}

func (f *fakeRepo) AllCommits() ([]vcs.Commit, error) {
	if f.failAll {
		return nil, assertErr
	}
	return f.commits, nil
}
func (f *fakeRepo) Lookup(id string) (vcs.Commit, error)                            { return vcs.Commit{}, nil }
func (f *fakeRepo) TreeChanges(oldSHA, newSHA string) ([]vcs.TreeEntryChange, error) { return nil, nil }
func (f *fakeRepo) Diff(oldSHA, newSHA string, ctx int) ([]vcs.FileDiff, error)      { return nil, nil }
func (f *fakeRepo) ReadFile(sha, path string) ([]byte, error)                  { return nil, nil }
func (f *fakeRepo) Checkout(sha, dest string) error                           { return nil }
func (f *fakeRepo) Close() error                                              { return nil }

var assertErr = assertError("boom")

type assertError string

func (e assertError) Error() string { return string(e) }

func mkCommit(sha string, when time.Time) vcs.Commit {
	return vcs.Commit{
		SHA:       sha,
		ShortSHA:  sha[:7],
		Author:    vcs.Signature{Name: "a", Email: "a@x", When: when},
		Committer: vcs.Signature{Name: "a", Email: "a@x", When: when},
	}
}

func baseRepo() *fakeRepo {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var commits []vcs.Commit
	for i := 0; i < 5; i++ {
		sha := "0000000000000000000000000000000000000" + string(rune('1'+i))
		commits = append(commits, mkCommit(sha, base.Add(time.Duration(i)*24*time.Hour)))
	}
	return &fakeRepo{commits: commits}
}

func TestSpan_Unbounded_ReturnsAll(t *testing.T) {
	repo := baseRepo()
	sp := New(repo, Request{})
	res, err := sp.Resolve()
	require.NoError(t, err)
	assert.Len(t, res.Commits, 5)
	assert.Equal(t, "Resolved", sp.State())
}

func TestSpan_SinceDate(t *testing.T) {
	repo := baseRepo()
	since := repo.commits[2].Author.When
	sp := New(repo, Request{Since: Bound{Date: &since}})
	res, err := sp.Resolve()
	require.NoError(t, err)
	assert.Len(t, res.Commits, 3)
	assert.Equal(t, repo.commits[2].SHA, res.Commits[0].SHA)
}

func TestSpan_UntilDate(t *testing.T) {
	repo := baseRepo()
	until := repo.commits[1].Author.When
	sp := New(repo, Request{Until: Bound{Date: &until}})
	res, err := sp.Resolve()
	require.NoError(t, err)
	assert.Len(t, res.Commits, 2)
}

func TestSpan_Limit(t *testing.T) {
	repo := baseRepo()
	sp := New(repo, Request{Limit: 2})
	res, err := sp.Resolve()
	require.NoError(t, err)
	assert.Len(t, res.Commits, 2)
}

func TestSpan_ShaFilter_DropsUnknown(t *testing.T) {
	repo := baseRepo()
	filter := map[string]struct{}{repo.commits[1].SHA: {}, "deadbeef": {}}
	sp := New(repo, Request{ShaFilter: filter})
	res, err := sp.Resolve()
	require.NoError(t, err)
	assert.Len(t, res.Commits, 1)
}

func TestSpan_AmbiguousSha(t *testing.T) {
	repo := baseRepo()
	// Several commits sharing a short prefix "0000000".
	sp := New(repo, Request{
		Since: Bound{CommitISH: "0000000"},
		Until: Bound{CommitISH: "0000000"},
	})
	_, err := sp.Resolve()
	require.Error(t, err)
	assert.Equal(t, models.AmbiguousSha, models.KindOf(err))
	assert.Equal(t, "Failed", sp.State())
}

func TestSpan_BoundsInvalid_UntilBeforeSince(t *testing.T) {
	repo := baseRepo()
	since := repo.commits[3].Author.When
	until := repo.commits[1].Author.When
	sp := New(repo, Request{Since: Bound{Date: &since}, Until: Bound{Date: &until}})
	_, err := sp.Resolve()
	require.Error(t, err)
	assert.Equal(t, models.BoundsInvalid, models.KindOf(err))
}

func TestSpan_Memoized(t *testing.T) {
	repo := baseRepo()
	sp := New(repo, Request{})
	res1, err := sp.Resolve()
	require.NoError(t, err)
	res2, err := sp.Resolve()
	require.NoError(t, err)
	assert.Equal(t, res1.Commits, res2.Commits)
}

func TestParseBound(t *testing.T) {
	b, err := ParseBound("2026-03-05 14:30")
	require.NoError(t, err)
	assert.NotNil(t, b.Date)

	b, err = ParseBound("abcdef0")
	require.NoError(t, err)
	assert.Equal(t, "abcdef0", b.CommitISH)

	_, err = ParseBound("not a bound!!")
	require.Error(t, err)
	assert.Equal(t, models.BoundsInvalid, models.KindOf(err))

	b, err = ParseBound("")
	require.NoError(t, err)
	assert.True(t, b.IsZero())
}
