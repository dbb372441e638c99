package pairing

import (
	"testing"

	"github.com/mrshoenel/git-density/internal/vcs"
	"github.com/mrshoenel/git-density/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID map[string]vcs.Commit
}

func (f *fakeRepo) AllCommits() ([]vcs.Commit, error) { return nil, nil }
func (f *fakeRepo) Lookup(id string) (vcs.Commit, error) {
	c, ok := f.byID[id]
	if !ok {
		return vcs.Commit{}, assertError("not found")
	}
	return c, nil
}
func (f *fakeRepo) TreeChanges(oldSHA, newSHA string) ([]vcs.TreeEntryChange, error) { return nil, nil }
func (f *fakeRepo) Diff(oldSHA, newSHA string, ctx int) ([]vcs.FileDiff, error)      { return nil, nil }
func (f *fakeRepo) ReadFile(sha, path string) ([]byte, error)                       { return nil, nil }
func (f *fakeRepo) Checkout(sha, dest string) error                                 { return nil }
func (f *fakeRepo) Close() error                                                    { return nil }

type assertError string

func (e assertError) Error() string { return string(e) }

// chain: root(no parent) -> c1 -> merge(c1,other) -> c3
func buildChain() (*fakeRepo, []vcs.Commit) {
	root := vcs.Commit{SHA: "root0000", ShortSHA: "root000"}
	other := vcs.Commit{SHA: "othe0000", ShortSHA: "othe000"}
	c1 := vcs.Commit{SHA: "c100", ShortSHA: "c100", Parents: []string{root.SHA}}
	merge := vcs.Commit{SHA: "merge0", ShortSHA: "merge0", Parents: []string{c1.SHA, other.SHA}}
	c3 := vcs.Commit{SHA: "c300", ShortSHA: "c300", Parents: []string{merge.SHA}}

	repo := &fakeRepo{byID: map[string]vcs.Commit{
		root.SHA: root, other.SHA: other, c1.SHA: c1, merge.SHA: merge, c3.SHA: c3,
	}}
	return repo, []vcs.Commit{root, c1, merge, c3}
}

func TestBuild_EmitsOnePairPerCommit(t *testing.T) {
	repo, commits := buildChain()
	pairs, err := Build(repo, commits, Options{})
	require.NoError(t, err)
	assert.Len(t, pairs, 4)
	assert.Nil(t, pairs[0].Parent)
}

func TestBuild_SkipInitial(t *testing.T) {
	repo, commits := buildChain()
	pairs, err := Build(repo, commits, Options{SkipInitial: true})
	require.NoError(t, err)
	for _, p := range pairs {
		assert.NotNil(t, p.Parent)
	}
	assert.Len(t, pairs, 3)
}

func TestBuild_SkipMerge(t *testing.T) {
	repo, commits := buildChain()
	pairs, err := Build(repo, commits, Options{SkipMerge: true})
	require.NoError(t, err)
	for _, p := range pairs {
		assert.LessOrEqual(t, p.Child.NumParents(), 1)
	}
	assert.Len(t, pairs, 3)
}

func TestBuild_UsesFirstParentOnly(t *testing.T) {
	repo, commits := buildChain()
	pairs, err := Build(repo, commits, Options{})
	require.NoError(t, err)
	var mergePair *vcsPair
	for _, p := range pairs {
		if p.Child.SHA == "merge0" {
			mergePair = &vcsPair{parent: p.Parent}
		}
	}
	require.NotNil(t, mergePair)
	assert.Equal(t, "c100", mergePair.parent.SHA)
}

type vcsPair struct{ parent *vcs.Commit }

func TestBuild_LatestFirst(t *testing.T) {
	repo, commits := buildChain()
	pairs, err := Build(repo, commits, Options{Order: LatestFirst})
	require.NoError(t, err)
	assert.Equal(t, "c300", pairs[0].Child.SHA)
	assert.Equal(t, "root0000", pairs[len(pairs)-1].Child.SHA)
}

func TestBuildAncestorExpanded_OnePerParent(t *testing.T) {
	repo, commits := buildChain()
	pairs, err := BuildAncestorExpanded(repo, commits, Options{})
	require.NoError(t, err)
	// root(1) + c1(1) + merge(2 parents) + c3(1) = 5
	assert.Len(t, pairs, 5)
}

func TestPairID_ClampedTo32Chars(t *testing.T) {
	parent := vcs.Commit{ShortSHA: "0123456789012345"}
	child := vcs.Commit{ShortSHA: "0123456789012345"}
	id := models.PairID(&parent, child)
	assert.LessOrEqual(t, len(id), 32)
}
