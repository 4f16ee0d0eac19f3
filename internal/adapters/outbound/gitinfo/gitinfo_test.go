package gitinfo_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardrails/guardrails/internal/adapters/outbound/gitinfo"
)

func TestHeadCommit_NotARepository(t *testing.T) {
	hash, ok := gitinfo.New().HeadCommit(t.TempDir())
	assert.False(t, ok)
	assert.Empty(t, hash)
}

func TestHeadCommit_UnbornBranch(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, ok := gitinfo.New().HeadCommit(dir)
	assert.False(t, ok, "repo without commits has no HEAD to stamp")
}

func TestHeadCommit_ReturnsAbbreviatedHash(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("a.txt")
	require.NoError(t, err)
	commit, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "dev", Email: "dev@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	hash, ok := gitinfo.New().HeadCommit(dir)
	require.True(t, ok)
	assert.Len(t, hash, 12)
	assert.Equal(t, commit.String()[:12], hash)
}
