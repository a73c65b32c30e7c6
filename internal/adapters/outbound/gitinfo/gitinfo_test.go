package gitinfo_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluttervet/fluttervet/internal/adapters/outbound/gitinfo"
)

func TestDescribe_NotARepo(t *testing.T) {
	info := gitinfo.New().Describe(t.TempDir())

	assert.False(t, info.IsRepo)
	assert.Empty(t, info.Branch)
	assert.Empty(t, info.Commit)
}

func TestDescribe_EmptyRepo(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	info := gitinfo.New().Describe(dir)

	// Repository exists but HEAD points at an unborn branch.
	assert.True(t, info.IsRepo)
	assert.Empty(t, info.Commit)
}

func TestDescribe_RepoWithCommit(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "pubspec.yaml"), []byte("name: demo\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("pubspec.yaml")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "dev", Email: "dev@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	info := gitinfo.New().Describe(dir)

	assert.True(t, info.IsRepo)
	assert.Equal(t, hash.String(), info.Commit)
	assert.Equal(t, "master", info.Branch)
}
