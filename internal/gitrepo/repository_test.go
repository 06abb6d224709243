package gitrepo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitParents(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []string
	}{
		{name: "root commit", out: "\n", want: nil},
		{name: "empty output", out: "", want: nil},
		{name: "single parent", out: "abc123\n", want: []string{"abc123"}},
		{name: "merge commit", out: "abc123 def456\n", want: []string{"abc123", "def456"}},
		{name: "octopus merge", out: "a1 b2 c3\n", want: []string{"a1", "b2", "c3"}},
		{name: "surrounding whitespace", out: "  abc123 def456  \n", want: []string{"abc123", "def456"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitParents(tt.out))
		})
	}
}

func TestOpen_MissingDirectory(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}

func TestOpen_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain-file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := Open(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestOpen_Defaults(t *testing.T) {
	dir := t.TempDir()

	repo, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, repo.Dir())
	assert.Equal(t, DefaultGitBinary, repo.binary)
}

func TestWithGitBinary(t *testing.T) {
	repo, err := Open(t.TempDir(), WithGitBinary("/opt/git/bin/git"))
	require.NoError(t, err)
	assert.Equal(t, "/opt/git/bin/git", repo.binary)

	// Empty override keeps the default.
	repo, err = Open(t.TempDir(), WithGitBinary(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultGitBinary, repo.binary)
}

func TestExists_BlankCommit(t *testing.T) {
	repo, err := Open(t.TempDir())
	require.NoError(t, err)

	assert.False(t, repo.Exists(context.Background(), ""))
	assert.False(t, repo.Exists(context.Background(), "   "))
}

// initTestRepo creates a real repository with two commits and returns
// the directory plus both hashes, newest first.
func initTestRepo(t *testing.T) (dir, head, root string) {
	t.Helper()

	dir = t.TempDir()
	run := func(args ...string) string {
		base := []string{"-c", "user.name=test", "-c", "user.email=test@test", "-c", "commit.gpgsign=false"}
		cmd := exec.Command("git", append(base, args...)...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
		return string(out)
	}

	run("init")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one"), 0644))
	run("add", "a.txt")
	run("commit", "-m", "first")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("two"), 0644))
	run("commit", "-am", "second")

	repo, err := Open(dir)
	require.NoError(t, err)
	head, err = repo.Head(context.Background())
	require.NoError(t, err)

	parents, err := repo.Parents(context.Background(), head)
	require.NoError(t, err)
	require.Len(t, parents, 1)
	return dir, head, parents[0]
}

func TestRepository_PlumbingQueries(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir, head, root := initTestRepo(t)
	repo, err := Open(dir)
	require.NoError(t, err)
	ctx := context.Background()

	assert.True(t, repo.Exists(ctx, head))
	assert.True(t, repo.Exists(ctx, root))
	assert.False(t, repo.Exists(ctx, "0000000000000000000000000000000000000000"))

	parents, err := repo.Parents(ctx, root)
	require.NoError(t, err)
	assert.Empty(t, parents, "root commit has no parents")

	_, err = repo.Parents(ctx, "not-a-commit")
	require.Error(t, err)
}
