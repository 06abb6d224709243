package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DefaultGitBinary is the git executable resolved from PATH when no
// explicit binary is configured.
const DefaultGitBinary = "git"

// Repository provides read-only queries against a local git repository
// by invoking git plumbing commands in the repository directory.
//
// All queries run a short-lived subprocess and respect context
// cancellation. A Repository holds no open resources and is safe for
// concurrent use.
type Repository struct {
	dir    string
	binary string
}

// Option configures a Repository.
type Option func(*Repository)

// WithGitBinary overrides the git executable used for plumbing queries.
// Useful when git is not on PATH or a pinned version is required.
func WithGitBinary(path string) Option {
	return func(r *Repository) {
		if path != "" {
			r.binary = path
		}
	}
}

// Open validates that dir exists and is a directory and returns a
// Repository rooted there. It does not verify that dir is actually a
// git work tree; the first plumbing query will surface that.
func Open(dir string, opts ...Option) (*Repository, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("repository directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("repository path %q is not a directory", dir)
	}

	r := &Repository{dir: dir, binary: DefaultGitBinary}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Dir returns the repository root directory.
func (r *Repository) Dir() string {
	return r.dir
}

// Head resolves the current HEAD commit hash via `git rev-parse HEAD`.
func (r *Repository) Head(ctx context.Context) (string, error) {
	out, err := r.runGit(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Exists reports whether commit names an existing commit object.
// Any query failure (unknown object, spawn error, cancelled context)
// is reported as "does not exist".
func (r *Repository) Exists(ctx context.Context, commit string) bool {
	if strings.TrimSpace(commit) == "" {
		return false
	}
	_, err := r.runGit(ctx, "rev-parse", "--verify", "--quiet", commit+"^{commit}")
	return err == nil
}

// Parents returns the parent hashes of commit in the order git reports
// them. A root commit yields an empty slice and no error. A failed
// query returns a non-nil error carrying git's stderr.
//
// The parent order is significant: the sequencer's tie-break rule at
// merge commits depends on it.
func (r *Repository) Parents(ctx context.Context, commit string) ([]string, error) {
	out, err := r.runGit(ctx, "log", "--pretty=%P", "-1", commit)
	if err != nil {
		return nil, fmt.Errorf("parents of %s: %w", commit, err)
	}

	return splitParents(out), nil
}

// splitParents parses the output of `git log --pretty=%P -1`: a single
// line of space-separated parent hashes, empty for a root commit.
func splitParents(out string) []string {
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, " ")
}

// runGit executes one git plumbing command in the repository directory
// and returns its stdout. Non-zero exit is an error carrying stderr.
func (r *Repository) runGit(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return stdout.String(), nil
}
