package gitcmd

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipIfNoGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func TestNewExecRunnerDefaultTimeout(t *testing.T) {
	r := NewExecRunner(0)
	assert.Equal(t, 30*time.Second, r.Timeout)

	r = NewExecRunner(5 * time.Second)
	assert.Equal(t, 5*time.Second, r.Timeout)
}

func TestExecRunnerInitCommitAndSHA(t *testing.T) {
	skipIfNoGit(t)

	dir := t.TempDir()
	r := NewExecRunner(30 * time.Second)

	require.NoError(t, r.Init(dir))
	require.NoError(t, r.ConfigureIdentity(dir, "octocat", "octocat@example.com"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0644))
	require.NoError(t, r.AddAll(dir))
	require.NoError(t, r.Commit(dir, "Initial commit: test"))

	sha, err := r.HeadShortSHA(dir)
	require.NoError(t, err)
	assert.Len(t, sha, 7)

	require.NoError(t, r.RenameBranch(dir, "main"))
}

func TestExecRunnerSetRemoteAddThenUpdate(t *testing.T) {
	skipIfNoGit(t)

	dir := t.TempDir()
	r := NewExecRunner(30 * time.Second)
	require.NoError(t, r.Init(dir))

	require.NoError(t, r.SetRemote(dir, "origin", "https://example.com/a.git"))
	// Second call hits the set-url fallback.
	require.NoError(t, r.SetRemote(dir, "origin", "https://example.com/b.git"))

	out, err := exec.Command("git", "-C", dir, "remote", "get-url", "origin").Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "https://example.com/b.git")
}

func TestExecRunnerFailureIncludesOutput(t *testing.T) {
	skipIfNoGit(t)

	dir := t.TempDir()
	r := NewExecRunner(30 * time.Second)

	// Committing outside a repository must fail with context in the message.
	err := r.Commit(dir, "msg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git commit")
}
