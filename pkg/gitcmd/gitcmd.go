// Package gitcmd wraps the git binary behind a small adapter interface so the
// publisher's orchestration can be tested against a fake without invoking a
// real version-control binary.
package gitcmd

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// shortSHALength is the canonical length of commit identifiers downstream.
const shortSHALength = 7

// Runner is the sequence of version-control operations the publisher needs.
type Runner interface {
	Init(dir string) error
	ConfigureIdentity(dir, name, email string) error
	AddAll(dir string) error
	Commit(dir, message string) error
	HeadShortSHA(dir string) (string, error)
	SetRemote(dir, name, url string) error
	RenameBranch(dir, branch string) error
	ForcePush(dir, remote, branch string) error
}

// ExecRunner runs git as a subprocess with a bounded per-command timeout.
type ExecRunner struct {
	Timeout time.Duration
}

// NewExecRunner returns a runner with the given per-command timeout. A zero
// timeout falls back to 30 seconds.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ExecRunner{Timeout: timeout}
}

func (r *ExecRunner) Init(dir string) error {
	_, err := r.run(dir, "init")
	return err
}

func (r *ExecRunner) ConfigureIdentity(dir, name, email string) error {
	if _, err := r.run(dir, "config", "user.name", name); err != nil {
		return err
	}
	_, err := r.run(dir, "config", "user.email", email)
	return err
}

func (r *ExecRunner) AddAll(dir string) error {
	_, err := r.run(dir, "add", ".")
	return err
}

func (r *ExecRunner) Commit(dir, message string) error {
	_, err := r.run(dir, "commit", "-m", message)
	return err
}

func (r *ExecRunner) HeadShortSHA(dir string) (string, error) {
	out, err := r.run(dir, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	sha := strings.TrimSpace(out)
	if len(sha) > shortSHALength {
		sha = sha[:shortSHALength]
	}
	return sha, nil
}

// SetRemote adds the named remote, falling back to updating its URL when the
// remote already exists.
func (r *ExecRunner) SetRemote(dir, name, url string) error {
	if _, err := r.run(dir, "remote", "add", name, url); err != nil {
		_, err = r.run(dir, "remote", "set-url", name, url)
		return err
	}
	return nil
}

func (r *ExecRunner) RenameBranch(dir, branch string) error {
	_, err := r.run(dir, "branch", "-M", branch)
	return err
}

func (r *ExecRunner) ForcePush(dir, remote, branch string) error {
	_, err := r.run(dir, "push", "-u", remote, branch, "--force")
	return err
}

// run executes one git command in dir and returns its combined output. The
// process is killed when the timeout elapses.
func (r *ExecRunner) run(dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("git %s timed out after %s", args[0], r.Timeout)
	}
	if err != nil {
		return "", fmt.Errorf("git %s failed: %s", strings.Join(args, " "), strings.TrimSpace(string(out)))
	}
	return string(out), nil
}
