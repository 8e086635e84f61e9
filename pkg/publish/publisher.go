// Package publish materializes a generated file set into a GitHub repository
// and turns on Pages hosting for it. Each publish force-pushes a fresh
// single-commit history; repository content is always fully replaced.
package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/alantheprice/pageforge/pkg/config"
	"github.com/alantheprice/pageforge/pkg/gitcmd"
	"github.com/alantheprice/pageforge/pkg/github"
	"github.com/alantheprice/pageforge/pkg/logging"
)

const (
	defaultBranch      = "main"
	remoteName         = "origin"
	commitMessageLimit = 50
)

// gitignoreRules are written to every published repository and also filter
// the file set itself: nothing a checkout would ignore gets committed.
var gitignoreRules = []string{
	".DS_Store",
	"*.log",
	".env",
	"node_modules/",
	"dist/",
	"build/",
	"__pycache__/",
	".venv",
}

var repoNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidTaskID reports whether a task id can serve as a repository name. The
// server checks this before starting any pipeline work; Publish re-checks it
// at its own boundary.
func ValidTaskID(id string) bool {
	return repoNameRe.MatchString(id)
}

// RepoService is the hosting-service surface the publisher needs. Implemented
// by github.Client; faked in tests.
type RepoService interface {
	GetRepo(ctx context.Context, name string) (*github.Repo, error)
	CreateRepo(ctx context.Context, name, description string) (*github.Repo, error)
	EnablePages(ctx context.Context, name string) github.PagesResult
	VerifyPages(ctx context.Context, pagesURL string, maxAttempts int, sleep func(time.Duration)) bool
	Username() string
}

// Result is the publication outcome handed to the notifier.
type Result struct {
	RepoURL   string
	CommitSHA string
	PagesURL  string
	Pages     github.PagesResult
}

// Publisher drives the ordered publication protocol for one task at a time.
type Publisher struct {
	cfg   *config.Config
	git   gitcmd.Runner
	repos RepoService
	log   *logging.Logger

	// mkScratch is replaceable in tests to observe cleanup.
	mkScratch func() (string, error)
}

// New builds a publisher around a git runner and a hosting-service client.
func New(cfg *config.Config, git gitcmd.Runner, repos RepoService) *Publisher {
	return &Publisher{
		cfg:   cfg,
		git:   git,
		repos: repos,
		log:   logging.Get(),
		mkScratch: func() (string, error) {
			return os.MkdirTemp("", "pageforge-*")
		},
	}
}

// Publish writes the file set into a scratch repository, commits it, creates
// or reuses the remote repository named after the task, force-pushes main and
// enables Pages. Fatal step failures come back as *PublicationError; Pages
// activation trouble only degrades the result.
func (p *Publisher) Publish(ctx context.Context, taskID string, files map[string]string, brief string) (*Result, error) {
	if p.cfg.GitHubToken == "" || p.cfg.GitHubUsername == "" {
		return nil, &ConfigurationError{Msg: "GitHub credentials not configured"}
	}
	if len(files) == 0 {
		return nil, &ValidationError{Msg: "no files to publish"}
	}
	if !ValidTaskID(taskID) {
		return nil, &ValidationError{Msg: fmt.Sprintf("task id %q is not a valid repository name", taskID)}
	}

	scratch, err := p.mkScratch()
	if err != nil {
		return nil, &PublicationError{Step: "scratch directory", Err: err}
	}
	defer os.RemoveAll(scratch)

	p.log.LogStage(taskID, "publish", "scratch dir "+scratch)

	username := p.cfg.GitHubUsername
	if err := p.git.Init(scratch); err != nil {
		return nil, &PublicationError{Step: "git init", Err: err}
	}
	if err := p.git.ConfigureIdentity(scratch, username, username+"@example.com"); err != nil {
		return nil, &PublicationError{Step: "git identity", Err: err}
	}

	if err := p.writeFiles(scratch, taskID, files); err != nil {
		return nil, &PublicationError{Step: "write files", Err: err}
	}

	if err := p.git.AddAll(scratch); err != nil {
		return nil, &PublicationError{Step: "git add", Err: err}
	}
	if err := p.git.Commit(scratch, commitMessage(brief)); err != nil {
		return nil, &PublicationError{Step: "git commit", Err: err}
	}
	sha, err := p.git.HeadShortSHA(scratch)
	if err != nil {
		return nil, &PublicationError{Step: "resolve commit", Err: err}
	}

	repoURL, err := p.ensureRepo(ctx, taskID, brief)
	if err != nil {
		return nil, &PublicationError{Step: "repository lookup/create", Err: err}
	}

	remoteURL := fmt.Sprintf("https://%s@github.com/%s/%s.git", p.cfg.GitHubToken, username, taskID)
	if err := p.git.SetRemote(scratch, remoteName, remoteURL); err != nil {
		return nil, &PublicationError{Step: "set remote", Err: err}
	}
	if err := p.git.RenameBranch(scratch, defaultBranch); err != nil {
		return nil, &PublicationError{Step: "rename branch", Err: err}
	}
	if err := p.git.ForcePush(scratch, remoteName, defaultBranch); err != nil {
		return nil, &PublicationError{Step: "force push", Err: err}
	}
	p.log.LogStage(taskID, "publish", fmt.Sprintf("pushed commit %s", sha))

	pages := p.repos.EnablePages(ctx, taskID)
	if !pages.OK {
		p.log.Warnf("task=%s pages activation degraded: %s", taskID, pages.Detail)
	}

	// The hosting URL is predictable from account and repository name; it
	// does not depend on the activation call's response body.
	pagesURL := fmt.Sprintf("https://%s.github.io/%s/", username, taskID)

	if p.cfg.VerifyPages {
		if !p.repos.VerifyPages(ctx, pagesURL, 3, nil) {
			p.log.Warnf("task=%s pages not yet reachable at %s", taskID, pagesURL)
		}
	}

	return &Result{
		RepoURL:   repoURL,
		CommitSHA: sha,
		PagesURL:  pagesURL,
		Pages:     pages,
	}, nil
}

// writeFiles lays the file set out under the scratch directory, dropping any
// entry the repository's own ignore rules would exclude, and writes the
// .gitignore itself.
func (p *Publisher) writeFiles(scratch, taskID string, files map[string]string) error {
	matcher := ignore.CompileIgnoreLines(gitignoreRules...)

	for name, content := range files {
		if matcher.MatchesPath(name) {
			p.log.Warnf("task=%s skipping ignored file %s", taskID, name)
			continue
		}
		rel := filepath.Clean(filepath.FromSlash(name))
		if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return fmt.Errorf("file name %q escapes the repository root", name)
		}
		path := filepath.Join(scratch, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("could not create directory for %s: %w", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("could not write %s: %w", name, err)
		}
	}

	gitignore := strings.Join(gitignoreRules, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(scratch, ".gitignore"), []byte(gitignore), 0644); err != nil {
		return fmt.Errorf("could not write .gitignore: %w", err)
	}
	return nil
}

// ensureRepo looks up the task's repository and creates it when absent.
// Publication always overwrites, so an existing repository is simply reused.
func (p *Publisher) ensureRepo(ctx context.Context, taskID, brief string) (string, error) {
	repo, err := p.repos.GetRepo(ctx, taskID)
	if errors.Is(err, github.ErrNotFound) {
		repo, err = p.repos.CreateRepo(ctx, taskID, truncate(brief, commitMessageLimit))
	}
	if err != nil {
		return "", err
	}
	if repo.HTMLURL != "" {
		return repo.HTMLURL, nil
	}
	return fmt.Sprintf("https://github.com/%s/%s", p.cfg.GitHubUsername, taskID), nil
}

func commitMessage(brief string) string {
	return "Initial commit: " + truncate(brief, commitMessageLimit)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
