// Package github is a minimal client for the repository and Pages management
// endpoints of the GitHub REST API.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alantheprice/pageforge/pkg/logging"
)

const defaultBaseURL = "https://api.github.com"

// ErrNotFound reports that the requested repository does not exist.
var ErrNotFound = errors.New("repository not found")

// Repo is the subset of repository fields the publisher needs.
type Repo struct {
	Name          string `json:"name"`
	HTMLURL       string `json:"html_url"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
}

// PagesResult reports the outcome of a Pages activation attempt. A degraded
// result means the repository is published but Pages could not be confirmed;
// activation can be finished manually or may simply need propagation time.
type PagesResult struct {
	OK         bool
	StatusCode int
	Detail     string
}

// Client talks to the GitHub REST API on behalf of one account.
type Client struct {
	token    string
	username string
	baseURL  string
	http     *http.Client
	log      *logging.Logger
}

// NewClient builds a client for the given account credentials.
func NewClient(token, username string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		token:    token,
		username: username,
		baseURL:  defaultBaseURL,
		http:     &http.Client{Timeout: timeout},
		log:      logging.Get(),
	}
}

// Username returns the account the client authenticates as.
func (c *Client) Username() string { return c.username }

// GetRepo looks up a repository under the configured account. A missing
// repository returns ErrNotFound.
func (c *Client) GetRepo(ctx context.Context, name string) (*Repo, error) {
	url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, c.username, name)
	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var repo Repo
		if err := json.NewDecoder(resp.Body).Decode(&repo); err != nil {
			return nil, fmt.Errorf("could not decode repository: %w", err)
		}
		return &repo, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, apiError("repository lookup", resp)
	}
}

// CreateRepo creates a public repository under the authenticated user.
// auto_init is off because content is pushed from a local history.
func (c *Client) CreateRepo(ctx context.Context, name, description string) (*Repo, error) {
	body := map[string]any{
		"name":        name,
		"description": description,
		"private":     false,
		"auto_init":   false,
	}
	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/user/repos", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, apiError("repository creation", resp)
	}

	var repo Repo
	if err := json.NewDecoder(resp.Body).Decode(&repo); err != nil {
		return nil, fmt.Errorf("could not decode created repository: %w", err)
	}
	return &repo, nil
}

// EnablePages configures GitHub Pages to serve the main branch root. An
// already-configured site (409) is updated with a PUT instead. Any other
// failure is logged and reported as degraded, never fatal.
func (c *Client) EnablePages(ctx context.Context, name string) PagesResult {
	url := fmt.Sprintf("%s/repos/%s/%s/pages", c.baseURL, c.username, name)
	body := map[string]any{
		"source": map[string]string{
			"branch": "main",
			"path":   "/",
		},
	}

	resp, err := c.do(ctx, http.MethodPost, url, body)
	if err != nil {
		c.log.Errorf("pages activation failed for %s: %v", name, err)
		return PagesResult{Detail: err.Error()}
	}
	drainAndClose(resp)

	if resp.StatusCode == http.StatusConflict {
		resp, err = c.do(ctx, http.MethodPut, url, body)
		if err != nil {
			c.log.Errorf("pages update failed for %s: %v", name, err)
			return PagesResult{Detail: err.Error()}
		}
		drainAndClose(resp)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return PagesResult{OK: true, StatusCode: resp.StatusCode}
	default:
		c.log.Warnf("pages configuration for %s returned status %d", name, resp.StatusCode)
		return PagesResult{
			StatusCode: resp.StatusCode,
			Detail:     fmt.Sprintf("pages configuration returned status %d", resp.StatusCode),
		}
	}
}

// VerifyPages polls a Pages URL until it answers 200, waiting 5s, 10s, ...
// between attempts. Exhaustion is a warning for the caller, not a failure.
func (c *Client) VerifyPages(ctx context.Context, pagesURL string, maxAttempts int, sleep func(time.Duration)) bool {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if sleep == nil {
		sleep = time.Sleep
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pagesURL, nil)
		if err != nil {
			return false
		}
		resp, err := c.http.Do(req)
		if err == nil {
			drainAndClose(resp)
			if resp.StatusCode == http.StatusOK {
				return true
			}
			c.log.Infof("pages verification attempt %d: status %d", attempt+1, resp.StatusCode)
		} else {
			c.log.Infof("pages verification attempt %d: %v", attempt+1, err)
		}

		if attempt < maxAttempts-1 {
			sleep(5 * time.Duration(attempt+1) * time.Second)
		}
	}

	c.log.Warnf("pages verification failed after %d attempts: %s", maxAttempts, pagesURL)
	return false
}

func (c *Client) do(ctx context.Context, method, url string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("could not marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("could not build request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request failed: %w", err)
	}
	return resp, nil
}

func apiError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s returned status %d: %s", operation, resp.StatusCode, string(body))
}

func drainAndClose(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
