// Package notify reports publication results back to the evaluation server.
// Delivery is best-effort with bounded retry; exhaustion is logged but never
// fails the pipeline.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/alantheprice/pageforge/pkg/logging"
)

const (
	maxAttempts    = 4
	requestTimeout = 30 * time.Second
)

// Payload echoes the task identity and carries the publication result.
type Payload struct {
	Email     string `json:"email"`
	Task      string `json:"task"`
	Round     int    `json:"round"`
	Nonce     string `json:"nonce"`
	RepoURL   string `json:"repo_url"`
	CommitSHA string `json:"commit_sha"`
	PagesURL  string `json:"pages_url"`
}

// Result reports how delivery went. OK false after all attempts means the
// evaluator could not be reached; the caller decides what that implies.
type Result struct {
	OK       bool
	Attempts int
}

// Notifier posts notification payloads with exponential-backoff retry.
type Notifier struct {
	httpClient *http.Client
	sleep      func(time.Duration)
	log        *logging.Logger
}

// New builds a notifier with the standard 30-second request timeout.
func New() *Notifier {
	return &Notifier{
		httpClient: &http.Client{Timeout: requestTimeout},
		sleep:      time.Sleep,
		log:        logging.Get(),
	}
}

// Notify sends the payload as a JSON POST to the evaluation URL. Up to 4
// attempts are made on transport failure or non-200 status, waiting 1s, 2s,
// 4s between attempts and not at all after the last.
func (n *Notifier) Notify(ctx context.Context, evalURL string, payload Payload) Result {
	body, err := json.Marshal(payload)
	if err != nil {
		n.log.Errorf("could not marshal notification for task %s: %v", payload.Task, err)
		return Result{}
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := n.post(ctx, evalURL, body); err == nil {
			n.log.Infof("task=%s notification delivered on attempt %d", payload.Task, attempt)
			return Result{OK: true, Attempts: attempt}
		} else {
			n.log.Warnf("task=%s notification attempt %d failed: %v", payload.Task, attempt, err)
		}

		if attempt < maxAttempts {
			wait := time.Duration(1<<(attempt-1)) * time.Second // 1, 2, 4
			n.sleep(wait)
		}
	}

	n.log.Errorf("task=%s failed to notify evaluation server after %d attempts", payload.Task, maxAttempts)
	return Result{Attempts: maxAttempts}
}

func (n *Notifier) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("evaluation server returned status %d", resp.StatusCode)
	}
	return nil
}
