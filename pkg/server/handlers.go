package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/alantheprice/pageforge/pkg/attachments"
	"github.com/alantheprice/pageforge/pkg/docs"
	"github.com/alantheprice/pageforge/pkg/events"
	"github.com/alantheprice/pageforge/pkg/notify"
	"github.com/alantheprice/pageforge/pkg/publish"
)

// handleTask runs the full pipeline for one webhook call. The request moves
// through received -> authenticated -> generated -> published -> notified ->
// done; generation and publication failures divert to error, a notification
// failure does not. There is no automatic end-to-end retry; the evaluation
// server resends the webhook to retry a task.
func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "POST required"})
		return
	}

	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid JSON"})
		return
	}
	current := stageReceived

	if req.Secret != s.cfg.WebhookSecret {
		writeJSON(w, http.StatusForbidden, map[string]any{"error": "Invalid secret"})
		return
	}

	// Reject an unusable task id up front; once generation starts the only
	// failure path left is a 500.
	if !publish.ValidTaskID(req.Task) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid task id"})
		return
	}
	current = stageAuthenticated
	s.log.LogStage(req.Task, string(current), fmt.Sprintf("round=%d", req.Round))
	s.bus.Publish(events.EventTaskReceived, events.StageData(req.Task, ""))

	ctx := r.Context()

	// Generation: model call plus the fixed auxiliary documents.
	s.bus.Publish(events.EventGenerationStarted, events.StageData(req.Task, ""))
	decoded := attachments.Decode(req.Attachments)
	files, err := s.gen.Generate(ctx, req.Brief, decoded, req.Checks)
	if err != nil {
		s.failTask(w, req.Task, current, "code generation failed", err)
		return
	}
	files[docs.LicenseFile] = docs.License(s.now())
	files[docs.ReadmeFile] = docs.Readme(req.Task, req.Brief, req.Checks)
	current = stageGenerated
	s.log.LogStage(req.Task, string(current), fmt.Sprintf("%d files", len(files)))
	s.bus.Publish(events.EventGenerationCompleted, events.StageData(req.Task, fmt.Sprintf("%d files", len(files))))

	// Publication.
	s.bus.Publish(events.EventPublishStarted, events.StageData(req.Task, ""))
	result, err := s.pub.Publish(ctx, req.Task, files, req.Brief)
	if err != nil {
		s.failTask(w, req.Task, current, "repository publication failed", err)
		return
	}
	current = stagePublished
	s.log.LogStage(req.Task, string(current), "commit "+result.CommitSHA)
	s.bus.Publish(events.EventPublishCompleted, events.StageData(req.Task, result.RepoURL))

	// Notification is best-effort: the code is generated and published, so
	// an unreachable evaluator does not fail the request.
	notification := s.notifier.Notify(ctx, req.EvaluationURL, notify.Payload{
		Email:     req.Email,
		Task:      req.Task,
		Round:     req.Round,
		Nonce:     req.Nonce,
		RepoURL:   result.RepoURL,
		CommitSHA: result.CommitSHA,
		PagesURL:  result.PagesURL,
	})
	current = stageNotified
	s.bus.Publish(events.EventNotificationResult, map[string]any{
		"task":     req.Task,
		"ok":       notification.OK,
		"attempts": notification.Attempts,
	})
	if !notification.OK {
		s.log.Warnf("task=%s evaluation server unreachable after %d attempts", req.Task, notification.Attempts)
	}

	current = stageDone
	s.log.LogStage(req.Task, string(current), "")
	s.bus.Publish(events.EventTaskCompleted, events.StageData(req.Task, result.PagesURL))

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"repo_url":   result.RepoURL,
		"pages_url":  result.PagesURL,
		"commit_sha": result.CommitSHA,
	})
}

// failTask logs and reports a fatal pipeline failure. The response carries
// the failing stage's description and the underlying message, never partial
// success fields.
func (s *Server) failTask(w http.ResponseWriter, taskID string, from stage, description string, err error) {
	s.log.Errorf("task=%s stage=%s %s: %v", taskID, from, description, err)
	s.bus.Publish(events.EventTaskFailed, events.StageData(taskID, err.Error()))
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"status": "error",
		"error":  fmt.Sprintf("%s: %v", description, err),
	})
}
