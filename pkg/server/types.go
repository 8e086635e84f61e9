package server

import "github.com/alantheprice/pageforge/pkg/attachments"

// TaskRequest is the inbound webhook body for one task.
type TaskRequest struct {
	Secret        string                   `json:"secret"`
	Email         string                   `json:"email"`
	Task          string                   `json:"task"`
	Round         int                      `json:"round"`
	Nonce         string                   `json:"nonce"`
	Brief         string                   `json:"brief"`
	Checks        []string                 `json:"checks"`
	EvaluationURL string                   `json:"evaluation_url"`
	Attachments   []attachments.Attachment `json:"attachments"`
}

// stage names the pipeline states a request moves through.
type stage string

const (
	stageReceived      stage = "received"
	stageAuthenticated stage = "authenticated"
	stageGenerated     stage = "generated"
	stagePublished     stage = "published"
	stageNotified      stage = "notified"
	stageDone          stage = "done"
	stageError         stage = "error"
)
