// Package generator turns a task brief into a generated file set by prompting
// a text-generation model and extracting the HTML deliverable from its output.
package generator

import (
	"context"
	"time"

	"github.com/alantheprice/pageforge/pkg/llm"
	"github.com/alantheprice/pageforge/pkg/logging"
)

// IndexFile is the fixed path of the primary deliverable.
const IndexFile = "index.html"

// GenerationError wraps any failure during request construction or the model
// call. It aborts the pipeline; there is no retry at this layer.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "code generation failed: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Generator produces the deliverable file set for one task.
type Generator struct {
	client  llm.Client
	timeout time.Duration
	log     *logging.Logger
}

// New builds a generator around the given model client. A timeout of zero
// means the model call is bounded only by the caller's context.
func New(client llm.Client, timeout time.Duration) *Generator {
	return &Generator{
		client:  client,
		timeout: timeout,
		log:     logging.Get(),
	}
}

// Generate prompts the model and returns the file set for the task: the
// extracted deliverable at index.html plus every decoded attachment under its
// original name.
//
// An attachment named index.html overwrites the generated deliverable;
// attachment names win on collision.
func (g *Generator) Generate(ctx context.Context, brief string, attachments map[string]string, checks []string) (map[string]string, error) {
	prompt := BuildPrompt(brief, attachments, checks)

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	g.log.Infof("requesting generation from %s (%d checks, %d attachments)",
		g.client.Model(), len(checks), len(attachments))

	raw, err := g.client.Generate(ctx, prompt)
	if err != nil {
		return nil, &GenerationError{Err: err}
	}

	doc := ExtractDocument(raw)
	if doc != raw {
		g.log.Infof("extraction trimmed model output (%s)", extractionDelta(raw, doc))
	}

	files := map[string]string{IndexFile: doc}
	for name, content := range attachments {
		files[name] = content
	}
	return files, nil
}
