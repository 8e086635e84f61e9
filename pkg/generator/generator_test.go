package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	response   string
	err        error
	gotPrompt  string
	sawContext context.Context
}

func (f *fakeClient) Generate(ctx context.Context, prompt string) (string, error) {
	f.gotPrompt = prompt
	f.sawContext = ctx
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeClient) Model() string { return "fake-model" }

func TestGenerateProducesIndexAndAttachments(t *testing.T) {
	client := &fakeClient{response: "```html\n<html><body>ok</body></html>\n```"}
	g := New(client, 0)

	files, err := g.Generate(context.Background(), "Build a counter app",
		map[string]string{"data.csv": "a,b\n1,2"},
		[]string{"Has increment button"})

	require.NoError(t, err)
	assert.Equal(t, "<html><body>ok</body></html>", files[IndexFile])
	assert.Equal(t, "a,b\n1,2", files["data.csv"])
	assert.Len(t, files, 2)
}

func TestGeneratePromptContents(t *testing.T) {
	client := &fakeClient{response: "<html></html>"}
	g := New(client, 0)

	_, err := g.Generate(context.Background(), "Build a counter app",
		map[string]string{"notes.txt": strings.Repeat("x", 600)},
		[]string{"Has increment button", "Shows the count"})
	require.NoError(t, err)

	prompt := client.gotPrompt
	assert.Contains(t, prompt, "Build a counter app")
	assert.Contains(t, prompt, "1. Has increment button")
	assert.Contains(t, prompt, "2. Shows the count")
	assert.Contains(t, prompt, "File: notes.txt")
	// Attachment excerpts are capped at 500 characters.
	assert.Contains(t, prompt, strings.Repeat("x", 500)+"...")
	assert.NotContains(t, prompt, strings.Repeat("x", 501))
	assert.Contains(t, prompt, "Begin with <html> tag and end with </html> tag")
}

func TestGenerateModelFailureWrapsGenerationError(t *testing.T) {
	cause := errors.New("upstream exploded")
	client := &fakeClient{err: cause}
	g := New(client, 0)

	_, err := g.Generate(context.Background(), "brief", nil, nil)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.ErrorIs(t, err, cause)
}

func TestGenerateAppliesTimeout(t *testing.T) {
	client := &fakeClient{response: "<html></html>"}
	g := New(client, 100*time.Millisecond)

	_, err := g.Generate(context.Background(), "brief", nil, nil)
	require.NoError(t, err)

	_, hasDeadline := client.sawContext.Deadline()
	assert.True(t, hasDeadline)
}

func TestGenerateAttachmentNameCollisionLastWriteWins(t *testing.T) {
	client := &fakeClient{response: "<html>generated</html>"}
	g := New(client, 0)

	files, err := g.Generate(context.Background(), "brief",
		map[string]string{IndexFile: "attachment content"}, nil)

	require.NoError(t, err)
	// Attachments overwrite the generated deliverable on name collision.
	assert.Equal(t, "attachment content", files[IndexFile])
	assert.Len(t, files, 1)
}
