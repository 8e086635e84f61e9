package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetReturnsSingleton(t *testing.T) {
	a := Get()
	b := Get()
	assert.Same(t, a, b)
	assert.NotNil(t, a.logger)
}

func TestJSONModeFollowsEnv(t *testing.T) {
	t.Setenv("PAGEFORGE_JSON_LOGS", "1")
	l := Get()
	assert.True(t, l.jsonMode)
}
