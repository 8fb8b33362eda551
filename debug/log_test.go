package debug

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogWritesCategories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	require.NoError(t, Enable(path))
	defer Disable()
	assert.True(t, Enabled())

	Log("router", "note=%d", 36)
	for i := 0; i < 4; i++ {
		LogEvery(2, "tick", "advance")
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "Debug logging started")
	assert.Contains(t, out, "router")
	assert.Contains(t, out, "note=36")
	assert.Contains(t, out, "advance (every 2, count=4)")
}

func TestLogDisabledIsSilent(t *testing.T) {
	Disable()
	assert.False(t, Enabled())
	Log("x", "nothing happens")
}
