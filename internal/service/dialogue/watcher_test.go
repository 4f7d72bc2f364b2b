package dialogue

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/sandevgo/musage/internal/core"
)

const sonnetRules = `
intents:
  - name: opinion
    mode: search
    patterns: ['sonnet']
`

func TestRulesWatcher_ReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, defaultRulesYAML, 0o600))

	c := NewClassifier(nil)
	w, err := NewRulesWatcher(path, c)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.NoError(t, os.WriteFile(path, []byte("intents: [{name: bogus, patterns: ['x']}]"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte(sonnetRules), 0o600))

	assert.Eventually(t, func() bool {
		return c.Intent("sonnet about autumn") == core.IntentOpinion
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	require.NoError(t, w.Shutdown(context.Background()))
}

func TestRulesWatcher_IgnoresInvalidRules(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("conversational: [{name: nonsense, patterns: ['x']}]"), 0o600))

	c := NewClassifier(nil)
	w, err := NewRulesWatcher(path, c)
	require.NoError(t, err)
	defer func() { _ = w.Shutdown(context.Background()) }()

	w.reload(context.Background())

	cat, ok := c.Conversational("hello")
	require.True(t, ok)
	assert.Equal(t, core.CategoryGreeting, cat)
}

func TestNewRulesWatcher_MissingDir(t *testing.T) {
	_, err := NewRulesWatcher(filepath.Join(t.TempDir(), "absent", "rules.yaml"), NewClassifier(nil))
	assert.Error(t, err)
}
