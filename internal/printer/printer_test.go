package printer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr, oldNoColor := Stdout, Stderr, color.NoColor
	Stdout, Stderr, color.NoColor = &out, &errOut, true
	t.Cleanup(func() { Stdout, Stderr, color.NoColor = oldOut, oldErr, oldNoColor })
	return &out, &errOut
}

func TestError(t *testing.T) {
	t.Run("returns error with title", func(t *testing.T) {
		_, stderr := capture(t)
		err := Error("Config invalid", nil)
		require.Error(t, err)
		assert.Equal(t, "Config invalid", err.Error())
		assert.Equal(t, "Config invalid\n\n", stderr.String())
	})

	t.Run("wraps the cause", func(t *testing.T) {
		_, stderr := capture(t)
		cause := errors.New("boom")
		err := Error("Server failed", cause, "Pick another --listen address")
		assert.True(t, errors.Is(err, cause))
		assert.Equal(t, "Server failed: boom", err.Error())
		assert.Contains(t, stderr.String(), "boom\n\nPick another --listen address\n")
	})

	t.Run("numbers multiple suggestions", func(t *testing.T) {
		_, stderr := capture(t)
		_ = Error("Bad", nil, "First option", "Second option")
		assert.Contains(t, stderr.String(), "Either:\n  1. First option\n  2. Second option\n")
	})
}

func TestSuccessAndWarning(t *testing.T) {
	stdout, stderr := capture(t)
	Success("done\n")
	Success("✓ already marked\n")
	Warning("careful\n")
	Step("next\n")

	assert.Equal(t, "✓ done\n✓ already marked\n→ next\n", stdout.String())
	assert.Equal(t, "warning: careful\n", stderr.String())
}
