package cmd

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mvdan.cc/sh/v3/interp"
)

func TestEvalDepConditions(t *testing.T) {
	vars := map[string]string{
		"linux": "true",
		"amd64": "true",
		"BASE":  "https://example.org/tools",
	}

	t.Run("variable expansion", func(t *testing.T) {
		meta := depSpec{URL: "{BASE}/twine.tar.gz"}
		require.True(t, evalDepConditions(&meta, vars))
		assert.Equal(t, "https://example.org/tools/twine.tar.gz", meta.URL)
	})

	t.Run("unknown variables expand to nothing", func(t *testing.T) {
		meta := depSpec{URL: "{MISSING}/tool.zip"}
		require.True(t, evalDepConditions(&meta, vars))
		assert.Equal(t, "/tool.zip", meta.URL)
	})

	t.Run("if condition", func(t *testing.T) {
		meta := depSpec{URL: "x", Condition: "linux"}
		assert.True(t, evalDepConditions(&meta, vars))

		meta = depSpec{URL: "x", Condition: "windows"}
		assert.False(t, evalDepConditions(&meta, vars))

		meta = depSpec{URL: "x", Condition: "linux, amd64"}
		assert.True(t, evalDepConditions(&meta, vars))
	})

	t.Run("ifNot condition", func(t *testing.T) {
		meta := depSpec{URL: "x", Rejections: "linux"}
		assert.False(t, evalDepConditions(&meta, vars))

		meta = depSpec{URL: "x", Rejections: "windows"}
		assert.True(t, evalDepConditions(&meta, vars))
	})
}

func TestExitStatus(t *testing.T) {
	assert.Equal(t, 1, exitStatus(assert.AnError))
	assert.Equal(t, 3, exitStatus(interp.NewExitStatus(3)))

	// the status survives the wrapping added by the dependency chain
	wrapped := eris.Wrap(interp.NewExitStatus(2), "task pypi failed due to its dependency dist")
	assert.Equal(t, 2, exitStatus(wrapped))
}
