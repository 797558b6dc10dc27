package kaleido

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptions(t *testing.T) {
	opt, err := LoadOptions(strings.NewReader(`
operators:
  "<": 10
  "+": 20
  "/": 40
evaluate: true
max_call_depth: 64
`))
	require.NoError(t, err)

	assert.True(t, opt.Evaluate)
	assert.Equal(t, 64, opt.MaxCallDepth)

	ops, err := opt.OperatorTable()
	require.NoError(t, err)
	assert.Equal(t, 40, ops.Precedence('/'))
	assert.Equal(t, -1, ops.Precedence('*'))
}

func TestLoadOptionsEmpty(t *testing.T) {
	opt, err := LoadOptions(strings.NewReader(""))
	require.NoError(t, err)

	ops, err := opt.OperatorTable()
	require.NoError(t, err)
	assert.Equal(t, DefaultOperatorTable(), ops)
}

func TestLoadOptionsInvalid(t *testing.T) {
	cases := []string{
		"unknown_key: 1",
		"operators:\n  \"++\": 10",
		"operators:\n  \"+\": 0",
		"operators:\n  \"(\": 10",
		"operators: [1, 2]",
	}

	for _, data := range cases {
		_, err := LoadOptions(strings.NewReader(data))
		assert.ErrorIs(t, err, ErrInvalidOptions, data)
	}
}

func TestLoadOptionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kaleido.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_parallelism: 2\n"), 0o644))

	opt, err := LoadOptionsFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, opt.MaxParallelism)

	_, err = LoadOptionsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestOptionsNormalize(t *testing.T) {
	var nilOpt *Options
	opt := nilOpt.normalize()

	assert.Equal(t, DefaultMaxCallDepth, opt.MaxCallDepth)
	assert.NotNil(t, opt.Output)
	assert.False(t, opt.Evaluate)
}
