package qc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePolicy(t *testing.T) {
	t.Run("nil resolves to no policy", func(t *testing.T) {
		p, err := ResolvePolicy(nil)
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("explicit policy passes through", func(t *testing.T) {
		max := 5.0
		in := &Policy{Max: &max}
		p, err := ResolvePolicy(in)
		require.NoError(t, err)
		assert.Same(t, in, p)
	})

	t.Run("numeric literal becomes max", func(t *testing.T) {
		p, err := ResolvePolicy(10.0)
		require.NoError(t, err)
		require.NotNil(t, p.Max)
		assert.Equal(t, 10.0, *p.Max)
	})

	t.Run("integer literal becomes max", func(t *testing.T) {
		p, err := ResolvePolicy(10)
		require.NoError(t, err)
		require.NotNil(t, p.Max)
		assert.Equal(t, 10.0, *p.Max)
	})

	t.Run("numeric string becomes max", func(t *testing.T) {
		p, err := ResolvePolicy("7.5")
		require.NoError(t, err)
		require.NotNil(t, p.Max)
		assert.Equal(t, 7.5, *p.Max)
	})

	t.Run("non-numeric string becomes severity", func(t *testing.T) {
		p, err := ResolvePolicy("warning")
		require.NoError(t, err)
		assert.Nil(t, p.Max)
		assert.Equal(t, "warning", p.Severity)
	})

	t.Run("structured map", func(t *testing.T) {
		p, err := ResolvePolicy(map[string]any{
			"min":           1.0,
			"max":           9,
			"threshold":     "5",
			"severity":      "error",
			"fail_severity": "fatal",
			"owner":         "qc-team",
		})
		require.NoError(t, err)
		assert.Equal(t, 1.0, *p.Min)
		assert.Equal(t, 9.0, *p.Max)
		assert.Equal(t, 5.0, *p.Threshold)
		assert.Equal(t, "error", p.Severity)
		assert.Equal(t, "fatal", p.FailSeverity)
		assert.Equal(t, "qc-team", p.Metadata["owner"])
	})

	t.Run("map with non-numeric bound fails", func(t *testing.T) {
		_, err := ResolvePolicy(map[string]any{"max": "lots"})
		assert.Error(t, err)
	})

	t.Run("unsupported type fails", func(t *testing.T) {
		_, err := ResolvePolicy([]string{"nope"})
		assert.Error(t, err)
	})
}

func TestLoadPolicies(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policies.yaml")
	content := `
row_count:
  min: 1
  severity: error
duplicate_business_key_rate: 0.0
unknown_relation_count: warning
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	policies, err := LoadPolicies(path)
	require.NoError(t, err)
	require.Len(t, policies, 3)

	rc := policies["row_count"]
	require.NotNil(t, rc)
	assert.Equal(t, 1.0, *rc.Min)
	assert.Equal(t, "error", rc.Severity)

	dup := policies["duplicate_business_key_rate"]
	require.NotNil(t, dup)
	require.NotNil(t, dup.Max)
	assert.Equal(t, 0.0, *dup.Max)

	unk := policies["unknown_relation_count"]
	require.NotNil(t, unk)
	assert.Equal(t, "warning", unk.Severity)
}

func TestLoadPoliciesMissingFile(t *testing.T) {
	_, err := LoadPolicies(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
