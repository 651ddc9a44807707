package ir_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itdojp/cspx/internal/cspx/ir"
)

const minimalModule = `{
  "channels": [{"name": "a"}],
  "processes": [
    {"name": "P", "body": {"kind": "prefix", "event": {"channel": "a"}, "next": {"kind": "stop"}}}
  ],
  "assertions": [
    {"kind": "property", "target": "P", "property": "deadlock_free"}
  ],
  "entry": "P"
}`

func TestLoadFileRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spec.ir.json")
	require.NoError(t, os.WriteFile(path, []byte(minimalModule), 0o644))

	mod, err := ir.LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, ir.Validate(mod))

	assert.Equal(t, "P", mod.Entry)
	assert.Len(t, mod.Processes, 1)
	assert.Equal(t, ir.PropertyDeadlockFree, mod.Assertions[0].Property)
}

func TestLoadFileMissingFile(t *testing.T) {
	_, err := ir.LoadFile(filepath.Join(t.TempDir(), "missing.ir.json"))
	assert.Error(t, err)
}

func TestLoadFileInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.ir.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := ir.LoadFile(path)
	assert.Error(t, err)
}
