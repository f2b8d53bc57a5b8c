package encoding

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile_Missing(t *testing.T) {
	data, err := ReadFile(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "secret.key")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0600))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0600))

	data, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)

	if os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must be cleaned up")
}

func TestFormat_Set(t *testing.T) {
	var f Format

	assert.Equal(t, "table", f.String())
	require.NoError(t, f.Set("YAML"))
	assert.Equal(t, FormatYAML, f)
	assert.True(t, f.Structured())
	assert.Error(t, f.Set("xml"))
}

func TestEncode(t *testing.T) {
	type item struct {
		ID   string `json:"id"`
		Name string `json:"display_name"`
	}

	v := []item{{ID: "1", Name: "one"}}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatJSON, v))
	assert.JSONEq(t, `[{"id":"1","display_name":"one"}]`, buf.String())

	buf.Reset()
	require.NoError(t, Encode(&buf, FormatYAML, v))
	assert.Contains(t, buf.String(), "display_name: one")

	assert.Error(t, Encode(&buf, FormatTable, v))
}
