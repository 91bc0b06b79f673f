package testhelper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestTrimIndent(t *testing.T) {
	got := TrimIndent(t, `
		parser: expr
		cases:
		- input: "1"
			want: "1"
	`)

	assert.Equal(t, "parser: expr\ncases:\n- input: \"1\"\n    want: \"1\"\n", got)
	assert.Equal(t, "single", TrimIndent(t, "single"))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	path := WriteFile(t, dir, filepath.Join("nested", "cases.yaml"), "cases: []\n")
	assert.Equal(t, filepath.Join(dir, "nested", "cases.yaml"), path)

	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "cases: []\n", string(content))
}
