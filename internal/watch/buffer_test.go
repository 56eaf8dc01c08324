package watch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/phpns/internal/testutil"
)

func TestFileBuffer(t *testing.T) {
	root := t.TempDir()
	path := testutil.WriteFile(t, root, "User.php", "")
	buf := NewFileBuffer(path)

	assert.Equal(t, path, buf.ID())
	assert.Equal(t, path, buf.Path())
	assert.True(t, buf.IsEmpty())

	require.NoError(t, buf.Append("<?php\n"))
	require.NoError(t, buf.Append("namespace App;\n"))
	assert.False(t, buf.IsEmpty())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<?php\nnamespace App;\n", string(data))
}

func TestFileBuffer_Missing(t *testing.T) {
	buf := NewFileBuffer(filepath.Join(t.TempDir(), "Gone.php"))

	assert.False(t, buf.IsEmpty())
	assert.Error(t, buf.Append("<?php\n"))
}
