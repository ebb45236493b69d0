package match

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookSequentialOrderWraps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.fen")
	require.NoError(t, os.WriteFile(path, []byte("first\nsecond\nthird\n"), 0644))

	book, err := NewBook(path, "sequential")
	require.NoError(t, err)

	assert.Equal(t, 3, book.Len())
	assert.Equal(t, "first", book.Current())

	book.Next()
	assert.Equal(t, "second", book.Current())

	book.Next()
	book.Next()
	assert.Equal(t, "first", book.Current())
}

func TestBookSkipsCommentsAndBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.fen")
	require.NoError(t, os.WriteFile(path, []byte("# header\n\nfirst\n   \nsecond\n"), 0644))

	book, err := NewBook(path, "sequential")
	require.NoError(t, err)

	assert.Equal(t, 2, book.Len())
	assert.Equal(t, "first", book.Current())
}

func TestBookRandomStaysInRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.fen")
	require.NoError(t, os.WriteFile(path, []byte("first\nsecond\n"), 0644))

	book, err := NewBook(path, "random")
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		book.Next()
		assert.Contains(t, []string{"first", "second"}, book.Current())
	}
}

func TestBookMissingFile(t *testing.T) {
	_, err := NewBook(filepath.Join(t.TempDir(), "absent.fen"), "sequential")
	assert.Error(t, err)
}

func TestBookWithoutPositions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.fen")
	require.NoError(t, os.WriteFile(path, []byte("# only comments\n\n"), 0644))

	_, err := NewBook(path, "sequential")
	assert.ErrorContains(t, err, "no positions")
}
