package source

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	execerrors "github.com/alexisbeaulieu97/streamexec/pkg/errors"
)

func TestFromFileStreamsContents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "program.js")
	require.NoError(t, os.WriteFile(path, []byte("const x = 1;"), 0o644))

	src, err := FromFile(path)
	require.NoError(t, err)
	defer src.Close()

	data, err := io.ReadAll(src.Reader)
	require.NoError(t, err)
	require.Equal(t, "const x = 1;", string(data))
	require.Equal(t, path, src.Location)
}

func TestFromFileMissing(t *testing.T) {
	t.Parallel()

	_, err := FromFile(filepath.Join(t.TempDir(), "absent.js"))

	var srcErr *execerrors.SourceError
	require.ErrorAs(t, err, &srcErr)
}

func TestChunkedReaderPreservesBytes(t *testing.T) {
	t.Parallel()

	text := "const x = 1;\nconsole.log(x);"
	for _, size := range []int{1, 3, 7, 1024} {
		r := NewChunkedReader(strings.NewReader(text), size)
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		require.Equal(t, text, string(data))
	}
}

func TestChunkedReaderCapsReadSize(t *testing.T) {
	t.Parallel()

	r := NewChunkedReader(strings.NewReader("abcdef"), 2)
	buf := make([]byte, 16)
	n, err := r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestChunkedReaderNormalizesSize(t *testing.T) {
	t.Parallel()

	r := NewChunkedReader(strings.NewReader("ab"), 0)
	buf := make([]byte, 16)
	n, err := r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
