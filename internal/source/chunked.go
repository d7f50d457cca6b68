package source

import "io"

// ChunkedReader re-slices an underlying reader into chunks of at most size
// bytes. Statement detection is independent of chunk granularity, so this is
// used to simulate token-by-token arrival (and to prove the independence in
// tests).
type ChunkedReader struct {
	r    io.Reader
	size int
}

// NewChunkedReader wraps r. A size below 1 is treated as 1.
func NewChunkedReader(r io.Reader, size int) *ChunkedReader {
	if size < 1 {
		size = 1
	}
	return &ChunkedReader{r: r, size: size}
}

func (c *ChunkedReader) Read(p []byte) (int, error) {
	if len(p) > c.size {
		p = p[:c.size]
	}
	return c.r.Read(p)
}
