package streammodule

import (
	"fmt"
	"io"
	"os"
)

// DefaultChunkSize is the streaming unit when none is configured
const DefaultChunkSize = 8192

// DiskStorage serves video files from the local filesystem
type DiskStorage struct{}

// Stat returns the byte length of the file at path
func (DiskStorage) Stat(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrFileMissing
		}
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return 0, ErrFileMissing
	}
	return fi.Size(), nil
}

// Open opens the file at path for reading
func (DiskStorage) Open(path string) (io.ReadSeekCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileMissing
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// ChunkReader produces a bounded, forward-only sequence of byte chunks from
// an opened handle. Chunks are produced one per Next call, so production is
// pull-driven by whoever consumes them; nothing is buffered beyond one chunk.
type ChunkReader struct {
	src       io.ReadCloser
	remaining int64
	buf       []byte
	truncated bool
	closed    bool
}

// NewChunkReader seeks src to offset and prepares to deliver exactly length
// bytes in chunks of at most chunkSize. The reader owns src and closes it.
func NewChunkReader(src io.ReadSeekCloser, offset, length, chunkSize int64) (*ChunkReader, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if length < 0 {
		length = 0
	}
	if offset > 0 {
		if _, err := src.Seek(offset, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek to %d: %w", offset, err)
		}
	}
	return &ChunkReader{
		src:       src,
		remaining: length,
		buf:       make([]byte, chunkSize),
	}, nil
}

// Next returns the next chunk. The returned slice is only valid until the
// following call. io.EOF signals normal exhaustion of the requested length;
// ErrTruncatedRead signals the source ran out first.
func (cr *ChunkReader) Next() ([]byte, error) {
	if cr.closed {
		return nil, ErrReaderClosed
	}
	if cr.truncated {
		return nil, ErrTruncatedRead
	}
	if cr.remaining <= 0 {
		return nil, io.EOF
	}

	want := int64(len(cr.buf))
	if cr.remaining < want {
		want = cr.remaining
	}

	n, err := io.ReadFull(cr.src, cr.buf[:want])
	if n > 0 {
		cr.remaining -= int64(n)
	}
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		if n == 0 {
			return nil, ErrTruncatedRead
		}
		// Deliver the partial chunk now; the shortfall surfaces on the
		// next call.
		if cr.remaining > 0 {
			cr.truncated = true
		}
		return cr.buf[:n], nil
	}
	if err != nil {
		return nil, err
	}
	return cr.buf[:n], nil
}

// Remaining reports how many requested bytes are still undelivered
func (cr *ChunkReader) Remaining() int64 {
	return cr.remaining
}

// Close releases the underlying handle. Safe to call more than once.
func (cr *ChunkReader) Close() error {
	if cr.closed {
		return nil
	}
	cr.closed = true
	return cr.src.Close()
}
