// reader.go - Page sources for reading from InnoDB data files
package ibdviewer

import (
	"fmt"
	"io"
	"os"

	"github.com/vnt-dev/ibd-viewer/format"
)

// PageSource returns the raw 16 KiB of a page by number. Implementations
// read from absolute offset pageNo*16384 and fail when the file is shorter
// than the requested page.
type PageSource interface {
	ReadPage(pageNo uint32) ([]byte, error)
}

// ReaderSource adapts any io.ReaderAt. It is safe for concurrent use when
// the underlying reader's ReadAt is.
type ReaderSource struct {
	r io.ReaderAt
}

// NewReaderSource wraps r as a PageSource.
func NewReaderSource(r io.ReaderAt) *ReaderSource { return &ReaderSource{r: r} }

func (s *ReaderSource) ReadPage(pageNo uint32) ([]byte, error) {
	buf := make([]byte, format.PageSize)
	off := int64(pageNo) * int64(format.PageSize)
	if _, err := s.r.ReadAt(buf, off); err != nil {
		return nil, fmt.Errorf("read page %d: %w", pageNo, err)
	}
	return buf, nil
}

// FileSource is a ReaderSource that owns its file handle.
type FileSource struct {
	ReaderSource
	f *os.File
}

// OpenFile opens an .ibd file as a PageSource.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tablespace: %w", err)
	}
	return &FileSource{ReaderSource: ReaderSource{r: f}, f: f}, nil
}

func (s *FileSource) Close() error { return s.f.Close() }
