package util

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

func DirExists(path string) bool {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	return err == nil && info.IsDir()
}

func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// EnsureDir creates the directory (and parents) when missing.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenMaybeGzip opens a file and transparently decompresses it when it
// starts with the gzip magic bytes.
func OpenMaybeGzip(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return WrapMaybeGzip(f)
}

// WrapMaybeGzip is OpenMaybeGzip for an already opened stream.
func WrapMaybeGzip(r io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		r.Close()
		return nil, err
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			r.Close()
			return nil, err
		}
		return &readCloser{Reader: gz, closers: []io.Closer{gz, r}}, nil
	}
	return &readCloser{Reader: br, closers: []io.Closer{r}}, nil
}

type writeCloser struct {
	io.Writer
	closers []io.Closer
}

func (wc *writeCloser) Close() error {
	var first error
	for _, c := range wc.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// CreateMaybeGzip creates a file, gzip compressed when the name ends in ".gz".
// Closing the writer flushes the compressor before closing the file.
func CreateMaybeGzip(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz := gzip.NewWriter(f)
	return &writeCloser{Writer: gz, closers: []io.Closer{gz, f}}, nil
}
