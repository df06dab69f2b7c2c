// internal/bench/source.go
// Input sources: named files, gzip files and standard input

package bench

import (
	"fmt"
	"io"
	"os"
	"strings"

	gzip "github.com/klauspost/pgzip"
)

// StdinName is the argument, and the source name, that selects standard input.
const StdinName = "-"

// Source is a lazily opened input stream.
type Source struct {
	Name string
	open func() (io.ReadCloser, error)
}

// Open returns the source's reader. The caller closes it.
func (s Source) Open() (io.ReadCloser, error) { return s.open() }

// ReaderSource wraps an already open reader. Closing it is a no-op.
func ReaderSource(name string, r io.Reader) Source {
	return Source{Name: name, open: func() (io.ReadCloser, error) {
		return io.NopCloser(r), nil
	}}
}

// FileSource opens path on demand, decompressing it when it ends in ".gz".
func FileSource(path string) Source {
	return Source{Name: path, open: func() (io.ReadCloser, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		if !strings.HasSuffix(path, ".gz") {
			return f, nil
		}
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		return &gzipFile{Reader: zr, file: f}, nil
	}}
}

// Sources maps command-line arguments to sources. No arguments, or "-",
// means stdin.
func Sources(args []string, stdin io.Reader) []Source {
	if len(args) == 0 {
		return []Source{ReaderSource(StdinName, stdin)}
	}
	out := make([]Source, 0, len(args))
	for _, a := range args {
		if a == StdinName {
			out = append(out, ReaderSource(StdinName, stdin))
			continue
		}
		out = append(out, FileSource(a))
	}
	return out
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	zerr := g.Reader.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return zerr
}
