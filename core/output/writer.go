package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/fbz-tec/pgxunload/internal/logger"
)

const (
	None = "none"
	GZIP = "gzip"
	ZSTD = "zstd"
	LZ4  = "lz4"
)

// OutputConfig describes the file a rendered statement is written to.
type OutputConfig struct {
	Path        string
	Compression string
}

const bufferSize = 64 * 1024

// FileWriter writes through a buffer to a possibly compressed file. Close
// flushes the buffer, finalizes the compressed stream and closes the file.
type FileWriter struct {
	buf     *bufio.Writer
	closers []io.Closer
	path    string
	opened  time.Time
}

func newFileWriter(w io.Writer, path string, closers ...io.Closer) *FileWriter {
	return &FileWriter{
		buf:     bufio.NewWriterSize(w, bufferSize),
		closers: closers,
		path:    path,
		opened:  time.Now(),
	}
}

func (w *FileWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

// Close closes the stream layers from the outside in, even after a failed
// flush, and returns the first error.
func (w *FileWriter) Close() error {
	var first error
	if err := w.buf.Flush(); err != nil {
		first = fmt.Errorf("error flushing buffer: %w", err)
	}
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	w.closers = nil
	logger.Debug("Output file %s closed in %v", w.path, time.Since(w.opened))
	return first
}

// Path returns the file path, including any extension added for the compression.
func (w *FileWriter) Path() string { return w.path }

// Compressions lists the supported compression names.
func Compressions() []string {
	names := make([]string, 0, len(codecs)+1)
	names = append(names, None)
	for name := range codecs {
		names = append(names, name)
	}
	slices.Sort(names[1:])
	return names
}

// ResolvePath returns the path CreateWriter would write to.
func ResolvePath(cfg OutputConfig) (string, error) {
	name := normalize(cfg.Compression)
	if name == None {
		return cfg.Path, nil
	}
	c, ok := codecs[name]
	if !ok {
		return "", fmt.Errorf("unsupported compression type %q", cfg.Compression)
	}
	if !strings.HasSuffix(strings.ToLower(cfg.Path), c.ext) {
		return cfg.Path + c.ext, nil
	}
	return cfg.Path, nil
}

// CreateWriter creates the output file. An empty compression means none.
func CreateWriter(cfg OutputConfig) (*FileWriter, error) {
	path, err := ResolvePath(cfg)
	if err != nil {
		return nil, err
	}

	name := normalize(cfg.Compression)
	logger.Debug("Creating output file: %s (compression: %s)", path, name)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating file: %w", err)
	}

	if name == None {
		return newFileWriter(file, path, file), nil
	}

	enc, err := codecs[name].wrap(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("error creating %s writer: %w", name, err)
	}
	return newFileWriter(enc, path, enc, file), nil
}

func normalize(compression string) string {
	name := strings.ToLower(strings.TrimSpace(compression))
	if name == "" {
		return None
	}
	return name
}
