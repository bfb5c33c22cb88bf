package output

import (
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

const script = "UNLOAD ('SELECT 1') TO 's3://bucket/p/'\nIAM_ROLE default\nPARALLEL OFF\n"

func readBack(t *testing.T, path, compression string) string {
	t.Helper()

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer file.Close()

	var r io.Reader
	switch compression {
	case GZIP:
		gz, err := gzip.NewReader(file)
		if err != nil {
			t.Fatalf("gzip.NewReader() error = %v", err)
		}
		defer gz.Close()
		r = gz
	case ZSTD:
		dec, err := zstd.NewReader(file)
		if err != nil {
			t.Fatalf("zstd.NewReader() error = %v", err)
		}
		defer dec.Close()
		r = dec
	case LZ4:
		r = lz4.NewReader(file)
	default:
		r = file
	}

	content, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	return string(content)
}

func TestCreateWriter_RoundTrip(t *testing.T) {
	tests := []struct {
		compression string
		file        string
		wantFile    string
	}{
		{compression: "none", file: "unload.sql", wantFile: "unload.sql"},
		{compression: "", file: "unload.sql", wantFile: "unload.sql"},
		{compression: "gzip", file: "unload.sql", wantFile: "unload.sql.gz"},
		{compression: "gzip", file: "unload.sql.gz", wantFile: "unload.sql.gz"},
		{compression: "zstd", file: "unload.sql", wantFile: "unload.sql.zst"},
		{compression: "zstd", file: "unload.sql.ZST", wantFile: "unload.sql.ZST"},
		{compression: "lz4", file: "unload.sql", wantFile: "unload.sql.lz4"},
		{compression: " GZIP ", file: "upper.sql", wantFile: "upper.sql.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.compression+"/"+tt.file, func(t *testing.T) {
			dir := t.TempDir()

			w, err := CreateWriter(OutputConfig{Path: filepath.Join(dir, tt.file), Compression: tt.compression})
			if err != nil {
				t.Fatalf("CreateWriter() error = %v", err)
			}
			if want := filepath.Join(dir, tt.wantFile); w.Path() != want {
				t.Errorf("Path() = %q, want %q", w.Path(), want)
			}

			for _, line := range strings.SplitAfter(script, "\n") {
				if _, err := w.Write([]byte(line)); err != nil {
					t.Fatalf("Write() error = %v", err)
				}
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			if got := readBack(t, w.Path(), normalize(tt.compression)); got != script {
				t.Errorf("content = %q, want %q", got, script)
			}
		})
	}
}

func TestCreateWriter_InvalidCompression(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unload.sql")

	_, err := CreateWriter(OutputConfig{Path: path, Compression: "zip"})
	if err == nil || !strings.Contains(err.Error(), "unsupported compression") {
		t.Fatalf("CreateWriter() error = %v, want unsupported compression", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be created for an unsupported compression")
	}
}

func TestCreateWriter_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "unload.sql")
	if _, err := CreateWriter(OutputConfig{Path: path, Compression: None}); err == nil {
		t.Error("CreateWriter() into a missing directory should fail")
	}
}

func TestCompressions(t *testing.T) {
	want := []string{"none", "gzip", "lz4", "zstd"}
	if got := Compressions(); !reflect.DeepEqual(got, want) {
		t.Errorf("Compressions() = %v, want %v", got, want)
	}
}

type recordingCloser struct {
	name  string
	err   error
	order *[]string
}

func (c recordingCloser) Close() error {
	*c.order = append(*c.order, c.name)
	return c.err
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestFileWriter_Close(t *testing.T) {
	tests := []struct {
		name      string
		dst       io.Writer
		encErr    error
		fileErr   error
		wantErr   string
		wantOrder []string
	}{
		{name: "closes encoder then file", dst: io.Discard, wantOrder: []string{"encoder", "file"}},
		{name: "first close error wins", dst: io.Discard, encErr: errors.New("encoder"), fileErr: errors.New("file"), wantErr: "encoder", wantOrder: []string{"encoder", "file"}},
		{name: "flush failure still closes", dst: failingWriter{}, fileErr: errors.New("file"), wantErr: "error flushing buffer: disk full", wantOrder: []string{"encoder", "file"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var order []string
			w := newFileWriter(tt.dst, "out.sql",
				recordingCloser{name: "encoder", err: tt.encErr, order: &order},
				recordingCloser{name: "file", err: tt.fileErr, order: &order},
			)
			if _, err := io.WriteString(w, script); err != nil {
				t.Fatalf("Write() error = %v", err)
			}

			err := w.Close()
			if tt.wantErr == "" && err != nil {
				t.Errorf("Close() error = %v", err)
			}
			if tt.wantErr != "" && (err == nil || err.Error() != tt.wantErr) {
				t.Errorf("Close() error = %v, want %q", err, tt.wantErr)
			}
			if !reflect.DeepEqual(order, tt.wantOrder) {
				t.Errorf("close order = %v, want %v", order, tt.wantOrder)
			}
			_ = w.Close()
			if len(order) != len(tt.wantOrder) {
				t.Errorf("second Close() closed again: %v", order)
			}
		})
	}
}

func BenchmarkCreateWriter_GZIP(b *testing.B) {
	dir := b.TempDir()
	for i := 0; i < b.N; i++ {
		w, err := CreateWriter(OutputConfig{Path: filepath.Join(dir, "bench.sql"), Compression: GZIP})
		if err != nil {
			b.Fatal(err)
		}
		w.Write([]byte(script))
		w.Close()
	}
}
