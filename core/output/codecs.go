package output

import (
	"compress/gzip"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

type codec struct {
	ext  string
	wrap func(w io.Writer) (io.WriteCloser, error)
}

var codecs = map[string]codec{
	GZIP: {
		ext:  ".gz",
		wrap: func(w io.Writer) (io.WriteCloser, error) { return gzip.NewWriter(w), nil },
	},
	ZSTD: {
		ext: ".zst",
		wrap: func(w io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(w)
		},
	},
	LZ4: {
		ext:  ".lz4",
		wrap: func(w io.Writer) (io.WriteCloser, error) { return lz4.NewWriter(w), nil },
	},
}
