package capture

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// CompressedExt marks capture files stored as a zstd stream.
const CompressedExt = ".zst"

// FileWriter appends records to a capture file.
type FileWriter struct {
	*Writer
	file *os.File
	zw   *zstd.Encoder
}

// Create opens path for appending, creating it if needed. Paths ending in
// CompressedExt get a new zstd frame per session; the decoder reads
// concatenated frames as one stream.
func Create(path string) (*FileWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	fw := &FileWriter{file: f}
	var w io.Writer = f
	if strings.HasSuffix(path, CompressedExt) {
		zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("capture: %w", err)
		}
		fw.zw = zw
		w = zw
	}
	fw.Writer = NewWriter(w)
	return fw, nil
}

func (fw *FileWriter) Close() error {
	if fw.zw != nil {
		if err := fw.zw.Close(); err != nil {
			fw.file.Close()
			return fmt.Errorf("capture: %w", err)
		}
	}
	return fw.file.Close()
}

// FileReader reads records back from a capture file.
type FileReader struct {
	*Reader
	closers []io.Closer
}

func Open(path string) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	fr := &FileReader{closers: []io.Closer{f}}
	var r io.Reader = f
	if strings.HasSuffix(path, CompressedExt) {
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("capture: %w", err)
		}
		rc := zr.IOReadCloser()
		fr.closers = append([]io.Closer{rc}, fr.closers...)
		r = rc
	}
	fr.Reader = NewReader(r)
	return fr, nil
}

func (fr *FileReader) Close() error {
	var first error
	for _, c := range fr.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
