package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// Format identifies an image or dump encoding
type Format string

const (
	FormatPPM Format = "ppm"
	FormatPNG Format = "png"
	FormatRaw Format = "raw"
)

// ErrUnknownFormat is returned for output paths without a recognised extension
var ErrUnknownFormat = errors.New("unknown output format")

const (
	zstdSuffix   = ".zst"
	snappySuffix = ".sz"
)

// stripCompression removes a trailing compression suffix
func stripCompression(path string) string {
	for _, suffix := range []string{zstdSuffix, snappySuffix} {
		if strings.HasSuffix(strings.ToLower(path), suffix) {
			return path[:len(path)-len(suffix)]
		}
	}
	return path
}

// FormatFor picks the encoding from the extension, ignoring any compression suffix
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(stripCompression(path))) {
	case ".ppm":
		return FormatPPM, nil
	case ".png":
		return FormatPNG, nil
	case ".raw":
		return FormatRaw, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// compressedWriter closes the compressor before the file underneath it
type compressedWriter struct {
	io.Writer
	stream io.Closer
	file   *os.File
}

func (w *compressedWriter) Close() error {
	if err := w.stream.Close(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// Create opens path for writing. A .zst suffix compresses with zstd and
// a .sz suffix with framed snappy.
func Create(path string) (io.WriteCloser, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case zstdSuffix:
		stream, err := zstd.NewWriter(file)
		if err != nil {
			file.Close()
			return nil, err
		}
		return &compressedWriter{Writer: stream, stream: stream, file: file}, nil
	case snappySuffix:
		stream := snappy.NewBufferedWriter(file)
		return &compressedWriter{Writer: stream, stream: stream, file: file}, nil
	}
	return file, nil
}

// compressedReader releases the decompressor along with the file
type compressedReader struct {
	io.Reader
	release func()
	file    *os.File
}

func (r *compressedReader) Close() error {
	if r.release != nil {
		r.release()
	}
	return r.file.Close()
}

// Open opens path for reading, undoing the compression chosen by Create
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case zstdSuffix:
		stream, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, err
		}
		return &compressedReader{Reader: stream, release: stream.Close, file: file}, nil
	case snappySuffix:
		return &compressedReader{Reader: snappy.NewReader(file), file: file}, nil
	}
	return file, nil
}

// Save encodes fb to path in the format its extension names
func Save(path string, fb *renderer.Framebuffer) (err error) {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	w, err := Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := w.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	switch format {
	case FormatPPM:
		err = WritePPM(w, fb)
	case FormatPNG:
		err = WritePNG(w, fb)
	case FormatRaw:
		err = WriteRaw(w, fb)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadRaw reads a raw accumulation dump, possibly compressed
func LoadRaw(path string) (*renderer.Framebuffer, error) {
	if format, err := FormatFor(path); err != nil {
		return nil, err
	} else if format != FormatRaw {
		return nil, fmt.Errorf("%w: %s is not a raw dump", ErrUnknownFormat, path)
	}

	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	fb, err := ReadRaw(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return fb, nil
}
