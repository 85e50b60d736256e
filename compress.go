package nbt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the stream codec wrapped around an NBT document.
// The codec itself never sees compressed bytes.
type Compression uint8

const (
	// CompressionNone reads and writes raw NBT.
	CompressionNone Compression = iota
	// CompressionGzip is used by Java Edition level.dat and player files.
	CompressionGzip
	// CompressionZlib is used by Java Edition region file chunks.
	CompressionZlib
	CompressionZstd
	// CompressionLZ4 uses the LZ4 frame format.
	CompressionLZ4
	// CompressionAuto detects the codec from the stream's magic bytes.
	// It is only valid for reading.
	CompressionAuto
)

var compressionNames = [...]string{
	CompressionNone: "none",
	CompressionGzip: "gzip",
	CompressionZlib: "zlib",
	CompressionZstd: "zstd",
	CompressionLZ4:  "lz4",
	CompressionAuto: "auto",
}

func (c Compression) String() string {
	if int(c) < len(compressionNames) {
		return compressionNames[c]
	}
	return fmt.Sprintf("unknown(%d)", uint8(c))
}

// ParseCompression parses a compression name as printed by String.
func ParseCompression(name string) (Compression, error) {
	for c, n := range compressionNames {
		if strings.EqualFold(n, name) {
			return Compression(c), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
}

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// sniff guesses the compression of a stream from its first bytes. No valid
// tag type exceeds 12, so none of the magic numbers can start raw NBT.
func sniff(magic []byte) Compression {
	switch {
	case bytes.HasPrefix(magic, magicGzip):
		return CompressionGzip
	case bytes.HasPrefix(magic, magicZstd):
		return CompressionZstd
	case bytes.HasPrefix(magic, magicLZ4):
		return CompressionLZ4
	case len(magic) >= 2 && isZlibHeader(magic[0], magic[1]):
		return CompressionZlib
	}
	return CompressionNone
}

// isZlibHeader checks the RFC 1950 CMF/FLG pair: deflate, a window of at
// most 32K and a valid FCHECK.
func isZlibHeader(cmf, flg byte) bool {
	return cmf&0x0f == 8 && cmf>>4 <= 7 && cmf > byte(TagLongArray) && (uint16(cmf)<<8|uint16(flg))%31 == 0
}

type peeker interface {
	io.Reader
	Peek(n int) ([]byte, error)
}

// DetectCompression peeks at the start of r without consuming it and
// returns the detected compression together with the reader to continue
// from, which replaces r.
func DetectCompression(r io.Reader) (Compression, io.Reader, error) {
	p, ok := r.(peeker)
	if !ok {
		p = PeekReader(r)
	}
	magic, err := p.Peek(len(magicZstd))
	if err != nil && !errors.Is(err, io.EOF) {
		return CompressionNone, p, transportError(err)
	}
	return sniff(magic), p, nil
}

type nopReadCloser struct{ source }

func (nopReadCloser) Close() error { return nil }

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// unwrapNop lets the Writer see the caller's writer directly when there is
// no compressor in between, so a *bytes.Buffer is not buffered twice.
func unwrapNop(w io.WriteCloser) io.Writer {
	if n, ok := w.(nopWriteCloser); ok {
		return n.Writer
	}
	return w
}

// WrapReader returns a reader that decompresses r. Closing it releases the
// decompressor but never closes r.
func WrapReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	if r == nil {
		return nil, ErrNilIO
	}
	if c == CompressionAuto {
		var err error
		if c, r, err = DetectCompression(r); err != nil {
			return nil, err
		}
	}
	switch c {
	case CompressionNone:
		if src, ok := r.(source); ok {
			return nopReadCloser{src}, nil
		}
		return io.NopCloser(r), nil
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, openError(c, err)
		}
		return zr, nil
	case CompressionZlib:
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, openError(c, err)
		}
		return zr, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, openError(c, err)
		}
		return zr.IOReadCloser(), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
}

// WrapWriter returns a writer that compresses into w. Close must be called
// to flush the compressor; it never closes w.
func WrapWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	if w == nil {
		return nil, ErrNilIO
	}
	switch c {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	case CompressionZlib:
		return zlib.NewWriter(w), nil
	case CompressionZstd:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil, openError(c, err)
		}
		return zw, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	}
	return nil, fmt.Errorf("%w: %s cannot be used for writing", ErrUnknownCompression, c)
}

// openError reports a failure to start a decompressor. A stream too short to
// hold the codec header is truncated data, anything else is a transport fault.
func openError(c Compression, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s header: %w", ErrUnexpectedEnd, c, err)
	}
	return fmt.Errorf("%w: %s header: %w", ErrTransport, c, err)
}
