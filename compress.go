package texpak

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Compress deflates data into a zlib stream at the given level.
// Level 0 is handled by the writers, which store the payload instead.
func Compress(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("%w: level %d: %v", ErrCompression, level, err)
	}
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompression, err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompression, err)
	}

	return buf.Bytes(), nil
}

// Decompress inflates a zlib stream that must expand to exactly size bytes.
// A malformed stream or failed checksum is ErrCompression; a stream that
// inflates to another length is ErrCorruptData.
func Decompress(data []byte, size int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompression, err)
	}
	defer func() { _ = zr.Close() }()

	// one extra byte is enough to notice an oversized stream
	out, err := io.ReadAll(io.LimitReader(zr, int64(size)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompression, err)
	}
	if len(out) != size {
		return nil, fmt.Errorf("%w: inflated size expected %d, got %d", ErrCorruptData, size, len(out))
	}

	return out, nil
}
