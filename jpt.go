package texpak

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image/jpeg"
	"io"
)

// EncodeJPT writes a JPT container from a JPEG color image and a PNG alpha
// image. Both blobs are required and stored uncompressed.
func EncodeJPT(w io.Writer, jpg, png []byte) (*Header, error) {
	if png == nil {
		return nil, ErrAuxiliaryRequired
	}

	jpgSize, err := u32FromInt(len(jpg))
	if err != nil {
		return nil, fmt.Errorf("%w: JPEG of %d bytes", err, len(jpg))
	}
	pngSize, err := u32FromInt(len(png))
	if err != nil {
		return nil, fmt.Errorf("%w: PNG of %d bytes", err, len(png))
	}
	total, err := u32FromInt(len(jpg) + len(png))
	if err != nil {
		return nil, fmt.Errorf("%w: payload of %d bytes", err, len(jpg)+len(png))
	}

	hdr := make([]byte, 0, 8)
	hdr = append(hdr, MagicJPT...)
	hdr = append(hdr, JPTVersion)
	hdr = putU32(hdr, jpgSize)
	if _, err := w.Write(hdr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteHeader, err)
	}
	if _, err := w.Write(jpg); err != nil {
		return nil, fmt.Errorf("%w: JPEG: %v", ErrWritePayload, err)
	}
	if _, err := w.Write(putU32(nil, pngSize)); err != nil {
		return nil, fmt.Errorf("%w: PNG size: %v", ErrWritePayload, err)
	}
	if _, err := w.Write(png); err != nil {
		return nil, fmt.Errorf("%w: PNG: %v", ErrWritePayload, err)
	}

	return &Header{
		Format:           FormatJPT,
		Version:          JPTVersion,
		Dimensions:       jpegDimensions(jpg),
		UncompressedSize: total,
		CompressedSize:   total,
		PrimarySize:      jpgSize,
	}, nil
}

// DecodeJPT reads a JPT container and returns the JPEG as primary and the
// PNG as auxiliary blob.
func DecodeJPT(r io.Reader) (*Container, error) {
	if err := checkMagic(r, FormatJPT); err != nil {
		return nil, err
	}

	var version [1]byte
	if _, err := io.ReadFull(r, version[:]); err != nil {
		return nil, fmt.Errorf("%w: version truncated: %v", ErrCorruptData, err)
	}
	if version[0] > JPTVersion {
		return nil, fmt.Errorf("%w: JPT version %d, newest known %d", ErrUnsupportedVersion, version[0], JPTVersion)
	}

	jpg, err := readSizedBlob(r, "JPEG")
	if err != nil {
		return nil, err
	}
	png, err := readSizedBlob(r, "PNG")
	if err != nil {
		return nil, err
	}

	total, err := payloadTotal(len(jpg), len(png))
	if err != nil {
		return nil, err
	}
	return &Container{
		Header: Header{
			Format:           FormatJPT,
			Version:          version[0],
			Dimensions:       jpegDimensions(jpg),
			UncompressedSize: total,
			CompressedSize:   total,
			PrimarySize:      uint32(len(jpg)), // #nosec G115 -- read from a uint32 field.
		},
		Primary:   jpg,
		Auxiliary: png,
	}, nil
}

// payloadTotal sums the blob lengths; two uint32-sized blobs may overflow
// the 32-bit total.
func payloadTotal(primary, auxiliary int) (uint32, error) {
	total, err := u32FromInt(primary + auxiliary)
	if err != nil {
		return 0, fmt.Errorf("%w: %w: payload of %d bytes", ErrCorruptData, err, primary+auxiliary)
	}

	return total, nil
}

// readSizedBlob reads a uint32 length prefix and that many bytes.
func readSizedBlob(r io.Reader, name string) ([]byte, error) {
	var sz [4]byte
	if _, err := io.ReadFull(r, sz[:]); err != nil {
		return nil, fmt.Errorf("%w: %s size truncated: %v", ErrCorruptData, name, err)
	}

	size := binary.LittleEndian.Uint32(sz[:])
	var buf bytes.Buffer
	n, err := io.CopyN(&buf, r, int64(size))
	if err != nil {
		return nil, fmt.Errorf("%w: %s truncated: expected %d, got %d", ErrCorruptData, name, size, n)
	}

	return buf.Bytes(), nil
}

// jpegDimensions returns the JPEG frame size, or zero when data is not a JPEG.
func jpegDimensions(data []byte) Dimensions {
	var d Dimensions
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return d
	}
	w, errW := u32FromInt(cfg.Width)
	h, errH := u32FromInt(cfg.Height)
	if errW != nil || errH != nil {
		return d
	}
	binary.LittleEndian.PutUint32(d.RawWidth[:], w)
	binary.LittleEndian.PutUint32(d.RawHeight[:], h)

	return d
}
