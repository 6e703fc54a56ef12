package texpak

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// flaggedHeaderSize is magic, flags, width, height, uncompressedSize, compressedSize.
const flaggedHeaderSize = 6 * 4

// Header is the metadata of a container.
type Header struct {
	Format Format
	// Flags is the raw flag word; zero for JPT.
	Flags uint32
	// Version is the JPT version byte; zero for flagged variants.
	Version    uint8
	Dimensions Dimensions
	// UncompressedSize is the length of primary plus auxiliary.
	UncompressedSize uint32
	// CompressedSize is the stored payload length.
	CompressedSize uint32
	// PrimarySize is the length of the primary blob.
	PrimarySize uint32
}

// HasAuxiliary reports whether an auxiliary blob is stored.
func (h *Header) HasAuxiliary() bool {
	if h.Format == FormatJPT {
		return true
	}
	return h.Flags&FlagAuxiliary != 0
}

// Compressed reports whether the payload is zlib-compressed.
func (h *Header) Compressed() bool { return h.Flags&FlagCompressed != 0 }

// AuxiliarySize returns the length of the auxiliary blob.
func (h *Header) AuxiliarySize() uint32 { return h.UncompressedSize - h.PrimarySize }

// Container is a fully decoded container.
type Container struct {
	Header    Header
	Primary   []byte
	Auxiliary []byte
}

// payloadRecord is the sized payload of a flagged container.
type payloadRecord struct {
	UncompressedSize uint32
	CompressedSize   uint32
	Data             []byte
}

// buildRecord concatenates the blobs and deflates them when level > 0.
func buildRecord(primary, auxiliary []byte, level int) (*payloadRecord, error) {
	raw := make([]byte, 0, len(primary)+len(auxiliary))
	raw = append(raw, primary...)
	raw = append(raw, auxiliary...)

	size, err := u32FromInt(len(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: payload of %d bytes", err, len(raw))
	}
	if level == 0 {
		return &payloadRecord{UncompressedSize: size, CompressedSize: size, Data: raw}, nil
	}

	packed, err := Compress(raw, level)
	if err != nil {
		return nil, err
	}
	csize, err := u32FromInt(len(packed))
	if err != nil {
		return nil, fmt.Errorf("%w: compressed payload of %d bytes", err, len(packed))
	}

	return &payloadRecord{UncompressedSize: size, CompressedSize: csize, Data: packed}, nil
}

// encodeFlagged writes a PVRZ/ETCX container. A nil auxiliary leaves the
// auxiliary flag clear; an empty non-nil one is stored as present.
func encodeFlagged(w io.Writer, f Format, dims Dimensions, primary, auxiliary []byte, level int) (*Header, error) {
	hasAux := auxiliary != nil
	primarySize, err := u32FromInt(len(primary))
	if err != nil {
		return nil, fmt.Errorf("%w: primary of %d bytes", err, len(primary))
	}

	rec, err := buildRecord(primary, auxiliary, level)
	if err != nil {
		return nil, err
	}

	h := &Header{
		Format:           f,
		Dimensions:       dims,
		UncompressedSize: rec.UncompressedSize,
		CompressedSize:   rec.CompressedSize,
		PrimarySize:      primarySize,
	}
	if hasAux {
		h.Flags |= FlagAuxiliary
	}
	if level > 0 {
		h.Flags |= FlagCompressed
	}

	hdr := make([]byte, 0, flaggedHeaderSize+4)
	hdr = append(hdr, f.magic()...)
	hdr = putU32(hdr, h.Flags)
	hdr = append(hdr, dims.RawWidth[:]...)
	hdr = append(hdr, dims.RawHeight[:]...)
	hdr = putU32(hdr, rec.UncompressedSize)
	hdr = putU32(hdr, rec.CompressedSize)
	if hasAux {
		hdr = putU32(hdr, primarySize)
	}

	if _, err := w.Write(hdr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteHeader, err)
	}
	if _, err := w.Write(rec.Data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWritePayload, err)
	}

	return h, nil
}

// readFlaggedHeader reads and validates a flagged header, magic first.
func readFlaggedHeader(r io.Reader, f Format) (*Header, error) {
	if err := checkMagic(r, f); err != nil {
		return nil, err
	}

	var buf [flaggedHeaderSize - 4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("%w: header truncated: %v", ErrCorruptData, err)
	}

	h := &Header{
		Format:           f,
		Flags:            binary.LittleEndian.Uint32(buf[0:4]),
		UncompressedSize: binary.LittleEndian.Uint32(buf[12:16]),
		CompressedSize:   binary.LittleEndian.Uint32(buf[16:20]),
	}
	copy(h.Dimensions.RawWidth[:], buf[4:8])
	copy(h.Dimensions.RawHeight[:], buf[8:12])

	h.PrimarySize = h.UncompressedSize
	if h.HasAuxiliary() {
		var ps [4]byte
		if _, err := io.ReadFull(r, ps[:]); err != nil {
			return nil, fmt.Errorf("%w: primary size truncated: %v", ErrCorruptData, err)
		}
		h.PrimarySize = binary.LittleEndian.Uint32(ps[:])
		if h.PrimarySize > h.UncompressedSize {
			return nil, fmt.Errorf("%w: primary size %d exceeds payload size %d", ErrCorruptData, h.PrimarySize, h.UncompressedSize)
		}
	}
	if !h.Compressed() && h.CompressedSize != h.UncompressedSize {
		return nil, fmt.Errorf("%w: stored payload sizes differ: %d != %d", ErrCorruptData, h.UncompressedSize, h.CompressedSize)
	}

	return h, nil
}

// decodeFlagged reads a whole PVRZ/ETCX container.
func decodeFlagged(r io.Reader, f Format) (*Container, error) {
	h, err := readFlaggedHeader(r, f)
	if err != nil {
		return nil, err
	}

	var stored bytes.Buffer
	n, err := io.CopyN(&stored, r, int64(h.CompressedSize))
	if err != nil {
		return nil, fmt.Errorf("%w: payload truncated: expected %d, got %d", ErrCorruptData, h.CompressedSize, n)
	}

	raw := stored.Bytes()
	if h.Compressed() {
		raw, err = Decompress(raw, int(h.UncompressedSize))
		if err != nil {
			if errors.Is(err, ErrCorruptData) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", ErrCorruptData, err)
		}
	}

	c := &Container{Header: *h, Primary: raw[:h.PrimarySize:h.PrimarySize]}
	if h.HasAuxiliary() {
		c.Auxiliary = raw[h.PrimarySize:]
	}

	return c, nil
}
