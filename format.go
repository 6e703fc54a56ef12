package texpak

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Format identifies a container variant.
type Format int

const (
	// FormatUnknown is the zero value.
	FormatUnknown Format = iota
	// FormatPVRZ is a zlib-compressed PVR texture with optional auxiliary blob.
	FormatPVRZ
	// FormatETCX is an ETC1 texture with optional alpha plane and optional compression.
	FormatETCX
	// FormatJPT is a JPEG color image with a PNG alpha image.
	FormatJPT
)

const (
	// MagicPVRZ is the PVRZ container tag.
	MagicPVRZ = "PVRZ"
	// MagicETCX is the ETCX container tag.
	MagicETCX = "ETCX"
	// MagicJPT is the JPT container tag, followed by one version byte.
	MagicJPT = "JPT"

	// JPTVersion is the newest JPT version this package reads and the one it writes.
	JPTVersion = 1

	// FlagAuxiliary marks a container holding an auxiliary blob.
	FlagAuxiliary uint32 = 1 << 0
	// FlagCompressed marks a zlib-compressed payload.
	FlagCompressed uint32 = 1 << 1

	// MinLevel and MaxLevel bound zlib compression levels; 0 stores.
	MinLevel = 0
	MaxLevel = 9
	// MinLevelPVRZ is the lowest level for PVRZ, which is always compressed.
	MinLevelPVRZ = 1
	// DefaultLevel is used by the CLI when no level is configured.
	DefaultLevel = 6
)

// String returns the variant tag.
func (f Format) String() string {
	switch f {
	case FormatPVRZ:
		return MagicPVRZ
	case FormatETCX:
		return MagicETCX
	case FormatJPT:
		return MagicJPT
	default:
		return "UNKNOWN"
	}
}

// ParseFormat maps a case-insensitive tag to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(s) {
	case MagicPVRZ:
		return FormatPVRZ, nil
	case MagicETCX:
		return FormatETCX, nil
	case MagicJPT:
		return FormatJPT, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// magic returns the tag bytes checked at offset 0.
func (f Format) magic() []byte {
	switch f {
	case FormatPVRZ:
		return []byte(MagicPVRZ)
	case FormatETCX:
		return []byte(MagicETCX)
	case FormatJPT:
		return []byte(MagicJPT)
	default:
		return nil
	}
}

// ClampLevel clamps a compression level into the range of the variant.
// PVRZ never stores, so its floor is 1. JPT is never compressed and
// always yields 0.
func ClampLevel(f Format, level int) int {
	lo := MinLevel
	switch f {
	case FormatPVRZ:
		lo = MinLevelPVRZ
	case FormatJPT:
		return 0
	}
	if level < lo {
		return lo
	}
	if level > MaxLevel {
		return MaxLevel
	}

	return level
}

// Detect identifies the variant from the leading bytes of r.
// At most 4 bytes are consumed.
func Detect(r io.Reader) (Format, error) {
	var tag [4]byte
	n, err := io.ReadFull(r, tag[:])
	if err != nil && err != io.ErrUnexpectedEOF {
		return FormatUnknown, fmt.Errorf("%w: %q: %v", ErrInvalidFormat, tag[:n], err)
	}

	switch {
	case bytes.Equal(tag[:n], []byte(MagicPVRZ)):
		return FormatPVRZ, nil
	case bytes.Equal(tag[:n], []byte(MagicETCX)):
		return FormatETCX, nil
	case n == 4 && bytes.Equal(tag[:3], []byte(MagicJPT)):
		return FormatJPT, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", ErrInvalidFormat, tag[:n])
	}
}

// checkMagic reads len(magic) bytes and compares them with the tag of f.
func checkMagic(r io.Reader, f Format) error {
	want := f.magic()
	got := make([]byte, len(want))
	n, err := io.ReadFull(r, got)
	if err != nil || !bytes.Equal(got, want) {
		return fmt.Errorf("%w: expected %q, got %q", ErrInvalidFormat, want, got[:n])
	}

	return nil
}
