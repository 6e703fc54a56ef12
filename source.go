package texpak

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// SourceHeaderSize is the size of both supported PVR headers (13 uint32 fields).
const SourceHeaderSize = 13 * 4

// SourceLayout describes where a source image header keeps its dimensions.
// Offsets are fixed per layout and are never reordered: both PVR layouts
// store height before width, the reverse of the container header.
type SourceLayout struct {
	Name         string
	HeaderSize   int
	WidthOffset  int
	HeightOffset int
}

var (
	// LayoutPVRv2 is the legacy PVR header used by PVRZ sources:
	// headerSize, height, width, mipMapCount, ...
	LayoutPVRv2 = SourceLayout{Name: "PVRv2", HeaderSize: SourceHeaderSize, WidthOffset: 8, HeightOffset: 4}
	// LayoutPVRv3 is the PVR v3 header used by ETC1 sources of ETCX:
	// version, flags, pixelFormat(8), colourSpace, channelType, height, width, ...
	LayoutPVRv3 = SourceLayout{Name: "PVRv3", HeaderSize: SourceHeaderSize, WidthOffset: 28, HeightOffset: 24}
)

// Dimensions holds width and height exactly as stored in a source header.
type Dimensions struct {
	RawWidth  [4]byte
	RawHeight [4]byte
}

// Width interprets the raw width as a little-endian uint32.
func (d Dimensions) Width() uint32 { return binary.LittleEndian.Uint32(d.RawWidth[:]) }

// Height interprets the raw height as a little-endian uint32.
func (d Dimensions) Height() uint32 { return binary.LittleEndian.Uint32(d.RawHeight[:]) }

// ExtractDimensions slices width and height out of a source header.
func ExtractDimensions(header []byte, layout SourceLayout) (Dimensions, error) {
	if len(header) < layout.HeaderSize {
		return Dimensions{}, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrFormat, layout.Name, layout.HeaderSize, len(header))
	}

	var d Dimensions
	copy(d.RawWidth[:], header[layout.WidthOffset:layout.WidthOffset+4])
	copy(d.RawHeight[:], header[layout.HeightOffset:layout.HeightOffset+4])
	return d, nil
}

// ReadSourceHeader reads the dimensions from the header of a source file.
func ReadSourceHeader(path string, layout SourceLayout) (Dimensions, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Dimensions{}, fmt.Errorf("%w: %q", ErrSourceNotFound, path)
		}
		return Dimensions{}, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, layout.HeaderSize)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Dimensions{}, fmt.Errorf("%w: %q: %v", ErrReadFile, path, err)
	}

	d, err := ExtractDimensions(header[:n], layout)
	if err != nil {
		return Dimensions{}, fmt.Errorf("%q: %w", path, err)
	}

	return d, nil
}
