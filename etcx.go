package texpak

import "io"

// EncodeETCX writes an ETCX container. primary is an ETC1 texture in a PVR v3
// file, auxiliary the optional alpha plane (nil when absent). Level 0 stores
// the payload uncompressed.
func EncodeETCX(w io.Writer, primary, auxiliary []byte, level int) (*Header, error) {
	dims, err := ExtractDimensions(primary, LayoutPVRv3)
	if err != nil {
		return nil, err
	}

	return encodeFlagged(w, FormatETCX, dims, primary, auxiliary, ClampLevel(FormatETCX, level))
}

// DecodeETCX reads an ETCX container and returns its blobs.
func DecodeETCX(r io.Reader) (*Container, error) {
	return decodeFlagged(r, FormatETCX)
}

// ETC1DataSize returns the size of one ETC1 plane: 8 bytes per 4x4 block.
func ETC1DataSize(width, height uint32) uint64 {
	return uint64(width/4) * uint64(height/4) * 8
}
