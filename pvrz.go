package texpak

import "io"

// EncodePVRZ writes a PVRZ container. primary is a complete PVR v2 file whose
// header supplies the dimensions; a nil auxiliary leaves the auxiliary flag
// clear. PVRZ is always compressed: level is clamped to [1,9].
func EncodePVRZ(w io.Writer, primary, auxiliary []byte, level int) (*Header, error) {
	dims, err := ExtractDimensions(primary, LayoutPVRv2)
	if err != nil {
		return nil, err
	}

	return encodeFlagged(w, FormatPVRZ, dims, primary, auxiliary, ClampLevel(FormatPVRZ, level))
}

// DecodePVRZ reads a PVRZ container and returns its blobs.
func DecodePVRZ(r io.Reader) (*Container, error) {
	return decodeFlagged(r, FormatPVRZ)
}
