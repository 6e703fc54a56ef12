package texpak

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Split restores the primary and auxiliary blobs of a container into
// primaryOut and auxiliaryOut. The container is decoded and validated in
// full before any output is written. When the container holds no auxiliary
// blob, auxiliaryOut is not written and Result.Auxiliary is empty.
func Split(format Format, path, primaryOut, auxiliaryOut string) (*Result, error) {
	c, err := readContainer(format, path)
	if err != nil {
		return nil, err
	}

	hasAux := c.Header.HasAuxiliary()
	if hasAux && auxiliaryOut == "" {
		return nil, fmt.Errorf("%w: %q holds %d auxiliary bytes but no output path was given",
			ErrAuxiliaryRequired, path, len(c.Auxiliary))
	}

	// both outputs are staged before either is renamed into place
	staged := make([]*stagedFile, 0, 2)
	primaryFile, err := stageFile(primaryOut, blobFiller(primaryOut, c.Primary))
	if err != nil {
		return nil, err
	}
	staged = append(staged, primaryFile)

	res := &Result{Op: "split", Path: path, Header: c.Header, Primary: primaryOut}
	if hasAux {
		auxFile, err := stageFile(auxiliaryOut, blobFiller(auxiliaryOut, c.Auxiliary))
		if err != nil {
			discardStaged(staged)
			return nil, err
		}
		staged = append(staged, auxFile)
		res.Auxiliary = auxiliaryOut
	}

	if err := commitStaged(staged...); err != nil {
		return nil, err
	}

	return res, nil
}

// Read decodes the container at path, detecting its format from the magic.
func Read(path string) (*Container, error) {
	format, err := detectFile(path)
	if err != nil {
		return nil, err
	}

	return readContainer(format, path)
}

// ReadFormat decodes the container at path as the given format, without
// magic-based detection.
func ReadFormat(format Format, path string) (*Container, error) {
	return readContainer(format, path)
}

// ReadHeader returns the header of the container at path without keeping
// the payload. For JPT the payload is scanned to recover the JPEG size.
func ReadHeader(path string) (*Header, error) {
	format, err := detectFile(path)
	if err != nil {
		return nil, err
	}

	f, err := openContainer(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	if format == FormatJPT {
		c, err := DecodeJPT(f)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", path, err)
		}
		return &c.Header, nil
	}

	h, err := readFlaggedHeader(f, format)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}

	return h, nil
}

// Decode reads a container of the given format from r.
func Decode(format Format, r io.Reader) (*Container, error) {
	switch format {
	case FormatPVRZ:
		return DecodePVRZ(r)
	case FormatETCX:
		return DecodeETCX(r)
	case FormatJPT:
		return DecodeJPT(r)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}
}

func readContainer(format Format, path string) (*Container, error) {
	f, err := openContainer(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	c, err := Decode(format, f)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}

	return c, nil
}

func detectFile(path string) (Format, error) {
	f, err := openContainer(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer func() { _ = f.Close() }()

	format, err := Detect(f)
	if err != nil {
		return FormatUnknown, fmt.Errorf("%q: %w", path, err)
	}

	return format, nil
}

func openContainer(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}

	return f, nil
}

func blobFiller(path string, data []byte) func(w io.Writer) error {
	return func(w io.Writer) error {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrWritePayload, path, err)
		}
		return nil
	}
}
