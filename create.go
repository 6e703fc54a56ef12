package texpak

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// Result describes a completed create, merge or split.
type Result struct {
	// Op is "create", "merge" or "split".
	Op string
	// Path is the container path.
	Path   string
	Header Header
	// Primary and Auxiliary are the source paths (create, merge) or the
	// written output paths (split). Auxiliary is empty when no auxiliary
	// blob was involved.
	Primary   string
	Auxiliary string
	// Removed lists the source files deleted by RemoveSources.
	Removed []string
}

// String returns the human-readable status line.
func (r *Result) String() string {
	h := r.Header
	switch r.Op {
	case "split":
		if r.Auxiliary == "" {
			return fmt.Sprintf("%s split: %q -> %q", h.Format, r.Path, r.Primary)
		}
		return fmt.Sprintf("%s split: %q -> %q, %q", h.Format, r.Path, r.Primary, r.Auxiliary)
	default:
		return fmt.Sprintf("%s %s: %q (%dx%d, aux=%t, compressed=%t, %d -> %d bytes)",
			h.Format, r.Op, r.Path, h.Dimensions.Width(), h.Dimensions.Height(),
			h.HasAuxiliary(), h.Compressed(), h.UncompressedSize, h.CompressedSize)
	}
}

// CreateOptions configures container creation.
type CreateOptions struct {
	// Level is the zlib compression level, clamped per format (see
	// ClampLevel). 0 stores ETCX payloads uncompressed.
	Level int
}

// Create writes a container at output from the primary and auxiliary source
// files. Sources are left in place; see Merge and RemoveSources.
//
// auxiliary may be empty. For PVRZ and ETCX a missing auxiliary file is not
// an error: the container is written without one. JPT requires it. An
// auxiliary file that is itself a container of the same format contributes
// only its primary payload.
//
// The level is clamped per format (see ClampLevel). The container is written
// to a temp file and renamed into place, so a failure leaves no partial output.
func Create(format Format, output, primary, auxiliary string, level int) (*Result, error) {
	return CreateWithOptions(format, output, primary, auxiliary, &CreateOptions{Level: level})
}

// CreateWithOptions is Create with explicit options.
// Nil opts uses DefaultLevel.
func CreateWithOptions(format Format, output, primary, auxiliary string, opts *CreateOptions) (*Result, error) {
	level := DefaultLevel
	if opts != nil {
		level = opts.Level
	}
	if format != FormatPVRZ && format != FormatETCX && format != FormatJPT {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}

	primaryData, err := readSource(primary)
	if err != nil {
		return nil, err
	}

	auxData, err := readAuxiliary(format, auxiliary)
	if err != nil {
		return nil, err
	}
	if auxData == nil {
		auxiliary = ""
	}

	var hdr *Header
	err = writeFileAtomic(output, func(w io.Writer) error {
		var err error
		switch format {
		case FormatPVRZ:
			hdr, err = EncodePVRZ(w, primaryData, auxData, level)
		case FormatETCX:
			hdr, err = EncodeETCX(w, primaryData, auxData, level)
		case FormatJPT:
			hdr, err = EncodeJPT(w, primaryData, auxData)
		}
		if err != nil {
			return fmt.Errorf("%q: %w", output, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Op:        "create",
		Path:      output,
		Header:    *hdr,
		Primary:   primary,
		Auxiliary: auxiliary,
	}, nil
}

// Merge runs Create and then RemoveSources. The sources are deleted only
// after the container is fully written and renamed into place.
func Merge(format Format, output, primary, auxiliary string, level int) (*Result, error) {
	res, err := Create(format, output, primary, auxiliary, level)
	if err != nil {
		return nil, err
	}
	res.Op = "merge"

	if err := RemoveSources(res); err != nil {
		return res, err
	}

	return res, nil
}

// RemoveSources deletes the source files recorded in a create result.
// A source that is the container itself is kept, and an auxiliary naming
// the same file as the primary is removed once.
func RemoveSources(res *Result) error {
	if res == nil || res.Op == "split" {
		return nil
	}

	// resolve before removing: samePath needs both files to exist
	sources := make([]string, 0, 2)
	if res.Primary != "" && !samePath(res.Primary, res.Path) {
		sources = append(sources, res.Primary)
	}
	if res.Auxiliary != "" && !samePath(res.Auxiliary, res.Path) &&
		(res.Primary == "" || !samePath(res.Auxiliary, res.Primary)) {
		sources = append(sources, res.Auxiliary)
	}

	var errs []error
	for _, src := range sources {
		if err := os.Remove(src); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrRemoveSource, src, err))
			continue
		}
		res.Removed = append(res.Removed, src)
	}

	return errors.Join(errs...)
}

// readAuxiliary loads the auxiliary source. It returns nil data for an
// absent optional auxiliary and unwraps a same-format container.
func readAuxiliary(format Format, path string) ([]byte, error) {
	if path == "" {
		if format == FormatJPT {
			return nil, ErrAuxiliaryRequired
		}
		return nil, nil
	}

	data, err := readSource(path)
	if err != nil {
		if errors.Is(err, ErrSourceNotFound) && format != FormatJPT {
			return nil, nil
		}
		return nil, err
	}

	if format == FormatJPT || !bytes.HasPrefix(data, format.magic()) {
		return data, nil
	}

	c, err := decodeFlagged(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("auxiliary %q: %w", path, err)
	}
	if c.Primary == nil {
		return []byte{}, nil
	}

	return c.Primary, nil
}
