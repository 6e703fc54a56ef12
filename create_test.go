package texpak

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateSplitEndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	primary := make([]byte, 1024)
	auxiliary := bytes.Repeat([]byte{0xFF}, 256)

	primaryPath := filepath.Join(dir, "color.pvr")
	auxPath := filepath.Join(dir, "alpha.pvr")
	out := filepath.Join(dir, "tex.etcx")
	writeFile(t, primaryPath, primary)
	writeFile(t, auxPath, auxiliary)

	res, err := Create(FormatETCX, out, primaryPath, auxPath, 6)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !res.Header.Compressed() || !res.Header.HasAuxiliary() {
		t.Fatalf("unexpected flags 0x%x", res.Header.Flags)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() >= int64(len(primary)+len(auxiliary)+flaggedHeaderSize+4) {
		t.Fatalf("container of %d bytes is not compressed", info.Size())
	}

	// Create keeps the sources
	for _, p := range []string{primaryPath, auxPath} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("source %s removed by Create: %v", p, err)
		}
	}

	gotPrimary := filepath.Join(dir, "out_color.pvr")
	gotAux := filepath.Join(dir, "out_alpha.pvr")
	split, err := Split(FormatETCX, out, gotPrimary, gotAux)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if split.Auxiliary != gotAux {
		t.Fatalf("unexpected split result %+v", split)
	}
	if !bytes.Equal(readFile(t, gotPrimary), primary) {
		t.Fatalf("primary mismatch")
	}
	if !bytes.Equal(readFile(t, gotAux), auxiliary) {
		t.Fatalf("auxiliary mismatch")
	}
}

func TestCreateMissingAuxiliary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	primaryPath := filepath.Join(dir, "color.pvr")
	writeFile(t, primaryPath, pvrFile(LayoutPVRv2, 8, 8, patterned(256)))
	out := filepath.Join(dir, "tex.pvrz")

	res, err := Create(FormatPVRZ, out, primaryPath, filepath.Join(dir, "missing.pvr"), 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Header.HasAuxiliary() || res.Auxiliary != "" {
		t.Fatalf("auxiliary recorded for a missing file: %+v", res)
	}

	gotAux := filepath.Join(dir, "alpha.out")
	split, err := Split(FormatPVRZ, out, filepath.Join(dir, "color.out"), gotAux)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if split.Auxiliary != "" {
		t.Fatalf("unexpected auxiliary output %q", split.Auxiliary)
	}
	if _, err := os.Stat(gotAux); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("auxiliary output written: %v", err)
	}
}

func TestCreateErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	short := filepath.Join(dir, "short.pvr")
	writeFile(t, short, make([]byte, 20))
	jpg := filepath.Join(dir, "color.jpg")
	writeFile(t, jpg, []byte{0xFF, 0xD8, 0xFF, 0xD9})

	tests := []struct {
		name    string
		format  Format
		primary string
		aux     string
		wantErr error
	}{
		{name: "missing-primary", format: FormatETCX, primary: filepath.Join(dir, "nope.pvr"), wantErr: ErrSourceNotFound},
		{name: "short-header", format: FormatPVRZ, primary: short, wantErr: ErrFormat},
		{name: "jpt-missing-png", format: FormatJPT, primary: jpg, aux: filepath.Join(dir, "nope.png"), wantErr: ErrSourceNotFound},
		{name: "jpt-no-png", format: FormatJPT, primary: jpg, wantErr: ErrAuxiliaryRequired},
		{name: "unknown-format", format: FormatUnknown, primary: jpg, wantErr: ErrUnknownFormat},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out := filepath.Join(dir, tc.name+".out")
			_, err := Create(tc.format, out, tc.primary, tc.aux, 6)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
				t.Fatalf("output left behind after failure: %v", err)
			}
		})
	}
}

func TestMergeRemovesSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	primaryPath := filepath.Join(dir, "color.pvr")
	auxPath := filepath.Join(dir, "alpha.pvr")
	src := pvrFile(LayoutPVRv3, 16, 16, patterned(128))
	writeFile(t, primaryPath, src)
	writeFile(t, auxPath, patterned(128))
	out := filepath.Join(dir, "tex.etcx")

	res, err := Merge(FormatETCX, out, primaryPath, auxPath, 9)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(res.Removed) != 2 {
		t.Fatalf("unexpected removed list %v", res.Removed)
	}
	for _, p := range []string{primaryPath, auxPath} {
		if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("source %s still exists: %v", p, err)
		}
	}

	c, err := Read(out)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(c.Primary, src) || !bytes.Equal(c.Auxiliary, patterned(128)) {
		t.Fatalf("merged payload mismatch")
	}
}

func TestMergeFailureKeepsSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	primaryPath := filepath.Join(dir, "color.pvr")
	writeFile(t, primaryPath, pvrFile(LayoutPVRv3, 4, 4, nil))

	out := filepath.Join(dir, "no-such-dir", "tex.etcx")
	if _, err := Merge(FormatETCX, out, primaryPath, "", 6); !errors.Is(err, ErrCreateFile) {
		t.Fatalf("expected ErrCreateFile, got %v", err)
	}
	if _, err := os.Stat(primaryPath); err != nil {
		t.Fatalf("source removed after failed merge: %v", err)
	}
}

func TestMergeInPlaceKeepsContainer(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "tex.pvr")
	src := pvrFile(LayoutPVRv2, 4, 4, patterned(64))
	writeFile(t, path, src)

	res, err := Merge(FormatPVRZ, path, path, "", 6)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(res.Removed) != 0 {
		t.Fatalf("container removed as source: %v", res.Removed)
	}

	c, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(c.Primary, src) {
		t.Fatalf("payload mismatch")
	}
}

func TestCreateUnwrapsAuxiliaryContainer(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	alpha := pvrFile(LayoutPVRv3, 8, 8, patterned(96))

	// alpha plane previously packed on its own
	alphaSrc := filepath.Join(dir, "alpha.pvr")
	alphaContainer := filepath.Join(dir, "alpha.etcx")
	writeFile(t, alphaSrc, alpha)
	if _, err := Create(FormatETCX, alphaContainer, alphaSrc, "", 3); err != nil {
		t.Fatalf("Create alpha: %v", err)
	}

	colorSrc := filepath.Join(dir, "color.pvr")
	writeFile(t, colorSrc, pvrFile(LayoutPVRv3, 8, 8, patterned(48)))
	out := filepath.Join(dir, "tex.etcx")
	if _, err := Create(FormatETCX, out, colorSrc, alphaContainer, 0); err != nil {
		t.Fatalf("Create: %v", err)
	}

	c, err := Read(out)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(c.Auxiliary, alpha) {
		t.Fatalf("auxiliary container was not unwrapped")
	}
}

func TestSplitValidatesBeforeWriting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	primaryPath := filepath.Join(dir, "color.pvr")
	writeFile(t, primaryPath, pvrFile(LayoutPVRv3, 4, 4, make([]byte, 512)))
	out := filepath.Join(dir, "tex.etcx")
	if _, err := Create(FormatETCX, out, primaryPath, "", 6); err != nil {
		t.Fatalf("Create: %v", err)
	}

	data := readFile(t, out)
	data[len(data)-2] ^= 0xFF
	writeFile(t, out, data)

	gotPrimary := filepath.Join(dir, "color.out")
	_, err := Split(FormatETCX, out, gotPrimary, filepath.Join(dir, "alpha.out"))
	if !errors.Is(err, ErrCorruptData) {
		t.Fatalf("expected ErrCorruptData, got %v", err)
	}
	if _, err := os.Stat(gotPrimary); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("partial output written: %v", err)
	}
}

func TestSplitErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bogus := filepath.Join(dir, "bogus.etcx")
	writeFile(t, bogus, []byte("DDS |garbage"))

	if _, err := Split(FormatETCX, bogus, filepath.Join(dir, "a"), filepath.Join(dir, "b")); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
	if _, err := Split(FormatETCX, filepath.Join(dir, "missing.etcx"), "a", "b"); !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}

	primaryPath := filepath.Join(dir, "color.pvr")
	auxPath := filepath.Join(dir, "alpha.pvr")
	writeFile(t, primaryPath, pvrFile(LayoutPVRv3, 4, 4, nil))
	writeFile(t, auxPath, []byte{1, 2, 3})
	out := filepath.Join(dir, "tex.etcx")
	if _, err := Create(FormatETCX, out, primaryPath, auxPath, 0); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := Split(FormatETCX, out, filepath.Join(dir, "c.out"), ""); !errors.Is(err, ErrAuxiliaryRequired) {
		t.Fatalf("expected ErrAuxiliaryRequired, got %v", err)
	}
}

func TestReadHeader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	primaryPath := filepath.Join(dir, "color.pvr")
	writeFile(t, primaryPath, pvrFile(LayoutPVRv2, 512, 256, patterned(300)))
	out := filepath.Join(dir, "tex.pvrz")
	if _, err := Create(FormatPVRZ, out, primaryPath, "", 9); err != nil {
		t.Fatalf("Create: %v", err)
	}

	h, err := ReadHeader(out)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Format != FormatPVRZ || h.Dimensions.Width() != 512 || h.Dimensions.Height() != 256 {
		t.Fatalf("unexpected header %+v", h)
	}
	if h.UncompressedSize != SourceHeaderSize+300 || !h.Compressed() {
		t.Fatalf("unexpected sizes/flags %+v", h)
	}
}

func TestResultString(t *testing.T) {
	t.Parallel()

	res := &Result{
		Op:      "merge",
		Path:    "tex.etcx",
		Primary: "color.pvr",
		Header:  Header{Format: FormatETCX, Flags: FlagCompressed, UncompressedSize: 100, CompressedSize: 10},
	}
	want := `ETCX merge: "tex.etcx" (0x0, aux=false, compressed=true, 100 -> 10 bytes)`
	if got := res.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}

	res = &Result{Op: "split", Path: "a.jpt", Primary: "a.jpg", Auxiliary: "a.png", Header: Header{Format: FormatJPT}}
	want = `JPT split: "a.jpt" -> "a.jpg", "a.png"`
	if got := res.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestCreateWithNilOptions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	primaryPath := filepath.Join(dir, "color.pvr")
	writeFile(t, primaryPath, pvrFile(LayoutPVRv3, 8, 8, make([]byte, 512)))
	out := filepath.Join(dir, "tex.etcx")

	res, err := CreateWithOptions(FormatETCX, out, primaryPath, "", nil)
	if err != nil {
		t.Fatalf("CreateWithOptions: %v", err)
	}
	if !res.Header.Compressed() {
		t.Fatalf("nil options must compress at the default level, flags 0x%x", res.Header.Flags)
	}

	stored := filepath.Join(dir, "stored.etcx")
	res, err = CreateWithOptions(FormatETCX, stored, primaryPath, "", &CreateOptions{Level: 0})
	if err != nil {
		t.Fatalf("CreateWithOptions: %v", err)
	}
	if res.Header.Compressed() {
		t.Fatalf("level 0 must store, flags 0x%x", res.Header.Flags)
	}
}

func TestMergeSameFileForBothSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "color.pvr")
	src := pvrFile(LayoutPVRv3, 4, 4, patterned(64))
	writeFile(t, path, src)
	out := filepath.Join(dir, "tex.etcx")

	res, err := Merge(FormatETCX, out, path, path, 6)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(res.Removed) != 1 || res.Removed[0] != path {
		t.Fatalf("unexpected removed list %v", res.Removed)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("source still exists: %v", err)
	}

	c, err := Read(out)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(c.Primary, src) || !bytes.Equal(c.Auxiliary, src) {
		t.Fatalf("merged payload mismatch")
	}
}

func TestSplitAuxiliaryFailureLeavesNoOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	primaryPath := filepath.Join(dir, "color.pvr")
	auxPath := filepath.Join(dir, "alpha.pvr")
	writeFile(t, primaryPath, pvrFile(LayoutPVRv3, 4, 4, patterned(32)))
	writeFile(t, auxPath, patterned(32))
	out := filepath.Join(dir, "tex.etcx")
	if _, err := Create(FormatETCX, out, primaryPath, auxPath, 6); err != nil {
		t.Fatalf("Create: %v", err)
	}

	gotPrimary := filepath.Join(dir, "color.out")
	gotAux := filepath.Join(dir, "no-such-dir", "alpha.out")
	if _, err := Split(FormatETCX, out, gotPrimary, gotAux); !errors.Is(err, ErrCreateFile) {
		t.Fatalf("expected ErrCreateFile, got %v", err)
	}
	if _, err := os.Stat(gotPrimary); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("primary output written despite auxiliary failure: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}
