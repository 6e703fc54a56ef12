package texpak

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// outputFileMode is applied to written containers and split outputs.
const outputFileMode = 0o644

// stagedFile is an output filled into a pending temp file next to its
// destination and not yet renamed into place.
type stagedFile struct {
	path string
	pf   *renameio.PendingFile
}

// stageFile fills a pending file for path. On failure the temp file is
// removed and path is left untouched.
func stageFile(path string, fill func(w io.Writer) error) (*stagedFile, error) {
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(outputFileMode))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}

	bw := bufio.NewWriter(pf)
	if err := fill(bw); err != nil {
		_ = pf.Cleanup()
		return nil, err
	}
	if err := bw.Flush(); err != nil {
		_ = pf.Cleanup()
		return nil, fmt.Errorf("%w: %q: %v", ErrCommitFile, path, err)
	}

	return &stagedFile{path: path, pf: pf}, nil
}

// discardStaged removes the temp files of staged outputs.
func discardStaged(files []*stagedFile) {
	for _, f := range files {
		_ = f.pf.Cleanup()
	}
}

// commitStaged renames staged outputs into place in order. If one fails,
// the remaining temp files are removed and outputs already renamed by this
// call are deleted again.
func commitStaged(files ...*stagedFile) error {
	for i, f := range files {
		if err := f.pf.CloseAtomicallyReplace(); err != nil {
			discardStaged(files[i:])
			for _, done := range files[:i] {
				_ = os.Remove(done.path)
			}
			return fmt.Errorf("%w: %q: %v", ErrCommitFile, f.path, err)
		}
	}

	return nil
}

// writeFileAtomic stages and commits a single output.
func writeFileAtomic(path string, fill func(w io.Writer) error) error {
	f, err := stageFile(path, fill)
	if err != nil {
		return err
	}

	return commitStaged(f)
}

// readSource reads a whole source file, mapping a missing file to ErrSourceNotFound.
func readSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("%w: %q: %v", ErrReadFile, path, err)
	}

	return data, nil
}

// samePath reports whether a and b name the same file.
func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ai, errA := os.Stat(a)
	bi, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(ai, bi)
}
