package texpak

import "errors"

var (
	// ErrSourceNotFound indicates a required input file does not exist.
	ErrSourceNotFound = errors.New("source not found")
	// ErrInvalidFormat indicates the container magic does not match.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrUnsupportedVersion indicates a container version newer than supported.
	ErrUnsupportedVersion = errors.New("unsupported version")
	// ErrCorruptData indicates truncated container data or a payload size mismatch.
	ErrCorruptData = errors.New("corrupt data")
	// ErrCompression indicates a malformed compressed stream or compressor failure.
	ErrCompression = errors.New("compression failed")
	// ErrFormat indicates a source file too short to hold its header.
	ErrFormat = errors.New("source header too short")
	// ErrSizeOverflow indicates a size exceeds the 32-bit fields of the format.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrUnknownFormat indicates an unknown container variant.
	ErrUnknownFormat = errors.New("unknown container format")
	// ErrAuxiliaryRequired indicates the variant needs an auxiliary payload.
	ErrAuxiliaryRequired = errors.New("auxiliary payload required")
	// ErrOpenFile indicates file open failed.
	ErrOpenFile = errors.New("open file failed")
	// ErrReadFile indicates file read failed.
	ErrReadFile = errors.New("read file failed")
	// ErrCreateFile indicates file creation failed.
	ErrCreateFile = errors.New("create file failed")
	// ErrWriteHeader indicates container header write failed.
	ErrWriteHeader = errors.New("writing container header failed")
	// ErrWritePayload indicates payload write failed.
	ErrWritePayload = errors.New("writing payload failed")
	// ErrCommitFile indicates flushing or renaming the output file failed.
	ErrCommitFile = errors.New("commit output file failed")
	// ErrRemoveSource indicates deleting a merged source file failed.
	ErrRemoveSource = errors.New("remove source failed")
)
