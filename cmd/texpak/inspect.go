package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/woozymasta/texpak"
)

type inspectReport struct {
	Path             string `json:"path"`
	Format           string `json:"format"`
	Version          uint8  `json:"version,omitempty"`
	Flags            uint32 `json:"flags"`
	Width            uint32 `json:"width"`
	Height           uint32 `json:"height"`
	HasAuxiliary     bool   `json:"has_auxiliary"`
	Compressed       bool   `json:"compressed"`
	UncompressedSize uint32 `json:"uncompressed_size"`
	CompressedSize   uint32 `json:"compressed_size"`
	PrimarySize      uint32 `json:"primary_size"`
	AuxiliarySize    uint32 `json:"auxiliary_size"`
	PrimaryXXH64     string `json:"primary_xxh64"`
	AuxiliaryXXH64   string `json:"auxiliary_xxh64,omitempty"`
	// ETC1PlaneSize is the ETC1 data size implied by the dimensions (ETCX only).
	ETC1PlaneSize uint64 `json:"etc1_plane_size,omitempty"`
}

func inspectCmd() *cli.Command {
	var (
		asJSON     bool
		formatName string
	)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Show the header and payload digests of a container",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print the report as JSON", Destination: &asJSON},
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "decode as PVRZ, ETCX or JPT instead of detecting from the magic",
				Destination: &formatName,
			},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: texpak inspect [--format NAME] FILE")
			}

			format := texpak.FormatUnknown
			if formatName != "" {
				var err error
				if format, err = texpak.ParseFormat(formatName); err != nil {
					return err
				}
			}

			report, err := buildReport(c.Args().First(), format)
			if err != nil {
				return err
			}
			if asJSON {
				return writeReportJSON(os.Stdout, report)
			}
			writeReportText(os.Stdout, report)
			return nil
		},
	}
}

// buildReport decodes path as format, or detects it when format is FormatUnknown.
func buildReport(path string, format texpak.Format) (*inspectReport, error) {
	var (
		cont *texpak.Container
		err  error
	)
	if format == texpak.FormatUnknown {
		cont, err = texpak.Read(path)
	} else {
		cont, err = texpak.ReadFormat(format, path)
	}
	if err != nil {
		return nil, err
	}

	h := cont.Header
	r := &inspectReport{
		Path:             path,
		Format:           h.Format.String(),
		Version:          h.Version,
		Flags:            h.Flags,
		Width:            h.Dimensions.Width(),
		Height:           h.Dimensions.Height(),
		HasAuxiliary:     h.HasAuxiliary(),
		Compressed:       h.Compressed(),
		UncompressedSize: h.UncompressedSize,
		CompressedSize:   h.CompressedSize,
		PrimarySize:      h.PrimarySize,
		AuxiliarySize:    h.AuxiliarySize(),
		PrimaryXXH64:     fmt.Sprintf("%016x", xxhash.Sum64(cont.Primary)),
	}
	if h.HasAuxiliary() {
		r.AuxiliaryXXH64 = fmt.Sprintf("%016x", xxhash.Sum64(cont.Auxiliary))
	}
	if h.Format == texpak.FormatETCX {
		r.ETC1PlaneSize = texpak.ETC1DataSize(r.Width, r.Height)
	}

	return r, nil
}

func writeReportJSON(w io.Writer, r *inspectReport) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeReportText(w io.Writer, r *inspectReport) {
	_, _ = fmt.Fprintf(w, "file:        %s\n", r.Path)
	_, _ = fmt.Fprintf(w, "format:      %s\n", r.Format)
	if r.Format == texpak.MagicJPT {
		_, _ = fmt.Fprintf(w, "version:     %d\n", r.Version)
	} else {
		_, _ = fmt.Fprintf(w, "flags:       0x%08x (aux=%t, compressed=%t)\n", r.Flags, r.HasAuxiliary, r.Compressed)
	}
	_, _ = fmt.Fprintf(w, "size:        %dx%d\n", r.Width, r.Height)
	_, _ = fmt.Fprintf(w, "payload:     %d bytes stored, %d bytes raw\n", r.CompressedSize, r.UncompressedSize)
	_, _ = fmt.Fprintf(w, "primary:     %d bytes, xxh64 %s\n", r.PrimarySize, r.PrimaryXXH64)
	if r.HasAuxiliary {
		_, _ = fmt.Fprintf(w, "auxiliary:   %d bytes, xxh64 %s\n", r.AuxiliarySize, r.AuxiliaryXXH64)
	}
	if r.ETC1PlaneSize != 0 {
		_, _ = fmt.Fprintf(w, "etc1 plane:  %d bytes expected\n", r.ETC1PlaneSize)
	}
}
