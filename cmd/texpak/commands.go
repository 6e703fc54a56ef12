package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/woozymasta/texpak"
	"github.com/woozymasta/texpak/internal/logger"
)

func pvrzCmd() *cli.Command {
	return &cli.Command{
		Name:  "pvrz",
		Usage: "PVRZ containers (zlib-compressed PVR textures)",
		Commands: []*cli.Command{
			writeCmd(texpak.FormatPVRZ, "create", []string{"merge"},
				"creates a PVRZ file from a PVR file and an optional auxiliary file",
				"PVRZ_FILE PVR_FILE [AUX_FILE]", true),
			splitCmd(texpak.FormatPVRZ, "PVRZ_FILE PVR_FILE [AUX_FILE]", false),
		},
	}
}

func etcxCmd() *cli.Command {
	return &cli.Command{
		Name:  "etcx",
		Usage: "ETCX containers (ETC1 color with optional ETC1 alpha plane)",
		Commands: []*cli.Command{
			writeCmd(texpak.FormatETCX, "merge", []string{"create"},
				"merges an ETC1 and an optional ETC1 alpha file into an ETCX file",
				"ETCX_FILE ETC1_FILE [ETC1A_FILE]", true),
			splitCmd(texpak.FormatETCX, "ETCX_FILE ETC1_FILE [ETC1A_FILE]", false),
		},
	}
}

func jptCmd() *cli.Command {
	return &cli.Command{
		Name:  "jpt",
		Usage: "JPT containers (JPEG color with PNG alpha)",
		Commands: []*cli.Command{
			writeCmd(texpak.FormatJPT, "merge", []string{"create"},
				"merges a JPEG and a PNG file into a JPT file",
				"JPT_FILE JPEG_FILE PNG_FILE", false),
			splitCmd(texpak.FormatJPT, "JPT_FILE JPEG_FILE PNG_FILE", true),
		},
	}
}

// writeCmd builds a create/merge command. Sources are deleted after a
// successful write unless --keep is given.
func writeCmd(format texpak.Format, name string, aliases []string, usage, argsUsage string, withLevel bool) *cli.Command {
	var (
		level int
		keep  bool
	)

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "keep",
			Aliases:     []string{"k"},
			Usage:       "keep source files after writing the container",
			Destination: &keep,
		},
	}
	if withLevel {
		flags = append(flags, &cli.IntFlag{
			Name:        "level",
			Aliases:     []string{"l"},
			Usage:       fmt.Sprintf("zlib compression level, clamped to [%d,%d]", texpak.ClampLevel(format, texpak.MinLevel), texpak.MaxLevel),
			Value:       texpak.DefaultLevel,
			Destination: &level,
		})
	}

	minArgs := 2
	if format == texpak.FormatJPT {
		minArgs = 3
	}

	return &cli.Command{
		Name:      name,
		Aliases:   aliases,
		Usage:     usage,
		ArgsUsage: argsUsage,
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.NArg() < minArgs || c.NArg() > 3 {
				return fmt.Errorf("usage: texpak %s %s %s", format, name, argsUsage)
			}
			applyWriteConfig(c, globalOpts.config, &level, &keep)

			output, primary, auxiliary := c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)
			log := logger.FromContext(ctx).With("format", format.String(), "output", output)
			log.Debug("writing container", "primary", primary, "auxiliary", auxiliary, "level", level, "keep", keep)

			res, err := texpak.CreateWithOptions(format, output, primary, auxiliary, &texpak.CreateOptions{Level: level})
			if err != nil {
				return err
			}
			if auxiliary != "" && res.Auxiliary == "" {
				log.Warn("auxiliary source not found, container written without it", "auxiliary", auxiliary)
			}

			if !keep {
				res.Op = "merge"
				if err := texpak.RemoveSources(res); err != nil {
					return err
				}
				log.Info("sources removed", "files", res.Removed)
			}

			fmt.Println(res)
			return nil
		},
	}
}

func splitCmd(format texpak.Format, argsUsage string, auxRequired bool) *cli.Command {
	minArgs := 2
	if auxRequired {
		minArgs = 3
	}

	return &cli.Command{
		Name:      "split",
		Usage:     fmt.Sprintf("splits a %s file back into its source files", format),
		ArgsUsage: argsUsage,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.NArg() < minArgs || c.NArg() > 3 {
				return fmt.Errorf("usage: texpak %s split %s", format, argsUsage)
			}

			path, primary, auxiliary := c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)
			log := logger.FromContext(ctx).With("format", format.String(), "container", path)
			log.Debug("splitting container", "primary", primary, "auxiliary", auxiliary)

			res, err := texpak.Split(format, path, primary, auxiliary)
			if err != nil {
				return err
			}
			if auxiliary != "" && res.Auxiliary == "" {
				log.Info("container holds no auxiliary blob", "auxiliary", auxiliary)
			}

			fmt.Println(res)
			return nil
		},
	}
}
