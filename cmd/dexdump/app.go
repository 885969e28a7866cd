package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/release-utils/version"

	"github.com/arloliu/dex"
)

const (
	// ExitCodeSuccess is successful error code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag or argument error.
	ExitCodeFlagParseError

	// ExitCodeDecodeError is the exit code for I/O and decoding errors.
	ExitCodeDecodeError
)

// ErrDexdump is a parent error for all command errors.
var ErrDexdump = errors.New("dexdump")

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = fmt.Errorf("%w: parsing flags", ErrDexdump)

func usageError(_ *cli.Context, err error, _ bool) error {
	return fmt.Errorf("%w: %w", ErrFlagParse, err)
}

// fileArg returns the single FILE argument of a command.
func fileArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("%w: %s expects exactly one FILE argument, got %d", ErrFlagParse, c.Command.Name, c.NArg())
	}

	return c.Args().First(), nil
}

// newLogger builds a development logger that writes to w.
func newLogger(w io.Writer) *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.DebugLevel), zap.Development())
}

func printVersion(c *cli.Context) error {
	info := version.GetVersionInfo()
	_, err := fmt.Fprintln(c.App.Writer, info.String())
	return err
}

func newDexdumpApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "dexdump",
		Usage:     "Dump the structure of DEX files.",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:               "verbose",
				Usage:              "log decoding details to stderr",
				Aliases:            []string{"v"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "version",
				Usage:              "print version information and exit",
				Aliases:            []string{"V"},
				DisableDefaultText: true,
			},
		},
		HideHelpCommand: true,
		OnUsageError:    usageError,
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				dex.SetLogger(newLogger(c.App.ErrWriter))
			}

			return nil
		},
		After: func(c *cli.Context) error {
			if c.Bool("verbose") {
				dex.SetLogger(nil)
			}

			return nil
		},
		Action: func(c *cli.Context) error {
			if c.Bool("version") {
				return printVersion(c)
			}
			if c.NArg() > 0 {
				return fmt.Errorf("%w: unknown command %q", ErrFlagParse, c.Args().First())
			}

			return cli.ShowAppHelp(c)
		},
		Commands: []*cli.Command{
			headerCommand,
			mapCommand,
			classesCommand,
			handlersCommand,
			apkCommand,
		},
	}
}
