package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/arloliu/dex/apk"
	"github.com/arloliu/dex/internal/hash"
)

var apkCommand = &cli.Command{
	Name:         "apk",
	Usage:        "list the DEX entries of an APK",
	ArgsUsage:    "FILE.apk",
	OnUsageError: usageError,
	Action: func(c *cli.Context) error {
		path, err := fileArg(c)
		if err != nil {
			return err
		}

		r, err := apk.Open(path)
		if err != nil {
			return err
		}
		defer r.Close()

		entries, err := r.Entries()
		if err != nil {
			return err
		}

		tbl := newTable(c.App.Writer, "Entry", "Method", "Size", "Compressed", "Ratio", "Fingerprint", "Classes", "Duplicate Of")
		for i := range entries {
			e := &entries[i]
			dup := "-"
			if e.DuplicateOf != "" {
				dup = e.DuplicateOf
			}
			tbl.AddRow(
				e.Name,
				e.MethodName(),
				e.Size,
				e.CompressedSize,
				fmt.Sprintf("%.2f", e.Stats().CompressionRatio()),
				hash.FormatFingerprint(e.Fingerprint),
				len(e.File.ClassDefs()),
				dup,
			)
		}
		tbl.Print()

		return nil
	},
}
