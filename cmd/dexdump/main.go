// Command dexdump prints the structure of DEX files and the DEX entries of APKs.
//
// Usage:
//
//	dexdump [-v] header FILE
//	dexdump [-v] map FILE
//	dexdump [-v] classes FILE
//	dexdump [-v] handlers FILE
//	dexdump [-v] apk FILE.apk
//
// FILE may be a plain .dex or a whole-file compressed .dex.zst, .dex.lz4, .dex.s2 or
// .dex.gz.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	app := newDexdumpApp(stdout, stderr)
	if err := app.Run(args); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", app.Name, err)
		if errors.Is(err, ErrFlagParse) {
			return ExitCodeFlagParseError
		}

		return ExitCodeDecodeError
	}

	return ExitCodeSuccess
}
