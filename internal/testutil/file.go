package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/dex/compress"
	"github.com/arloliu/dex/format"
)

// MakeTempDex writes data to a file in a test temp directory, compressed with ct, and
// returns its path. The file name carries the matching extension.
func MakeTempDex(t *testing.T, data []byte, ct format.CompressionType) string {
	t.Helper()

	codec, err := compress.GetCodec(ct)
	if err != nil {
		t.Fatal(err)
	}
	payload, err := codec.Compress(data)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "classes.dex"+ct.Extension())
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}
