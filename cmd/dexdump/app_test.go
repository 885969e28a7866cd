package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/dex/format"
	"github.com/arloliu/dex/internal/testutil"
)

func runDexdump(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(append([]string{"dexdump"}, args...), &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func sampleFile(t *testing.T, ct format.CompressionType) string {
	t.Helper()
	return testutil.MakeTempDex(t, testutil.MakeDex(testutil.SampleDex()), ct)
}

func TestHeader(t *testing.T) {
	code, out, _ := runDexdump(t, "header", sampleFile(t, format.CompressionZstd))
	require.Equal(t, ExitCodeSuccess, code)
	require.Contains(t, out, "035")
	require.Contains(t, out, "0x12345678 (little)")
	require.Contains(t, out, "class_defs")
}

func TestMap(t *testing.T) {
	code, out, _ := runDexdump(t, "map", sampleFile(t, format.CompressionNone))
	require.Equal(t, ExitCodeSuccess, code)
	for _, want := range []string{"header_item", "class_def_item", "code_item", "class_data_item", "map_list"} {
		require.Contains(t, out, want)
	}
}

func TestClasses(t *testing.T) {
	code, out, _ := runDexdump(t, "classes", sampleFile(t, format.CompressionLZ4))
	require.Equal(t, ExitCodeSuccess, code)
	require.Contains(t, out, "class=type@4")
	require.Contains(t, out, "fields=3 methods=4")
	require.Contains(t, out, "field@5")
	require.Contains(t, out, "method@300")
	require.Contains(t, out, "no class data")
}

func TestHandlers(t *testing.T) {
	code, out, _ := runDexdump(t, "handlers", sampleFile(t, format.CompressionS2))
	require.Equal(t, ExitCodeSuccess, code)
	require.Contains(t, out, "method@12")
	require.Contains(t, out, "tries=4")
	require.Contains(t, out, "type@5 -> 0x0010, type@7 -> 0x0020")
	require.Contains(t, out, "type@300 -> 0x0030, <any> -> 0x0040")
	require.Contains(t, out, "<any> -> 0x0050")
	require.Contains(t, out, "tries=0")
}

func TestAPK(t *testing.T) {
	data := testutil.MakeDex(testutil.SampleDex())

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range []string{"classes.dex", "classes2.dex"} {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "app.apk")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	code, out, _ := runDexdump(t, "apk", path)
	require.Equal(t, ExitCodeSuccess, code)
	require.Contains(t, out, "classes2.dex")
	require.Contains(t, out, "deflate")
}

func TestVerbose(t *testing.T) {
	code, _, errOut := runDexdump(t, "-v", "map", sampleFile(t, format.CompressionNone))
	require.Equal(t, ExitCodeSuccess, code)
	require.Contains(t, errOut, "opened dex")
}

func TestVersion(t *testing.T) {
	code, out, _ := runDexdump(t, "--version")
	require.Equal(t, ExitCodeSuccess, code)
	require.Contains(t, out, "GitVersion")
}

func TestExitCodes(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.dex")
	require.NoError(t, os.WriteFile(bad, []byte("not a dex file"), 0o600))

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"missing file argument", []string{"header"}, ExitCodeFlagParseError},
		{"extra arguments", []string{"map", bad, bad}, ExitCodeFlagParseError},
		{"unknown flag", []string{"--bogus"}, ExitCodeFlagParseError},
		{"unknown command", []string{"disassemble", bad}, ExitCodeFlagParseError},
		{"missing file", []string{"header", filepath.Join(dir, "missing.dex")}, ExitCodeDecodeError},
		{"invalid dex", []string{"classes", bad}, ExitCodeDecodeError},
		{"not an apk", []string{"apk", bad}, ExitCodeDecodeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runDexdump(t, tt.args...)
			require.Equal(t, tt.code, code)
			require.Contains(t, errOut, "dexdump: ")
		})
	}
}
