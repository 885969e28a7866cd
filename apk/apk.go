// Package apk reads the DEX files packed in an Android APK.
//
// An APK is a zip archive holding the manifest, resources and one or more DEX files
// named classes.dex, classes2.dex, classes3.dex and so on. The Reader only looks at those
// DEX entries. Each one is read into its own buffer, fingerprinted with xxHash64 and
// opened with dex.Open.
//
//	r, err := apk.Open("app.apk")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	entries, err := r.Entries()
//	for _, e := range entries {
//	    fmt.Println(e.Name, len(e.File.ClassDefs()))
//	}
package apk

import (
	"cmp"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"

	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"

	"github.com/arloliu/dex"
	"github.com/arloliu/dex/compress"
	"github.com/arloliu/dex/errs"
	"github.com/arloliu/dex/internal/collision"
	"github.com/arloliu/dex/internal/hash"
)

var dexEntryName = regexp.MustCompile(`^classes(\d*)\.dex$`)

// Entry is one DEX file found in the archive.
type Entry struct {
	Name           string
	Size           uint64 // uncompressed size
	CompressedSize uint64
	Method         uint16 // zip compression method
	Fingerprint    uint64
	// DuplicateOf names an earlier entry with identical contents, or is empty.
	DuplicateOf string
	File        *dex.File
}

// Stats returns the zip compression figures of the entry.
func (e *Entry) Stats() compress.CompressionStats {
	return compress.CompressionStats{
		OriginalSize:   int64(e.Size),           //nolint:gosec
		CompressedSize: int64(e.CompressedSize), //nolint:gosec
	}
}

// MethodName returns a readable name for the zip compression method.
func (e *Entry) MethodName() string {
	switch e.Method {
	case zip.Store:
		return "store"
	case zip.Deflate:
		return "deflate"
	default:
		return "method(" + strconv.Itoa(int(e.Method)) + ")"
	}
}

// Reader enumerates the DEX entries of an APK.
type Reader struct {
	zr     *zip.Reader
	closer io.Closer
	cfg    *Config
	name   string
}

// Open opens the APK at path. The caller must Close the Reader.
func Open(path string, opts ...Option) (*Reader, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening apk %s: %w", path, err)
	}

	return &Reader{zr: &rc.Reader, closer: rc, cfg: cfg, name: path}, nil
}

// NewReader reads an APK of the given size from r.
func NewReader(r io.ReaderAt, size int64, opts ...Option) (*Reader, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("reading apk: %w", err)
	}

	return &Reader{zr: zr, cfg: cfg, name: "<reader>"}, nil
}

// Close releases the underlying file, if the Reader opened one.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}

	return r.closer.Close()
}

// DexNames returns the names of the DEX entries in load order: classes.dex first, then
// classes2.dex, classes3.dex and so on.
func (r *Reader) DexNames() []string {
	files := r.dexFiles()
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}

	return names
}

// Entries reads and opens every DEX entry.
//
// Returns:
//   - []Entry: Entries in load order
//   - error: errs.ErrNoDexEntries if the archive has none, errs.ErrDuplicateEntry if an
//     entry name appears twice, errs.ErrFileTooLarge for oversized entries, or any
//     error from dex.Open
func (r *Reader) Entries() ([]Entry, error) {
	files := r.dexFiles()
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", errs.ErrNoDexEntries, r.name)
	}

	r.cfg.logger.Debug("scanning apk", zap.String("apk", r.name), zap.Int("entries", len(r.zr.File)), zap.Int("dex_entries", len(files)))

	tracker := collision.NewTracker()
	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		data, err := r.read(f)
		if err != nil {
			return nil, err
		}

		e := Entry{
			Name:           f.Name,
			Size:           f.UncompressedSize64,
			CompressedSize: f.CompressedSize64,
			Method:         f.Method,
			Fingerprint:    hash.Fingerprint(data),
		}
		if e.DuplicateOf, err = tracker.Track(e.Name, e.Fingerprint); err != nil {
			return nil, fmt.Errorf("%s: %w", r.name, err)
		}
		if e.File, err = dex.Open(data, dex.WithLogger(r.cfg.logger)); err != nil {
			return nil, fmt.Errorf("%s!%s: %w", r.name, f.Name, err)
		}

		r.cfg.logger.Debug("dex entry",
			zap.String("name", e.Name),
			zap.Uint64("size", e.Size),
			zap.String("method", e.MethodName()),
			zap.String("fingerprint", hash.FormatFingerprint(e.Fingerprint)),
			zap.String("duplicate_of", e.DuplicateOf),
		)
		entries = append(entries, e)
	}

	return entries, nil
}

func (r *Reader) read(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > uint64(r.cfg.maxEntrySize) { //nolint:gosec
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", errs.ErrFileTooLarge, f.Name, f.UncompressedSize64, r.cfg.maxEntrySize)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()

	// The header size is not trusted; the read stays bounded by the limit.
	data, err := io.ReadAll(io.LimitReader(rc, r.cfg.maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Name, err)
	}
	if int64(len(data)) > r.cfg.maxEntrySize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", errs.ErrFileTooLarge, f.Name, r.cfg.maxEntrySize)
	}

	return data, nil
}

func (r *Reader) dexFiles() []*zip.File {
	var files []*zip.File
	for _, f := range r.zr.File {
		if dexEntryName.MatchString(f.Name) {
			files = append(files, f)
		}
	}

	slices.SortStableFunc(files, func(a, b *zip.File) int {
		return cmp.Compare(dexIndex(a.Name), dexIndex(b.Name))
	})

	return files
}

// dexIndex returns 1 for classes.dex and N for classesN.dex.
func dexIndex(name string) int {
	m := dexEntryName.FindStringSubmatch(name)
	if m == nil || m[1] == "" {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 1
	}

	return n
}
