// Package errs defines the sentinel errors returned by the dex packages.
//
// Decoders wrap these with positional detail using fmt.Errorf and %w, so callers
// should match them with errors.Is rather than comparing error strings:
//
//	if errors.Is(err, errs.ErrOutOfData) {
//	    // the input was truncated
//	}
package errs

import "errors"

// Codec and cursor errors.
var (
	// ErrOutOfData indicates a read needed more bytes than remain in the slice.
	ErrOutOfData = errors.New("out of data")
	// ErrLeb128Overflow indicates a LEB128 value continues past the 64-bit limit.
	ErrLeb128Overflow = errors.New("leb128: overflow")
	// ErrInvalidCount indicates a negative element count was requested.
	ErrInvalidCount = errors.New("invalid element count")
	// ErrOffsetOutOfRange indicates an offset points outside of the buffer.
	ErrOffsetOutOfRange = errors.New("offset out of range")
)

// Container errors.
var (
	// ErrInvalidHeaderSize indicates the buffer is too short to hold a DEX header.
	ErrInvalidHeaderSize = errors.New("invalid header size")
	// ErrInvalidMagic indicates the buffer does not start with the DEX magic.
	ErrInvalidMagic = errors.New("invalid dex magic")
	// ErrInvalidEndianTag indicates the header carries an unknown endian tag.
	ErrInvalidEndianTag = errors.New("invalid endian tag")
	// ErrFileTooLarge indicates an input exceeds the configured maximum size.
	ErrFileTooLarge = errors.New("file too large")
)

// Loader errors.
var (
	// ErrUnsupportedCompression indicates an unknown compression type or extension.
	ErrUnsupportedCompression = errors.New("unsupported compression")
	// ErrNoDexEntries indicates an APK archive holds no classes*.dex entries.
	ErrNoDexEntries = errors.New("no dex entries")
	// ErrDuplicateEntry indicates an archive lists the same entry name twice.
	ErrDuplicateEntry = errors.New("duplicate dex entry")
	// ErrInvalidEntryName indicates an empty archive entry name.
	ErrInvalidEntryName = errors.New("invalid entry name")
)
