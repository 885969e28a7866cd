package compress

// ZstdCompressor handles Zstandard frames, the format produced by the zstd command line
// tool. Build with the gozstd tag (and cgo) to use the libzstd bindings instead of the
// pure-Go implementation; both read and write the same frame format.
type ZstdCompressor struct{}

const (
	// zstdLevel is the libzstd compression level used by the gozstd build.
	zstdLevel = 3
	// maxDecodedSize caps the output of a single decompression. Loaders apply their own,
	// usually smaller, limit on top.
	maxDecodedSize = 1 << 30
)

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
