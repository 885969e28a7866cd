// Package compress provides the codecs used to read compressed DEX files.
//
// DEX files are often archived or shipped compressed as a whole (classes.dex.zst,
// classes.dex.lz4). The decoders in this module work on a plain byte slice, so loaders
// decompress the complete file first and then hand the result to dex.Open.
//
// # Overview
//
// Each codec handles the container format written by the corresponding command line
// tool, so files produced outside of Go load without conversion:
//   - None: plain .dex files, passed through without copying
//   - Zstd: Zstandard frames (.zst, .zstd)
//   - S2: S2 streams (.s2), which also accept Snappy framed streams
//   - LZ4: LZ4 frames (.lz4)
//   - Gzip: gzip members (.gz)
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Selecting a codec
//
// ForPath picks a codec from a file name:
//
//	codec, ct, err := compress.ForPath("classes.dex.zst")
//	if err != nil {
//	    return err
//	}
//	dexBytes, err := codec.Decompress(raw)
//
// GetCodec returns the same codecs keyed by format.CompressionType.
//
// # Zstd backends
//
// The default build uses github.com/klauspost/compress/zstd. Building with
//
//	go build -tags gozstd
//
// and cgo enabled switches to github.com/valyala/gozstd, which binds libzstd. Both
// produce and accept standard Zstandard frames.
//
// # Resource use
//
// Encoders and decoders are pooled with sync.Pool and all codecs are safe for concurrent
// use. A single decompression never returns more than 1 GiB; inputs that expand beyond
// that fail instead of exhausting memory.
package compress
