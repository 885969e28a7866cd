// Package dex reads Dalvik Executable (DEX) files without copying them.
//
// A File wraps the caller's byte slice. Open decodes the header, the section map and the
// class definitions up front; everything else is decoded on request from offsets found in
// those structures. Index fields (class, type, method) are returned as numbers and never
// resolved against the ID tables.
//
// # Basic Usage
//
// Opening a file already in memory:
//
//	f, err := dex.Open(data)
//	if err != nil {
//	    return err
//	}
//
//	for _, def := range f.ClassDefs() {
//	    if !def.HasClassData() {
//	        continue
//	    }
//	    cd, err := f.ClassData(def.ClassDataOff)
//	    if err != nil {
//	        return err
//	    }
//	    for m := range cd.Methods() {
//	        fmt.Printf("method@%d code_off=0x%x\n", m.MethodIdx, m.CodeOff)
//	    }
//	}
//
// Loading from disk, with whole-file decompression picked from the extension:
//
//	f, err := dex.Load("classes.dex.zst")
//
// # Package Structure
//
// The decoders live in their own packages and can be used directly on any slice:
//   - leb128: LEB128 codecs
//   - cursor: position tracking over an immutable slice
//   - encoded: the decode-with-context contract, item arrays and catch handler tables
//   - section: header, map_list and class_def_item
//   - classdata: class_data_item
//   - code: code_item with tries and handlers
package dex

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/dex/classdata"
	"github.com/arloliu/dex/code"
	"github.com/arloliu/dex/endian"
	"github.com/arloliu/dex/errs"
	"github.com/arloliu/dex/internal/hash"
	"github.com/arloliu/dex/internal/logging"
	"github.com/arloliu/dex/section"
)

// File is an opened DEX file. It is immutable and safe for concurrent use.
type File struct {
	data      []byte
	header    section.Header
	mapList   section.MapList
	classDefs []section.ClassDef
}

// Open decodes the header, map_list and class_defs of a DEX image.
//
// The returned File references data; the caller must not modify it afterwards.
//
// Parameters:
//   - data: Complete, uncompressed DEX image
//   - opts: Optional settings; only WithLogger affects Open
//
// Returns:
//   - *File: Opened file
//   - error: Header errors from the section package, errs.ErrOffsetOutOfRange if map_off
//     or class_defs_off point outside data, errs.ErrOutOfData if a table is truncated
func Open(data []byte, opts ...Option) (*File, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return open(data, cfg)
}

func open(data []byte, cfg *Config) (*File, error) {
	f := &File{data: data}
	if err := f.header.Parse(data); err != nil {
		return nil, err
	}
	engine := f.header.Engine()

	mapData, err := f.at(f.header.MapOff)
	if err != nil {
		return nil, fmt.Errorf("map_off: %w", err)
	}
	if f.mapList, _, err = section.ParseMapList(mapData, engine); err != nil {
		return nil, err
	}

	if f.header.ClassDefs.Size > 0 {
		defData, err := f.at(f.header.ClassDefs.Off)
		if err != nil {
			return nil, fmt.Errorf("class_defs_off: %w", err)
		}
		if f.classDefs, err = section.ParseClassDefs(defData, f.header.ClassDefs.Size, engine); err != nil {
			return nil, err
		}
	}

	cfg.logger.Debug("opened dex",
		zap.String("version", f.header.Version()),
		zap.Bool("little_endian", endian.IsLittleEndian(engine)),
		zap.Int("size", len(data)),
		zap.Int("sections", len(f.mapList.Items)),
		zap.Int("class_defs", len(f.classDefs)),
	)

	return f, nil
}

// SetLogger sets the package logger used by Open, Load and the apk package.
// A nil logger restores the no-op default.
func SetLogger(l *zap.Logger) {
	logging.SetLogger(l)
}

// Header returns the decoded header_item.
func (f *File) Header() *section.Header {
	return &f.header
}

// Engine returns the byte order of the file.
func (f *File) Engine() endian.EndianEngine {
	return f.header.Engine()
}

// Map returns the decoded map_list.
func (f *File) Map() section.MapList {
	return f.mapList
}

// ClassDefs returns the class_def_items in file order.
func (f *File) ClassDefs() []section.ClassDef {
	return f.classDefs
}

// Bytes returns the underlying image.
func (f *File) Bytes() []byte {
	return f.data
}

// Len returns the image size in bytes.
func (f *File) Len() int {
	return len(f.data)
}

// Fingerprint returns the xxHash64 of the whole image.
func (f *File) Fingerprint() uint64 {
	return hash.Fingerprint(f.data)
}

// ClassData decodes the class_data_item at off.
func (f *File) ClassData(off uint32) (classdata.ClassData, error) {
	b, err := f.at(off)
	if err != nil {
		return classdata.ClassData{}, fmt.Errorf("class_data_off: %w", err)
	}

	cd, _, err := classdata.Decode(b)
	if err != nil {
		return classdata.ClassData{}, fmt.Errorf("class_data_item at 0x%x: %w", off, err)
	}

	return cd, nil
}

// Code decodes the code_item at off. Instructions alias the file's buffer.
func (f *File) Code(off uint32) (code.Item, error) {
	b, err := f.at(off)
	if err != nil {
		return code.Item{}, fmt.Errorf("code_off: %w", err)
	}

	it, _, err := code.Decode(b, f.header.Engine())
	if err != nil {
		return code.Item{}, fmt.Errorf("code_item at 0x%x: %w", off, err)
	}

	return it, nil
}

// Section returns the bytes of the section of type t.
//
// A section extends from its map offset to the next greater offset in the map, or to
// the end of the file for the last one.
//
// Returns:
//   - []byte: Sub-slice of the image
//   - bool: false if the map has no such section or its offset lies outside the image
func (f *File) Section(t section.ItemType) ([]byte, bool) {
	item, ok := f.mapList.Find(t)
	if !ok || int64(item.Offset) > int64(len(f.data)) {
		return nil, false
	}

	end := len(f.data)
	for _, other := range f.mapList.Items {
		if other.Offset > item.Offset && int64(other.Offset) < int64(end) {
			end = int(other.Offset)
		}
	}

	return f.data[item.Offset:end:end], true
}

func (f *File) at(off uint32) ([]byte, error) {
	if int64(off) > int64(len(f.data)) {
		return nil, fmt.Errorf("%w: 0x%x beyond %d bytes", errs.ErrOffsetOutOfRange, off, len(f.data))
	}

	return f.data[off:], nil
}
