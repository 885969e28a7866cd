// Package section defines the fixed-size structures of a DEX file and their parsers.
//
// This package handles the parts of the format that are laid out at fixed widths: the
// header_item, the map_list that indexes every section, and the class_def_item table.
// Variable-length structures built on LEB128 (class_data_item, code_item handler tables)
// live in the classdata, code and encoded packages.
//
// # File Structure
//
// A DEX file starts with a fixed header followed by the ID tables and a data area:
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (0x70 bytes, fixed)                              │
//	│  - Magic (8 bytes): "dex\n" + version + NUL             │
//	│  - Checksum, Signature                                  │
//	│  - File size, header size, endian tag                   │
//	│  - (size, offset) pairs for every ID table              │
//	├─────────────────────────────────────────────────────────┤
//	│ string_ids, type_ids, proto_ids, field_ids, method_ids  │
//	├─────────────────────────────────────────────────────────┤
//	│ class_defs (N × 32 bytes)                               │
//	├─────────────────────────────────────────────────────────┤
//	│ Data                                                    │
//	│  - class_data_item, code_item, strings, ...             │
//	│  - map_list (u32 size + N × 12 bytes)                   │
//	└─────────────────────────────────────────────────────────┘
//
// # Header Format
//
//	Offset | Field           | Type     | Description
//	-------|-----------------|----------|----------------------------------
//	0x00   | magic           | [8]byte  | "dex\n035\0" and later versions
//	0x08   | checksum        | uint32   | adler32 of the rest of the file
//	0x0C   | signature       | [20]byte | SHA-1 of the rest of the file
//	0x20   | file_size       | uint32   |
//	0x24   | header_size     | uint32   | 0x70
//	0x28   | endian_tag      | uint32   | 0x12345678 (LE) or 0x78563412 (BE)
//	0x2C   | link            | size/off |
//	0x34   | map_off         | uint32   |
//	0x38   | string_ids      | size/off |
//	...    | ...             | ...      |
//	0x60   | class_defs      | size/off |
//	0x68   | data            | size/off |
//
// The endian tag selects the byte order for every other fixed-width field. Checksum and
// signature are surfaced but never verified.
//
// # Usage
//
//	hdr, err := section.ParseHeader(data)
//	if err != nil {
//	    return err
//	}
//	maps, _, err := section.ParseMapList(data[hdr.MapOff:], hdr.Engine())
//
// All parsers read from the caller's slice without copying it and are safe for
// concurrent use.
package section
