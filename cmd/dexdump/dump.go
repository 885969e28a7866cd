package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/arloliu/dex"
	"github.com/arloliu/dex/classdata"
	"github.com/arloliu/dex/code"
	"github.com/arloliu/dex/endian"
	"github.com/arloliu/dex/section"
)

func newTable(w io.Writer, columns ...any) table.Table {
	return table.New(columns...).WithWriter(w)
}

func hex32(v uint32) string {
	return fmt.Sprintf("0x%08x", v)
}

// fileCommand builds a command that loads FILE and hands it to fn.
func fileCommand(name, usage string, fn func(w io.Writer, f *dex.File) error) *cli.Command {
	return &cli.Command{
		Name:         name,
		Usage:        usage,
		ArgsUsage:    "FILE",
		OnUsageError: usageError,
		Action: func(c *cli.Context) error {
			path, err := fileArg(c)
			if err != nil {
				return err
			}

			f, err := dex.Load(path)
			if err != nil {
				return err
			}

			return fn(c.App.Writer, f)
		},
	}
}

var headerCommand = fileCommand("header", "print the header fields", printHeader)

var mapCommand = fileCommand("map", "print the section map", printMap)

var classesCommand = fileCommand("classes", "print class definitions with their fields and methods", printClasses)

var handlersCommand = fileCommand("handlers", "print try blocks and exception handlers of every method", printHandlers)

func printHeader(w io.Writer, f *dex.File) error {
	h := f.Header()
	byteOrder := "big"
	if endian.IsLittleEndian(h.Engine()) {
		byteOrder = "little"
	}

	tbl := newTable(w, "Field", "Value")
	tbl.AddRow("version", h.Version())
	tbl.AddRow("checksum", hex32(h.Checksum))
	tbl.AddRow("signature", hex.EncodeToString(h.Signature[:]))
	tbl.AddRow("file_size", h.FileSize)
	tbl.AddRow("header_size", h.HeaderSize)
	tbl.AddRow("endian", fmt.Sprintf("%s (%s)", hex32(h.EndianTag), byteOrder))
	tbl.AddRow("map_off", hex32(h.MapOff))
	for _, so := range []struct {
		name string
		v    section.SizeOff
	}{
		{"link", h.Link},
		{"string_ids", h.StringIDs},
		{"type_ids", h.TypeIDs},
		{"proto_ids", h.ProtoIDs},
		{"field_ids", h.FieldIDs},
		{"method_ids", h.MethodIDs},
		{"class_defs", h.ClassDefs},
		{"data", h.Data},
	} {
		tbl.AddRow(so.name, fmt.Sprintf("%d @ %s", so.v.Size, hex32(so.v.Off)))
	}
	tbl.Print()

	return nil
}

func printMap(w io.Writer, f *dex.File) error {
	tbl := newTable(w, "Type", "Size", "Offset")
	for _, item := range f.Map().Items {
		tbl.AddRow(item.Type, item.Size, hex32(item.Offset))
	}
	tbl.Print()

	return nil
}

func printClasses(w io.Writer, f *dex.File) error {
	for i, def := range f.ClassDefs() {
		fmt.Fprintf(w, "class_def #%d: class=type@%d access=%s super=%s\n",
			i, def.ClassIdx, hex32(def.AccessFlags), typeRef(def.SuperclassIdx))
		if !def.HasClassData() {
			fmt.Fprintln(w, "  no class data")
			fmt.Fprintln(w)

			continue
		}

		cd, err := f.ClassData(def.ClassDataOff)
		if err != nil {
			return fmt.Errorf("class_def #%d: %w", i, err)
		}
		fmt.Fprintf(w, "  fields=%d methods=%d\n", cd.FieldCount(), cd.MethodCount())

		tbl := newTable(w, "Kind", "Index", "Access", "CodeOff")
		for _, fields := range []struct {
			kind string
			arr  []classdata.EncodedField
		}{
			{"static field", cd.StaticFields.Items()},
			{"instance field", cd.InstanceFields.Items()},
		} {
			for _, fd := range fields.arr {
				tbl.AddRow(fields.kind, fmt.Sprintf("field@%d", fd.FieldIdx), hex32(fd.AccessFlags), "")
			}
		}
		for _, methods := range []struct {
			kind string
			arr  []classdata.EncodedMethod
		}{
			{"direct method", cd.DirectMethods.Items()},
			{"virtual method", cd.VirtualMethods.Items()},
		} {
			for _, m := range methods.arr {
				codeOff := "-"
				if m.HasCode() {
					codeOff = hex32(m.CodeOff)
				}
				tbl.AddRow(methods.kind, fmt.Sprintf("method@%d", m.MethodIdx), hex32(m.AccessFlags), codeOff)
			}
		}
		tbl.Print()
		fmt.Fprintln(w)
	}

	return nil
}

func printHandlers(w io.Writer, f *dex.File) error {
	for i, def := range f.ClassDefs() {
		if !def.HasClassData() {
			continue
		}
		cd, err := f.ClassData(def.ClassDataOff)
		if err != nil {
			return fmt.Errorf("class_def #%d: %w", i, err)
		}

		for m := range cd.Methods() {
			if !m.HasCode() {
				continue
			}
			it, err := f.Code(m.CodeOff)
			if err != nil {
				return fmt.Errorf("method@%d: %w", m.MethodIdx, err)
			}
			printCode(w, m, &it)
		}
	}

	return nil
}

func printCode(w io.Writer, m classdata.EncodedMethod, it *code.Item) {
	fmt.Fprintf(w, "method@%d code_off=%s registers=%d ins=%d outs=%d insns=%d tries=%d\n",
		m.MethodIdx, hex32(m.CodeOff), it.RegistersSize, it.InsSize, it.OutsSize, it.InsnsSize, it.TriesSize)
	if len(it.Tries) == 0 {
		fmt.Fprintln(w)
		return
	}

	tbl := newTable(w, "Try", "Range", "HandlerOff", "Handlers")
	for i, try := range it.Tries {
		handlers := fmt.Sprintf("<no block at offset %d>", try.HandlerOff)
		if h, ok := it.Handler(try); ok {
			parts := make([]string, 0, len(h.Handlers))
			for _, hd := range h.Handlers {
				parts = append(parts, hd.String())
			}
			handlers = strings.Join(parts, ", ")
		}
		tbl.AddRow(i, fmt.Sprintf("0x%04x-0x%04x", try.StartAddr, try.EndAddr()), try.HandlerOff, handlers)
	}
	tbl.Print()
	fmt.Fprintln(w)
}

func typeRef(idx uint32) string {
	if idx == section.NoIndex {
		return "none"
	}

	return fmt.Sprintf("type@%d", idx)
}
