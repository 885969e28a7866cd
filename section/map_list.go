package section

import (
	"fmt"

	"github.com/arloliu/dex/cursor"
	"github.com/arloliu/dex/endian"
)

// ItemType identifies the kind of section a map_item describes.
type ItemType uint16

const (
	TypeHeaderItem               ItemType = 0x0000
	TypeStringIDItem             ItemType = 0x0001
	TypeTypeIDItem               ItemType = 0x0002
	TypeProtoIDItem              ItemType = 0x0003
	TypeFieldIDItem              ItemType = 0x0004
	TypeMethodIDItem             ItemType = 0x0005
	TypeClassDefItem             ItemType = 0x0006
	TypeCallSiteIDItem           ItemType = 0x0007
	TypeMethodHandleItem         ItemType = 0x0008
	TypeMapList                  ItemType = 0x1000
	TypeTypeList                 ItemType = 0x1001
	TypeAnnotationSetRefList     ItemType = 0x1002
	TypeAnnotationSetItem        ItemType = 0x1003
	TypeClassDataItem            ItemType = 0x2000
	TypeCodeItem                 ItemType = 0x2001
	TypeStringDataItem           ItemType = 0x2002
	TypeDebugInfoItem            ItemType = 0x2003
	TypeAnnotationItem           ItemType = 0x2004
	TypeEncodedArrayItem         ItemType = 0x2005
	TypeAnnotationsDirectoryItem ItemType = 0x2006
	TypeHiddenapiClassDataItem   ItemType = 0xF000
)

func (t ItemType) String() string {
	switch t {
	case TypeHeaderItem:
		return "header_item"
	case TypeStringIDItem:
		return "string_id_item"
	case TypeTypeIDItem:
		return "type_id_item"
	case TypeProtoIDItem:
		return "proto_id_item"
	case TypeFieldIDItem:
		return "field_id_item"
	case TypeMethodIDItem:
		return "method_id_item"
	case TypeClassDefItem:
		return "class_def_item"
	case TypeCallSiteIDItem:
		return "call_site_id_item"
	case TypeMethodHandleItem:
		return "method_handle_item"
	case TypeMapList:
		return "map_list"
	case TypeTypeList:
		return "type_list"
	case TypeAnnotationSetRefList:
		return "annotation_set_ref_list"
	case TypeAnnotationSetItem:
		return "annotation_set_item"
	case TypeClassDataItem:
		return "class_data_item"
	case TypeCodeItem:
		return "code_item"
	case TypeStringDataItem:
		return "string_data_item"
	case TypeDebugInfoItem:
		return "debug_info_item"
	case TypeAnnotationItem:
		return "annotation_item"
	case TypeEncodedArrayItem:
		return "encoded_array_item"
	case TypeAnnotationsDirectoryItem:
		return "annotations_directory_item"
	case TypeHiddenapiClassDataItem:
		return "hiddenapi_class_data_item"
	default:
		return fmt.Sprintf("unknown(0x%04x)", uint16(t))
	}
}

// MapItem describes one section of the file.
type MapItem struct {
	Type   ItemType // byte offset 0-1
	Unused uint16   // byte offset 2-3
	Size   uint32   // byte offset 4-7, number of items in the section
	Offset uint32   // byte offset 8-11, from the start of the file
}

// MapList is the decoded map_list.
type MapList struct {
	Items []MapItem
}

// Find returns the map item of the given type, if present.
func (m MapList) Find(t ItemType) (MapItem, bool) {
	for _, item := range m.Items {
		if item.Type == t {
			return item, true
		}
	}

	return MapItem{}, false
}

// ParseMapList parses a map_list: a u32 size followed by size 12-byte map items.
//
// Parameters:
//   - data: Byte slice starting at the map_list
//   - engine: Byte order from the header
//
// Returns:
//   - MapList: Parsed items in file order
//   - int: Bytes consumed
//   - error: errs.ErrOutOfData if data is shorter than the list claims
func ParseMapList(data []byte, engine endian.EndianEngine) (MapList, int, error) {
	c := cursor.New(data)

	size, err := c.Uint32(engine)
	if err != nil {
		return MapList{}, 0, fmt.Errorf("map_list size: %w", err)
	}

	items := make([]MapItem, 0, min(int(size), c.Remaining()/MapItemSize))
	for i := range size {
		b, err := c.Bytes(MapItemSize)
		if err != nil {
			return MapList{}, 0, fmt.Errorf("map_item %d: %w", i, err)
		}
		items = append(items, MapItem{
			Type:   ItemType(engine.Uint16(b[0:2])),
			Unused: engine.Uint16(b[2:4]),
			Size:   engine.Uint32(b[4:8]),
			Offset: engine.Uint32(b[8:12]),
		})
	}

	return MapList{Items: items}, c.Pos(), nil
}
