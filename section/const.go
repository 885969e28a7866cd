package section

import "math"

// offset and section sizes in the dex file
const (
	HeaderSize       = 0x70 // fixed header_item size in bytes
	MagicSize        = 8    // "dex\n" + 3 version digits + NUL
	SignatureSize    = 20   // SHA-1 signature length
	MapItemSize      = 12   // fixed map_item size in bytes
	ClassDefItemSize = 32   // fixed class_def_item size in bytes
	TryItemSize      = 8    // fixed try_item size in bytes
	CodeItemHeadSize = 16   // code_item fields before insns

	NoIndex = math.MaxUint32 // NO_INDEX marker for absent 32-bit indices
)

// Access flags as found in class_def_item and encoded_field/encoded_method.
const (
	AccPublic       = 0x00001
	AccPrivate      = 0x00002
	AccProtected    = 0x00004
	AccStatic       = 0x00008
	AccFinal        = 0x00010
	AccSynchronized = 0x00020
	AccVolatile     = 0x00040
	AccBridge       = 0x00040
	AccTransient    = 0x00080
	AccVarargs      = 0x00080
	AccNative       = 0x00100
	AccInterface    = 0x00200
	AccAbstract     = 0x00400
	AccStrict       = 0x00800
	AccSynthetic    = 0x01000
	AccAnnotation   = 0x02000
	AccEnum         = 0x04000
	AccConstructor  = 0x10000

	AccDeclaredSynchronized = 0x20000
)
