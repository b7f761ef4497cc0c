package common

import (
	"fmt"
	"unsafe"
)

type PhyType int

const (
	NA      PhyType = 0
	BOOL    PhyType = 1
	UINT8   PhyType = 2
	INT8    PhyType = 3
	UINT16  PhyType = 4
	INT16   PhyType = 5
	UINT32  PhyType = 6
	INT32   PhyType = 7
	UINT64  PhyType = 8
	INT64   PhyType = 9
	FLOAT   PhyType = 11
	DOUBLE  PhyType = 12
	LIST    PhyType = 23
	STRUCT  PhyType = 24
	ARRAY   PhyType = 25
	VARCHAR PhyType = 200
	BINARY  PhyType = 201
	DECIMAL PhyType = 209
	OBJECT  PhyType = 210

	INVALID PhyType = 255
)

var pTypeToStr = map[PhyType]string{
	NA:      "NA",
	BOOL:    "BOOL",
	UINT8:   "UINT8",
	INT8:    "INT8",
	UINT16:  "UINT16",
	INT16:   "INT16",
	UINT32:  "UINT32",
	INT32:   "INT32",
	UINT64:  "UINT64",
	INT64:   "INT64",
	FLOAT:   "FLOAT",
	DOUBLE:  "DOUBLE",
	LIST:    "LIST",
	STRUCT:  "STRUCT",
	ARRAY:   "ARRAY",
	VARCHAR: "VARCHAR",
	BINARY:  "BINARY",
	DECIMAL: "DECIMAL",
	OBJECT:  "OBJECT",
	INVALID: "INVALID",
}

func (pt PhyType) String() string {
	if s, has := pTypeToStr[pt]; has {
		return s
	}
	panic(fmt.Sprintf("usp %d", pt))
}

var (
	b             bool
	i8            int8
	f32           float32
	BoolSize      = int(unsafe.Sizeof(b))
	Int8Size      = int(unsafe.Sizeof(i8))
	Int16Size     = Int8Size * 2
	Int32Size     = Int8Size * 4
	Int64Size     = Int8Size * 8
	Float32Size   = int(unsafe.Sizeof(f32))
	ViewSize      = 16
	DecimalSize   = Int64Size
	UnknownSize   = 0
	NestedSizeTag = -1
)

// Size is the width of one element in the fixed-width value buffer.
// Nested and object types have no fixed width.
func (pt PhyType) Size() int {
	switch pt {
	case BOOL:
		return BoolSize
	case INT8, UINT8:
		return Int8Size
	case INT16, UINT16:
		return Int16Size
	case INT32, UINT32:
		return Int32Size
	case INT64, UINT64:
		return Int64Size
	case FLOAT:
		return Float32Size
	case DOUBLE:
		return Int64Size
	case VARCHAR, BINARY:
		return ViewSize
	case DECIMAL:
		return DecimalSize
	case NA:
		return UnknownSize
	case LIST, STRUCT, ARRAY, OBJECT:
		return NestedSizeTag
	default:
		panic("usp")
	}
}

func (pt PhyType) IsNumeric() bool {
	return pt >= UINT8 && pt <= DOUBLE
}

func (pt PhyType) IsFixedWidth() bool {
	return pt >= BOOL && pt <= DOUBLE || pt == DECIMAL
}

func (pt PhyType) IsView() bool {
	return pt == VARCHAR || pt == BINARY
}

func (pt PhyType) IsNested() bool {
	return pt == LIST || pt == STRUCT || pt == ARRAY
}
