package common

import (
	"fmt"
	"strings"
)

type Field struct {
	Name string
	Typ  LType
}

// LType is a logical type. Width and Scale carry decimal precision/scale;
// Width is also the element count of a fixed-size array. Fields holds the
// single child of list/array types or the fields of a struct.
type LType struct {
	Id      LTypeId
	PTyp    PhyType
	Width   int
	Scale   int
	Fields  []Field
	ObjName string
}

func MakeLType(id LTypeId) LType {
	ret := LType{Id: id}
	ret.PTyp = ret.GetInternalType()
	return ret
}

func Null() LType {
	return MakeLType(LTID_NULL)
}

func BooleanType() LType {
	return MakeLType(LTID_BOOLEAN)
}

func TinyintType() LType {
	return MakeLType(LTID_TINYINT)
}

func SmallintType() LType {
	return MakeLType(LTID_SMALLINT)
}

func IntegerType() LType {
	return MakeLType(LTID_INTEGER)
}

func BigintType() LType {
	return MakeLType(LTID_BIGINT)
}

func UtinyintType() LType {
	return MakeLType(LTID_UTINYINT)
}

func UsmallintType() LType {
	return MakeLType(LTID_USMALLINT)
}

func UintegerType() LType {
	return MakeLType(LTID_UINTEGER)
}

func UbigintType() LType {
	return MakeLType(LTID_UBIGINT)
}

func FloatType() LType {
	return MakeLType(LTID_FLOAT)
}

func DoubleType() LType {
	return MakeLType(LTID_DOUBLE)
}

func DateType() LType {
	return MakeLType(LTID_DATE)
}

func TimeType() LType {
	return MakeLType(LTID_TIME)
}

func TimestampType() LType {
	return MakeLType(LTID_TIMESTAMP)
}

func EnumType() LType {
	return MakeLType(LTID_ENUM)
}

func VarcharType() LType {
	return MakeLType(LTID_VARCHAR)
}

func BlobType() LType {
	return MakeLType(LTID_BLOB)
}

func DecimalType(width, scale int) LType {
	ret := MakeLType(LTID_DECIMAL)
	ret.Width = width
	ret.Scale = scale
	return ret
}

func ListType(child LType) LType {
	ret := MakeLType(LTID_LIST)
	ret.Fields = []Field{{Name: "item", Typ: child}}
	return ret
}

func ArrayType(child LType, width int) LType {
	ret := MakeLType(LTID_ARRAY)
	ret.Width = width
	ret.Fields = []Field{{Name: "item", Typ: child}}
	return ret
}

func StructType(fields ...Field) LType {
	ret := MakeLType(LTID_STRUCT)
	ret.Fields = fields
	return ret
}

func ObjectType(name string) LType {
	ret := MakeLType(LTID_OBJECT)
	ret.ObjName = name
	return ret
}

// ScalarType builds a non-nested type from a configured name.
func ScalarType(name string, width, scale int) (LType, error) {
	id, err := ParseLTypeId(name)
	if err != nil {
		return LType{}, err
	}
	if id == LTID_DECIMAL {
		return DecimalType(width, scale), nil
	}
	return MakeLType(id), nil
}

func (lt LType) Child() LType {
	return lt.Fields[0].Typ
}

func (lt LType) IsNested() bool {
	return lt.PTyp.IsNested()
}

func (lt LType) IsNumeric() bool {
	return lt.PTyp.IsNumeric()
}

func (lt LType) IsNull() bool {
	return lt.Id == LTID_NULL
}

func (lt LType) GetInternalType() PhyType {
	switch lt.Id {
	case LTID_NULL:
		return NA
	case LTID_BOOLEAN:
		return BOOL
	case LTID_TINYINT:
		return INT8
	case LTID_UTINYINT:
		return UINT8
	case LTID_SMALLINT:
		return INT16
	case LTID_USMALLINT:
		return UINT16
	case LTID_INTEGER, LTID_DATE:
		return INT32
	case LTID_UINTEGER, LTID_ENUM:
		return UINT32
	case LTID_BIGINT, LTID_TIME, LTID_TIMESTAMP:
		return INT64
	case LTID_UBIGINT:
		return UINT64
	case LTID_FLOAT:
		return FLOAT
	case LTID_DOUBLE:
		return DOUBLE
	case LTID_DECIMAL:
		return DECIMAL
	case LTID_VARCHAR:
		return VARCHAR
	case LTID_BLOB:
		return BINARY
	case LTID_STRUCT:
		return STRUCT
	case LTID_LIST:
		return LIST
	case LTID_ARRAY:
		return ARRAY
	case LTID_OBJECT:
		return OBJECT
	case LTID_INVALID:
		return INVALID
	default:
		panic(fmt.Sprintf("usp logical type %d", lt.Id))
	}
}

// PhysicalType is the storage type sharing the chunk layout of lt.
// Nested, decimal and object types are their own physical type.
func (lt LType) PhysicalType() LType {
	switch lt.Id {
	case LTID_DATE:
		return IntegerType()
	case LTID_TIME, LTID_TIMESTAMP:
		return BigintType()
	case LTID_ENUM:
		return UintegerType()
	default:
		return lt
	}
}

func (lt LType) Equal(o LType) bool {
	if lt.Id != o.Id {
		return false
	}
	switch lt.Id {
	case LTID_DECIMAL:
		return lt.Width == o.Width && lt.Scale == o.Scale
	case LTID_OBJECT:
		return lt.ObjName == o.ObjName
	case LTID_ARRAY:
		if lt.Width != o.Width {
			return false
		}
		return lt.Child().Equal(o.Child())
	case LTID_LIST:
		return lt.Child().Equal(o.Child())
	case LTID_STRUCT:
		if len(lt.Fields) != len(o.Fields) {
			return false
		}
		for i := range lt.Fields {
			if lt.Fields[i].Name != o.Fields[i].Name ||
				!lt.Fields[i].Typ.Equal(o.Fields[i].Typ) {
				return false
			}
		}
	default:
	}
	return true
}

func (lt LType) String() string {
	switch lt.Id {
	case LTID_DECIMAL:
		return fmt.Sprintf("DECIMAL(%d,%d)", lt.Width, lt.Scale)
	case LTID_LIST:
		return fmt.Sprintf("LIST<%v>", lt.Child())
	case LTID_ARRAY:
		return fmt.Sprintf("ARRAY<%v,%d>", lt.Child(), lt.Width)
	case LTID_STRUCT:
		parts := make([]string, 0, len(lt.Fields))
		for _, f := range lt.Fields {
			parts = append(parts, fmt.Sprintf("%s:%v", f.Name, f.Typ))
		}
		return fmt.Sprintf("STRUCT<%s>", strings.Join(parts, ","))
	case LTID_OBJECT:
		return fmt.Sprintf("OBJECT(%s)", lt.ObjName)
	}
	return strings.TrimPrefix(lt.Id.String(), "LTID_")
}
