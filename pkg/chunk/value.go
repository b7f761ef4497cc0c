package chunk

import (
	"fmt"
	"strings"
	"time"

	"github.com/daviszhen/gather/pkg/common"
)

// Value is one materialized element of a column. It is the slow path used
// for printing and for checking gather results element by element.
type Value struct {
	Typ    common.LType
	IsNull bool
	//value
	Bool     bool
	I64      int64
	U64      uint64
	F64      float64
	Str      string
	Children []*Value
	Obj      any
}

func NullValue(typ common.LType) *Value {
	return &Value{Typ: typ, IsNull: true}
}

func (val Value) String() string {
	if val.IsNull {
		return "NULL"
	}
	switch val.Typ.Id {
	case common.LTID_BOOLEAN:
		return fmt.Sprintf("%v", val.Bool)
	case common.LTID_TINYINT, common.LTID_SMALLINT, common.LTID_INTEGER, common.LTID_BIGINT:
		return fmt.Sprintf("%d", val.I64)
	case common.LTID_UTINYINT, common.LTID_USMALLINT, common.LTID_UINTEGER, common.LTID_UBIGINT:
		return fmt.Sprintf("%d", val.U64)
	case common.LTID_ENUM:
		return fmt.Sprintf("enum(%d)", val.U64)
	case common.LTID_FLOAT, common.LTID_DOUBLE:
		return fmt.Sprintf("%v", val.F64)
	case common.LTID_VARCHAR:
		return val.Str
	case common.LTID_BLOB:
		return fmt.Sprintf("%x", val.Str)
	case common.LTID_DECIMAL:
		d, err := common.DecimalFromUnscaled(val.I64, val.Typ.Scale)
		if err != nil {
			panic(err)
		}
		return d.String()
	case common.LTID_DATE:
		return time.Unix(val.I64*24*3600, 0).UTC().Format(time.DateOnly)
	case common.LTID_TIME:
		return time.UnixMicro(val.I64).UTC().Format("15:04:05.000000")
	case common.LTID_TIMESTAMP:
		return time.UnixMicro(val.I64).UTC().Format("2006-01-02 15:04:05.000000")
	case common.LTID_LIST, common.LTID_ARRAY:
		parts := make([]string, 0, len(val.Children))
		for _, child := range val.Children {
			parts = append(parts, child.String())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case common.LTID_STRUCT:
		parts := make([]string, 0, len(val.Children))
		for i, child := range val.Children {
			parts = append(parts, fmt.Sprintf("%s: %v", val.Typ.Fields[i].Name, child))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case common.LTID_OBJECT:
		return fmt.Sprintf("%v", val.Obj)
	default:
		panic("usp")
	}
}

// valueAt reads row of arr. typ is the logical type of the column.
func valueAt(arr Array, typ common.LType, row int) *Value {
	if !arr.IsValid(row) {
		return NullValue(typ)
	}
	ret := &Value{Typ: typ}
	switch typ.PTyp {
	case common.BOOL:
		ret.Bool = arr.(*PrimitiveArray[bool]).Values[row]
	case common.INT8:
		ret.I64 = int64(arr.(*PrimitiveArray[int8]).Values[row])
	case common.INT16:
		ret.I64 = int64(arr.(*PrimitiveArray[int16]).Values[row])
	case common.INT32:
		ret.I64 = int64(arr.(*PrimitiveArray[int32]).Values[row])
	case common.INT64, common.DECIMAL:
		ret.I64 = arr.(*PrimitiveArray[int64]).Values[row]
	case common.UINT8:
		ret.U64 = uint64(arr.(*PrimitiveArray[uint8]).Values[row])
	case common.UINT16:
		ret.U64 = uint64(arr.(*PrimitiveArray[uint16]).Values[row])
	case common.UINT32:
		ret.U64 = uint64(arr.(*PrimitiveArray[uint32]).Values[row])
	case common.UINT64:
		ret.U64 = arr.(*PrimitiveArray[uint64]).Values[row]
	case common.FLOAT:
		ret.F64 = float64(arr.(*PrimitiveArray[float32]).Values[row])
	case common.DOUBLE:
		ret.F64 = arr.(*PrimitiveArray[float64]).Values[row]
	case common.VARCHAR, common.BINARY:
		ret.Str = string(arr.(*ViewArray).Value(row))
	case common.LIST:
		list := arr.(*ListArray)
		start, end := list.Range(row)
		for i := start; i < end; i++ {
			ret.Children = append(ret.Children, valueAt(list.Child, typ.Child(), i))
		}
	case common.ARRAY:
		fixed := arr.(*FixedSizeListArray)
		for i := row * fixed.Width; i < (row+1)*fixed.Width; i++ {
			ret.Children = append(ret.Children, valueAt(fixed.Child, typ.Child(), i))
		}
	case common.STRUCT:
		st := arr.(*StructArray)
		for i, field := range typ.Fields {
			ret.Children = append(ret.Children, valueAt(st.Fields[i], field.Typ, row))
		}
	case common.OBJECT:
		ret.Obj = arr.(*ObjectArray).Values[row]
	default:
		panic(fmt.Sprintf("usp physical type %v", typ.PTyp))
	}
	return ret
}
