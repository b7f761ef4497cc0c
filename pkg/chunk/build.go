package chunk

import (
	"github.com/pkg/errors"

	"github.com/daviszhen/gather/pkg/common"
	"github.com/daviszhen/gather/pkg/util"
)

// NewPrimitiveSeries builds a column with one chunk per slice.
func NewPrimitiveSeries[T any](name string, typ common.LType, chunks ...[]T) *Series {
	arrs := make([]Array, len(chunks))
	for i, vals := range chunks {
		arrs[i] = NewPrimitiveArray(vals, nil)
	}
	return NewSeries(name, typ, arrs...)
}

// NewOptPrimitiveSeries is NewPrimitiveSeries where nil marks a null.
func NewOptPrimitiveSeries[T any](name string, typ common.LType, chunks ...[]*T) *Series {
	arrs := make([]Array, len(chunks))
	for i, opts := range chunks {
		vals := make([]T, len(opts))
		mask := util.NewBitmap(len(opts))
		for j, v := range opts {
			if v == nil {
				mask.SetInvalid(uint64(j))
				continue
			}
			vals[j] = *v
		}
		arrs[i] = NewPrimitiveArray(vals, mask)
	}
	return NewSeries(name, typ, arrs...)
}

func NewStringSeries(name string, chunks ...[]string) *Series {
	arrs := make([]Array, len(chunks))
	for i, vals := range chunks {
		b := NewViewBuilder(len(vals))
		for _, v := range vals {
			b.AppendString(v)
		}
		arrs[i] = b.Finish()
	}
	return NewSeries(name, common.VarcharType(), arrs...)
}

func NewOptStringSeries(name string, chunks ...[]*string) *Series {
	arrs := make([]Array, len(chunks))
	for i, vals := range chunks {
		b := NewViewBuilder(len(vals))
		for _, v := range vals {
			if v == nil {
				b.AppendNull()
				continue
			}
			b.AppendString(*v)
		}
		arrs[i] = b.Finish()
	}
	return NewSeries(name, common.VarcharType(), arrs...)
}

// ArrayBuilder collects scalar values of one type into a chunk.
type ArrayBuilder interface {
	AppendValue(val *Value) error
	AppendNull()
	Len() int
	Finish() Array
}

// NewArrayBuilder supports every non nested type except objects.
func NewArrayBuilder(typ common.LType, capacity int) (ArrayBuilder, error) {
	switch typ.PTyp {
	case common.NA:
		return &nullBuilder{}, nil
	case common.BOOL:
		return newPrimitiveBuilder(capacity, func(v *Value) bool { return v.Bool }), nil
	case common.INT8:
		return newPrimitiveBuilder(capacity, func(v *Value) int8 { return int8(v.I64) }), nil
	case common.INT16:
		return newPrimitiveBuilder(capacity, func(v *Value) int16 { return int16(v.I64) }), nil
	case common.INT32:
		return newPrimitiveBuilder(capacity, func(v *Value) int32 { return int32(v.I64) }), nil
	case common.INT64, common.DECIMAL:
		return newPrimitiveBuilder(capacity, func(v *Value) int64 { return v.I64 }), nil
	case common.UINT8:
		return newPrimitiveBuilder(capacity, func(v *Value) uint8 { return uint8(v.U64) }), nil
	case common.UINT16:
		return newPrimitiveBuilder(capacity, func(v *Value) uint16 { return uint16(v.U64) }), nil
	case common.UINT32:
		return newPrimitiveBuilder(capacity, func(v *Value) uint32 { return uint32(v.U64) }), nil
	case common.UINT64:
		return newPrimitiveBuilder(capacity, func(v *Value) uint64 { return v.U64 }), nil
	case common.FLOAT:
		return newPrimitiveBuilder(capacity, func(v *Value) float32 { return float32(v.F64) }), nil
	case common.DOUBLE:
		return newPrimitiveBuilder(capacity, func(v *Value) float64 { return v.F64 }), nil
	case common.VARCHAR, common.BINARY:
		return &viewArrayBuilder{b: NewViewBuilder(capacity)}, nil
	default:
		return nil, errors.Wrapf(util.ErrUnknownType, "no array builder for %v", typ)
	}
}

type primitiveBuilder[T any] struct {
	values []T
	mask   *util.Bitmap
	conv   func(*Value) T
}

func newPrimitiveBuilder[T any](capacity int, conv func(*Value) T) *primitiveBuilder[T] {
	return &primitiveBuilder[T]{
		values: make([]T, 0, capacity),
		conv:   conv,
	}
}

func (b *primitiveBuilder[T]) AppendValue(val *Value) error {
	if val.IsNull {
		b.AppendNull()
		return nil
	}
	b.values = append(b.values, b.conv(val))
	return nil
}

func (b *primitiveBuilder[T]) AppendNull() {
	var zero T
	b.mask = growInvalid(b.mask, len(b.values))
	b.values = append(b.values, zero)
}

func (b *primitiveBuilder[T]) Len() int {
	return len(b.values)
}

func (b *primitiveBuilder[T]) Finish() Array {
	ret := NewPrimitiveArray(b.values, b.mask)
	b.values, b.mask = nil, nil
	return ret
}

type viewArrayBuilder struct {
	b *ViewBuilder
}

func (vb *viewArrayBuilder) AppendValue(val *Value) error {
	if val.IsNull {
		vb.b.AppendNull()
		return nil
	}
	vb.b.AppendString(val.Str)
	return nil
}

func (vb *viewArrayBuilder) AppendNull() {
	vb.b.AppendNull()
}

func (vb *viewArrayBuilder) Len() int {
	return vb.b.Len()
}

func (vb *viewArrayBuilder) Finish() Array {
	return vb.b.Finish()
}

type nullBuilder struct {
	n int
}

func (nb *nullBuilder) AppendValue(*Value) error {
	nb.n++
	return nil
}

func (nb *nullBuilder) AppendNull() {
	nb.n++
}

func (nb *nullBuilder) Len() int {
	return nb.n
}

func (nb *nullBuilder) Finish() Array {
	return NewNullArray(nb.n)
}

// growInvalid marks row as null, growing mask to cover it.
func growInvalid(mask *util.Bitmap, row int) *util.Bitmap {
	need := util.EntryCount(row + 1)
	if mask == nil {
		mask = util.NewBitmap(max(util.DefaultVectorSize, row+1))
	} else if need > len(mask.Bits) {
		grown := util.NewBitmap(2 * (row + 1))
		copy(grown.Bits, mask.Bits)
		mask = grown
	}
	mask.SetInvalid(uint64(row))
	return mask
}
