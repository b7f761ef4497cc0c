package chunk

import (
	"github.com/daviszhen/gather/pkg/util"
)

// Array is one immutable chunk of a column. The logical type lives on the
// owning Series.
type Array interface {
	Len() int
	NullCount() int
	IsValid(row int) bool
	// Validity returns nil when every row is valid.
	Validity() *util.Bitmap
}

type nullMask struct {
	mask  *util.Bitmap
	nulls int
}

func makeNullMask(mask *util.Bitmap, length int) nullMask {
	if mask.Invalid() {
		return nullMask{}
	}
	nulls := length - mask.CountValid(length)
	if nulls == 0 {
		return nullMask{}
	}
	return nullMask{mask: mask, nulls: nulls}
}

func (nm *nullMask) NullCount() int {
	return nm.nulls
}

func (nm *nullMask) IsValid(row int) bool {
	if nm.nulls == 0 {
		return true
	}
	return nm.mask.RowIsValidUnsafe(uint64(row))
}

func (nm *nullMask) Validity() *util.Bitmap {
	return nm.mask
}

// PrimitiveArray holds fixed width values. Slots of null rows hold
// arbitrary values.
type PrimitiveArray[T any] struct {
	nullMask
	Values []T
}

func NewPrimitiveArray[T any](values []T, mask *util.Bitmap) *PrimitiveArray[T] {
	return &PrimitiveArray[T]{
		nullMask: makeNullMask(mask, len(values)),
		Values:   values,
	}
}

func (arr *PrimitiveArray[T]) Len() int {
	return len(arr.Values)
}

// NullArray is a chunk of the null type. Every row is null.
type NullArray struct {
	length int
}

func NewNullArray(length int) *NullArray {
	return &NullArray{length: length}
}

func (arr *NullArray) Len() int {
	return arr.length
}

func (arr *NullArray) NullCount() int {
	return arr.length
}

func (arr *NullArray) IsValid(int) bool {
	return false
}

func (arr *NullArray) Validity() *util.Bitmap {
	bm := &util.Bitmap{}
	bm.SetAllInvalid(arr.length)
	return bm
}

// ListArray holds variable length lists. Entry i spans
// Child[Offsets[i]:Offsets[i+1]].
type ListArray struct {
	nullMask
	Offsets []int32
	Child   Array
}

func NewListArray(offsets []int32, child Array, mask *util.Bitmap) *ListArray {
	util.AssertFunc(len(offsets) > 0)
	util.AssertFunc(int(offsets[len(offsets)-1]) <= child.Len())
	return &ListArray{
		nullMask: makeNullMask(mask, len(offsets)-1),
		Offsets:  offsets,
		Child:    child,
	}
}

func (arr *ListArray) Len() int {
	return len(arr.Offsets) - 1
}

func (arr *ListArray) Range(row int) (int, int) {
	return int(arr.Offsets[row]), int(arr.Offsets[row+1])
}

// FixedSizeListArray holds lists of exactly Width elements. Entry i spans
// Child[i*Width:(i+1)*Width]; the child slots of null entries exist.
type FixedSizeListArray struct {
	nullMask
	Width  int
	Child  Array
	length int
}

func NewFixedSizeListArray(width int, child Array, mask *util.Bitmap) *FixedSizeListArray {
	length := 0
	if width > 0 {
		util.AssertFunc(child.Len()%width == 0)
		length = child.Len() / width
	}
	return &FixedSizeListArray{
		nullMask: makeNullMask(mask, length),
		Width:    width,
		Child:    child,
		length:   length,
	}
}

// NewFixedSizeListArrayWithLen is for zero width arrays whose length can
// not be derived from the child.
func NewFixedSizeListArrayWithLen(width int, child Array, length int, mask *util.Bitmap) *FixedSizeListArray {
	util.AssertFunc(child.Len() == width*length)
	return &FixedSizeListArray{
		nullMask: makeNullMask(mask, length),
		Width:    width,
		Child:    child,
		length:   length,
	}
}

func (arr *FixedSizeListArray) Len() int {
	return arr.length
}

// StructArray holds equally long field arrays plus an outer validity.
type StructArray struct {
	nullMask
	Fields []Array
	length int
}

func NewStructArray(fields []Array, length int, mask *util.Bitmap) *StructArray {
	for _, f := range fields {
		util.AssertFunc(f.Len() == length)
	}
	return &StructArray{
		nullMask: makeNullMask(mask, length),
		Fields:   fields,
		length:   length,
	}
}

func (arr *StructArray) Len() int {
	return arr.length
}

// ObjectArray holds opaque user values.
type ObjectArray struct {
	nullMask
	Values []any
}

func NewObjectArray(values []any, mask *util.Bitmap) *ObjectArray {
	return &ObjectArray{
		nullMask: makeNullMask(mask, len(values)),
		Values:   values,
	}
}

func (arr *ObjectArray) Len() int {
	return len(arr.Values)
}

var (
	_ Array = &PrimitiveArray[int32]{}
	_ Array = &NullArray{}
	_ Array = &ViewArray{}
	_ Array = &ListArray{}
	_ Array = &FixedSizeListArray{}
	_ Array = &StructArray{}
	_ Array = &ObjectArray{}
)
