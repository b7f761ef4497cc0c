package chunk

import (
	"unsafe"

	"github.com/daviszhen/gather/pkg/util"
)

const (
	// MaxInlineSize is the longest value stored inside the view itself.
	MaxInlineSize = 12

	defaultBlockSize  = 8 * 1024
	maxBlockSize      = 16 * 1024 * 1024
	gcMinimumSavings  = 16 * 1024
	gcUsedRatioDenom  = 4
	viewPrefixByteLen = 4
)

// View is a 16 byte handle on a binary value. Values up to MaxInlineSize
// bytes live in Prefix..Offset. Longer values keep their first 4 bytes in
// Prefix and live at Buffers[BufferIdx][Offset:Offset+Length].
type View struct {
	Length    uint32
	Prefix    uint32
	BufferIdx uint32
	Offset    uint32
}

func (v *View) inline() []byte {
	return util.PointerToSlice[byte](unsafe.Pointer(&v.Prefix), MaxInlineSize)
}

func (v *View) IsInline() bool {
	return v.Length <= MaxInlineSize
}

// MakeView builds the view of data. bufIdx and offset are ignored for
// inline values.
func MakeView(data []byte, bufIdx, offset uint32) View {
	v := View{Length: uint32(len(data))}
	if len(data) <= MaxInlineSize {
		copy(v.inline(), data)
		return v
	}
	copy(util.PointerToSlice[byte](unsafe.Pointer(&v.Prefix), viewPrefixByteLen), data)
	v.BufferIdx = bufIdx
	v.Offset = offset
	return v
}

// ViewArray is a chunk of VARCHAR or BINARY values. Buffers may be shared
// with other arrays.
type ViewArray struct {
	nullMask
	Views   []View
	Buffers [][]byte

	totalBufferLen int
}

func NewViewArray(views []View, buffers [][]byte, mask *util.Bitmap) *ViewArray {
	total := 0
	for _, buf := range buffers {
		total += len(buf)
	}
	return &ViewArray{
		nullMask:       makeNullMask(mask, len(views)),
		Views:          views,
		Buffers:        buffers,
		totalBufferLen: total,
	}
}

func (arr *ViewArray) Len() int {
	return len(arr.Views)
}

// Value returns the bytes of row. The slice aliases the array.
func (arr *ViewArray) Value(row int) []byte {
	v := &arr.Views[row]
	if v.IsInline() {
		return v.inline()[:v.Length]
	}
	return arr.Buffers[v.BufferIdx][v.Offset : v.Offset+v.Length]
}

func (arr *ViewArray) TotalBufferLen() int {
	return arr.totalBufferLen
}

// TotalBytesLen sums the out of line bytes referenced by valid rows.
func (arr *ViewArray) TotalBytesLen() int {
	total := 0
	for i := range arr.Views {
		if !arr.IsValid(i) || arr.Views[i].IsInline() {
			continue
		}
		total += int(arr.Views[i].Length)
	}
	return total
}

// MaybeGC compacts the buffers when the referenced bytes are a small part
// of what the array keeps alive. Gather never calls it.
func (arr *ViewArray) MaybeGC() *ViewArray {
	if arr.totalBufferLen <= gcMinimumSavings {
		return arr
	}
	held := arr.TotalBytesLen()
	if arr.totalBufferLen-held < gcMinimumSavings {
		return arr
	}
	if held*gcUsedRatioDenom >= arr.totalBufferLen {
		return arr
	}
	return arr.GC()
}

// GC copies the referenced bytes into fresh buffers.
func (arr *ViewArray) GC() *ViewArray {
	b := NewViewBuilder(arr.Len())
	for i := range arr.Views {
		if !arr.IsValid(i) {
			b.AppendNull()
			continue
		}
		b.Append(arr.Value(i))
	}
	return b.Finish()
}

// ViewBuilder appends values into blocks of growing size.
type ViewBuilder struct {
	views      []View
	mask       *util.Bitmap
	buffers    [][]byte
	inProgress []byte
	blockSize  int
}

func NewViewBuilder(capacity int) *ViewBuilder {
	return &ViewBuilder{
		views:     make([]View, 0, capacity),
		blockSize: defaultBlockSize,
	}
}

func (b *ViewBuilder) Len() int {
	return len(b.views)
}

func (b *ViewBuilder) AppendString(s string) {
	b.Append(util.UnsafeStringToBytes(s))
}

func (b *ViewBuilder) Append(data []byte) {
	if len(data) <= MaxInlineSize {
		b.views = append(b.views, MakeView(data, 0, 0))
		return
	}
	if len(b.inProgress)+len(data) > cap(b.inProgress) {
		b.flush()
		size := b.blockSize
		if size < maxBlockSize {
			b.blockSize *= 2
		}
		if size < len(data) {
			size = len(data)
		}
		b.inProgress = make([]byte, 0, size)
	}
	offset := len(b.inProgress)
	b.inProgress = append(b.inProgress, data...)
	b.views = append(b.views, MakeView(data, uint32(len(b.buffers)), uint32(offset)))
}

func (b *ViewBuilder) AppendNull() {
	b.mask = growInvalid(b.mask, len(b.views))
	b.views = append(b.views, View{})
}

func (b *ViewBuilder) flush() {
	if len(b.inProgress) > 0 {
		b.buffers = append(b.buffers, b.inProgress)
		b.inProgress = nil
	}
}

func (b *ViewBuilder) Finish() *ViewArray {
	b.flush()
	ret := NewViewArray(b.views, b.buffers, b.mask)
	b.views, b.buffers, b.mask = nil, nil, nil
	return ret
}
