package chunk

import (
	"unsafe"

	"github.com/dolthub/swiss"

	"github.com/daviszhen/gather/pkg/util"
	"github.com/daviszhen/gather/pkg/util/metric"
)

// bufferKey identifies a data buffer by its backing memory.
type bufferKey struct {
	ptr unsafe.Pointer
	n   int
}

// bufferDedup collects the buffers referenced by gathered views. Every
// distinct buffer is kept once no matter how many source chunks share it.
type bufferDedup struct {
	idxs    *swiss.Map[bufferKey, uint32]
	buffers [][]byte
}

func newBufferDedup(capacity int) *bufferDedup {
	return &bufferDedup{
		idxs:    swiss.NewMap[bufferKey, uint32](uint32(capacity)),
		buffers: make([][]byte, 0, capacity),
	}
}

func (d *bufferDedup) update(view View, src [][]byte) View {
	if view.IsInline() {
		return view
	}
	buf := src[view.BufferIdx]
	key := bufferKey{ptr: util.BytesSliceToPointer(buf), n: len(buf)}
	idx, has := d.idxs.Get(key)
	if !has {
		idx = uint32(len(d.buffers))
		d.buffers = append(d.buffers, buf)
		d.idxs.Put(key, idx)
	}
	view.BufferIdx = idx
	return view
}

// gatherViews copies the addressed views. A single chunk source keeps its
// buffer list as is. Otherwise the buffers are pooled and the views of out
// of line values are renumbered. Null rows get a zero view.
func gatherViews[L Layout](s *Series, by []ChunkId[L], opt bool) *Series {
	arrays := downcast[*ViewArray](s)
	views := make([]View, len(by))
	var mask *util.Bitmap
	needMask := opt || s.HasNulls()
	if needMask {
		mask = util.NewBitmap(len(by))
	}

	var buffers [][]byte
	path := metric.PathSingleChunk
	if len(arrays) == 1 {
		arr := arrays[0]
		src := arr.Views
		if !needMask {
			for i, id := range by {
				_, row := id.Extract()
				views[i] = src[row]
			}
		} else {
			for i, id := range by {
				if opt && id.IsNull() {
					mask.SetInvalid(uint64(i))
					continue
				}
				_, row := id.Extract()
				if !arr.IsValid(row) {
					mask.SetInvalid(uint64(i))
					continue
				}
				views[i] = src[row]
			}
		}
		buffers = arr.Buffers
	} else {
		path = metric.PathMultiChunk
		capacity := 0
		for _, arr := range arrays {
			capacity += len(arr.Buffers)
		}
		dedup := newBufferDedup(capacity)
		if !needMask {
			for i, id := range by {
				c, row := id.Extract()
				arr := arrays[c]
				views[i] = dedup.update(arr.Views[row], arr.Buffers)
			}
		} else {
			for i, id := range by {
				if opt && id.IsNull() {
					mask.SetInvalid(uint64(i))
					continue
				}
				c, row := id.Extract()
				arr := arrays[c]
				if !arr.IsValid(row) {
					mask.SetInvalid(uint64(i))
					continue
				}
				views[i] = dedup.update(arr.Views[row], arr.Buffers)
			}
		}
		buffers = dedup.buffers
	}
	if needMask {
		mask.Shrink(len(by))
	}
	metric.ViewBuffersHistogram.WithLabelValues(path).Observe(float64(len(buffers)))
	return NewSeries(s.name, s.typ, NewViewArray(views, buffers, mask))
}
