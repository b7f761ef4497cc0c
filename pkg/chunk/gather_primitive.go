package chunk

import (
	"github.com/daviszhen/gather/pkg/util"
)

func downcast[A Array](s *Series) []A {
	ret := make([]A, len(s.chunks))
	for i, arr := range s.chunks {
		typed, ok := arr.(A)
		if !ok {
			util.Fatalf("implementation error: chunk %d of %q is %T, type %v", i, s.name, arr, s.typ)
		}
		ret[i] = typed
	}
	return ret
}

// gatherPrimitive copies the addressed values into one new chunk. With
// opt set, null addresses produce null rows.
func gatherPrimitive[T any, L Layout](s *Series, by []ChunkId[L], opt bool) *Series {
	targets := downcast[*PrimitiveArray[T]](s)
	values := make([]T, len(by))
	var mask *util.Bitmap

	if !opt && !s.HasNulls() {
		if len(targets) == 1 {
			src := targets[0].Values
			for i, id := range by {
				_, row := id.Extract()
				values[i] = src[row]
			}
		} else {
			srcs := make([][]T, len(targets))
			for i, arr := range targets {
				srcs[i] = arr.Values
			}
			for i, id := range by {
				c, row := id.Extract()
				values[i] = srcs[c][row]
			}
		}
	} else {
		mask = util.NewBitmap(len(by))
		for i, id := range by {
			if opt && id.IsNull() {
				mask.SetInvalid(uint64(i))
				continue
			}
			c, row := id.Extract()
			arr := targets[c]
			if !arr.IsValid(row) {
				mask.SetInvalid(uint64(i))
				continue
			}
			values[i] = arr.Values[row]
		}
		mask.Shrink(len(by))
	}
	return NewSeries(s.name, s.typ, NewPrimitiveArray(values, mask))
}
