package chunk

import (
	"github.com/daviszhen/gather/pkg/common"
	"github.com/daviszhen/gather/pkg/util"
)

// childSeries views the children of nested chunks as one column. Child
// chunk i belongs to parent chunk i, so parent addresses translate to child
// addresses without reshuffling chunk indices.
func childSeries(name string, typ common.LType, children []Array) *Series {
	return NewSeries(name, typ, children...)
}

func mustTake[L Layout](s *Series, by []ChunkId[L], opt bool) *Series {
	out, err := take(s, by, opt, common.IsSortedNot)
	if err != nil {
		util.Fatalf("nested gather of %q failed: %v", s.name, err)
	}
	return out
}

// gatherList rebuilds offsets for the addressed lists and gathers the
// flattened child elements. Null lists are empty.
func gatherList[L Layout](s *Series, by []ChunkId[L], opt bool) *Series {
	lists := downcast[*ListArray](s)
	children := make([]Array, len(lists))
	for i, arr := range lists {
		children[i] = arr.Child
	}
	offsets := make([]int32, 1, len(by)+1)
	childIds := make([]ChunkId[L], 0, len(by))
	var mask *util.Bitmap
	if opt || s.HasNulls() {
		mask = util.NewBitmap(len(by))
	}

	var last int32
	for i, id := range by {
		if opt && id.IsNull() {
			mask.SetInvalid(uint64(i))
			offsets = append(offsets, last)
			continue
		}
		c, row := id.Extract()
		arr := lists[c]
		if !arr.IsValid(row) {
			mask.SetInvalid(uint64(i))
			offsets = append(offsets, last)
			continue
		}
		start, end := arr.Range(row)
		for j := start; j < end; j++ {
			childIds = append(childIds, NewChunkId[L](c, j))
		}
		last += int32(end - start)
		offsets = append(offsets, last)
	}
	if mask != nil {
		mask.Shrink(len(by))
	}
	child := mustTake(childSeries(s.name, s.typ.Child(), children), childIds, false)
	return NewSeries(s.name, s.typ, NewListArray(offsets, child.chunks[0], mask))
}

// gatherFixedSizeList gathers Width child slots per address. A null address
// yields Width null child slots.
func gatherFixedSizeList[L Layout](s *Series, by []ChunkId[L], opt bool) *Series {
	arrays := downcast[*FixedSizeListArray](s)
	width := s.typ.Width
	children := make([]Array, len(arrays))
	for i, arr := range arrays {
		util.AssertFunc(arr.Width == width)
		children[i] = arr.Child
	}
	childIds := make([]ChunkId[L], 0, len(by)*width)
	var mask *util.Bitmap
	if opt || s.HasNulls() {
		mask = util.NewBitmap(len(by))
	}

	hasNullIds := false
	for i, id := range by {
		if opt && id.IsNull() {
			mask.SetInvalid(uint64(i))
			for k := 0; k < width; k++ {
				childIds = append(childIds, NullChunkId[L]())
			}
			hasNullIds = true
			continue
		}
		c, row := id.Extract()
		if !arrays[c].IsValid(row) {
			mask.SetInvalid(uint64(i))
		}
		base := row * width
		for k := 0; k < width; k++ {
			childIds = append(childIds, NewChunkId[L](c, base+k))
		}
	}
	if mask != nil {
		mask.Shrink(len(by))
	}
	child := mustTake(childSeries(s.name, s.typ.Child(), children), childIds, hasNullIds)
	return NewSeries(s.name, s.typ, NewFixedSizeListArrayWithLen(width, child.chunks[0], len(by), mask))
}

// gatherStruct gathers every field with the same addresses and the outer
// validity alongside.
func gatherStruct[L Layout](s *Series, by []ChunkId[L], opt bool, sorted common.IsSorted) *Series {
	structs := downcast[*StructArray](s)
	fields := make([]Array, len(s.typ.Fields))
	for f, field := range s.typ.Fields {
		fieldChunks := make([]Array, len(structs))
		for c, arr := range structs {
			fieldChunks[c] = arr.Fields[f]
		}
		out, err := take(NewSeries(field.Name, field.Typ, fieldChunks...), by, opt, sorted)
		if err != nil {
			util.Fatalf("gather of struct field %q failed: %v", field.Name, err)
		}
		fields[f] = out.chunks[0]
	}

	var mask *util.Bitmap
	if opt || s.HasNulls() {
		mask = util.NewBitmap(len(by))
		for i, id := range by {
			if opt && id.IsNull() {
				mask.SetInvalid(uint64(i))
				continue
			}
			c, row := id.Extract()
			if !structs[c].IsValid(row) {
				mask.SetInvalid(uint64(i))
			}
		}
		mask.Shrink(len(by))
	}
	return NewSeries(s.name, s.typ, NewStructArray(fields, len(by), mask))
}

// gatherObjects feeds the addressed objects to the builder of the object
// type. Builder errors are returned as is.
func gatherObjects[L Layout](s *Series, by []ChunkId[L], opt bool) (*Series, error) {
	reg, has := LookupObject(s.typ.ObjName)
	if !has {
		util.Fatalf("implementation error: object type %s is not registered", s.typ.ObjName)
	}
	arrays := downcast[*ObjectArray](s)
	builder := reg.NewBuilder(s.name, len(by))
	for _, id := range by {
		if opt && id.IsNull() {
			builder.AppendNull()
			continue
		}
		c, row := id.Extract()
		arr := arrays[c]
		if !arr.IsValid(row) {
			builder.AppendNull()
			continue
		}
		if err := builder.Append(arr.Values[row]); err != nil {
			return nil, err
		}
	}
	out := builder.Finish()
	if out.Len() != len(by) || out.NumChunks() != 1 {
		util.Fatalf("implementation error: object builder %s produced %d rows in %d chunks, want %d rows",
			reg.Name, out.Len(), out.NumChunks(), len(by))
	}
	return out, nil
}

// gatherDecimal gathers the int64 storage and keeps precision and scale.
func gatherDecimal[L Layout](s *Series, by []ChunkId[L], opt bool) *Series {
	storage := NewSeries(s.name, common.BigintType(), s.chunks...)
	out := gatherPrimitive[int64](storage, by, opt)
	return NewSeries(s.name, s.typ, out.chunks...)
}
