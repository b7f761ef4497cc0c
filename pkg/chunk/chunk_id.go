package chunk

import (
	"fmt"

	"github.com/daviszhen/gather/pkg/util"
)

// Layout fixes how many of the 64 address bits name the chunk. The rest
// name the row inside the chunk. Implementations are empty structs so the
// split is resolved per call site at compile time.
type Layout interface {
	ChunkBits() uint64
}

type Bits16 struct{}

func (Bits16) ChunkBits() uint64 { return 16 }

type Bits24 struct{}

func (Bits24) ChunkBits() uint64 { return 24 }

type Bits32 struct{}

func (Bits32) ChunkBits() uint64 { return 32 }

// ChunkId addresses one element of a chunked column, or nothing (null).
// The all-ones pattern is the null sentinel.
type ChunkId[L Layout] struct {
	swizzled uint64
}

const nullSwizzled = ^uint64(0)

func rowBits[L Layout]() uint64 {
	var l L
	return 64 - l.ChunkBits()
}

// NewChunkId encodes (chunk, row). The pair must fit the layout and must
// not collide with the null sentinel.
func NewChunkId[L Layout](chunk, row int) ChunkId[L] {
	rb := rowBits[L]()
	c, r := uint64(chunk), uint64(row)
	util.AssertFunc(chunk >= 0 && row >= 0)
	util.AssertFunc(c>>(64-rb) == 0 && r>>rb == 0)
	id := ChunkId[L]{swizzled: c<<rb | r}
	util.AssertFunc(id.swizzled != nullSwizzled)
	return id
}

func NullChunkId[L Layout]() ChunkId[L] {
	return ChunkId[L]{swizzled: nullSwizzled}
}

// ChunkIdFromRaw reinterprets an encoded value, e.g. one produced by a
// join operator that stores addresses as plain uint64.
func ChunkIdFromRaw[L Layout](raw uint64) ChunkId[L] {
	return ChunkId[L]{swizzled: raw}
}

func (id ChunkId[L]) Raw() uint64 {
	return id.swizzled
}

func (id ChunkId[L]) IsNull() bool {
	return id.swizzled == nullSwizzled
}

// Extract decodes the pair without looking at the null sentinel. Callers
// check IsNull first when nulls are possible.
func (id ChunkId[L]) Extract() (chunk, row int) {
	rb := rowBits[L]()
	return int(id.swizzled >> rb), int(id.swizzled & (uint64(1)<<rb - 1))
}

// Get decodes the pair. ok is false iff id is the null sentinel.
func (id ChunkId[L]) Get() (chunk, row int, ok bool) {
	if id.IsNull() {
		return 0, 0, false
	}
	chunk, row = id.Extract()
	return chunk, row, true
}

func (id ChunkId[L]) String() string {
	if id.IsNull() {
		return "null"
	}
	c, r := id.Extract()
	return fmt.Sprintf("(%d,%d)", c, r)
}

// IdentityChunkIds addresses every element of chunks with the given
// lengths, in order.
func IdentityChunkIds[L Layout](chunkLens []int) []ChunkId[L] {
	total := 0
	for _, l := range chunkLens {
		total += l
	}
	ret := make([]ChunkId[L], 0, total)
	for c, l := range chunkLens {
		for r := 0; r < l; r++ {
			ret = append(ret, NewChunkId[L](c, r))
		}
	}
	return ret
}
