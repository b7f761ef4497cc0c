package chunk

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/daviszhen/gather/pkg/common"
	"github.com/daviszhen/gather/pkg/util"
)

// Series is a named, typed column made of one or more chunks. Chunks are
// immutable and may be shared between series.
type Series struct {
	name      string
	typ       common.LType
	chunks    []Array
	length    int
	nullCount int
	sorted    common.IsSorted
	// row offsets of the chunks, len(chunks)+1 entries
	offsets []int
}

func NewSeries(name string, typ common.LType, chunks ...Array) *Series {
	ret := &Series{
		name:   name,
		typ:    typ,
		chunks: chunks,
	}
	for _, arr := range chunks {
		ret.length += arr.Len()
		ret.nullCount += arr.NullCount()
	}
	ret.offsets = util.PrefixSum(ret.ChunkLens())
	return ret
}

// NewNullSeries is a single chunk column of the null type.
func NewNullSeries(name string, length int) *Series {
	return NewSeries(name, common.Null(), NewNullArray(length))
}

func (s *Series) Name() string {
	return s.name
}

func (s *Series) Rename(name string) *Series {
	ret := *s
	ret.name = name
	return &ret
}

func (s *Series) Typ() common.LType {
	return s.typ
}

func (s *Series) Len() int {
	return s.length
}

func (s *Series) NullCount() int {
	return s.nullCount
}

func (s *Series) HasNulls() bool {
	return s.nullCount > 0
}

func (s *Series) NumChunks() int {
	return len(s.chunks)
}

func (s *Series) Chunk(i int) Array {
	return s.chunks[i]
}

func (s *Series) Chunks() []Array {
	return s.chunks
}

func (s *Series) ChunkLens() []int {
	ret := make([]int, len(s.chunks))
	for i, arr := range s.chunks {
		ret[i] = arr.Len()
	}
	return ret
}

func (s *Series) SortedFlag() common.IsSorted {
	return s.sorted
}

func (s *Series) SetSortedFlag(flag common.IsSorted) {
	s.sorted = flag
}

// Append adds the chunks of other to s. The chunks are shared, not copied.
func (s *Series) Append(other *Series) error {
	if !s.typ.Equal(other.typ) {
		return errors.Errorf("append %v to column %q of type %v", other.typ, s.name, s.typ)
	}
	s.chunks = append(s.chunks, other.chunks...)
	s.length += other.length
	s.nullCount += other.nullCount
	s.offsets = util.PrefixSum(s.ChunkLens())
	s.sorted = common.IsSortedNot
	return nil
}

// ToPhysical reinterprets the column as its storage type. The chunks are
// shared.
func (s *Series) ToPhysical() *Series {
	phy := s.typ.PhysicalType()
	if phy.Equal(s.typ) {
		return s
	}
	ret := *s
	ret.typ = phy
	return &ret
}

// FromPhysical is the inverse of ToPhysical.
func (s *Series) FromPhysical(typ common.LType) *Series {
	if typ.Equal(s.typ) {
		return s
	}
	if typ.PTyp != s.typ.PTyp {
		util.Fatalf("implementation error: restore %v from physical %v", typ, s.typ)
	}
	ret := *s
	ret.typ = typ
	return &ret
}

// locate maps a row of the whole column to (chunk, row in chunk).
func (s *Series) locate(idx int) (int, int) {
	if len(s.chunks) == 1 {
		return 0, idx
	}
	c := sort.Search(len(s.chunks), func(i int) bool {
		return s.offsets[i+1] > idx
	})
	return c, idx - s.offsets[c]
}

// Get reads the element at row idx of the whole column.
func (s *Series) Get(idx int) *Value {
	if idx < 0 || idx >= s.length {
		panic(fmt.Sprintf("row %d out of range [0,%d)", idx, s.length))
	}
	c, row := s.locate(idx)
	return valueAt(s.chunks[c], s.typ, row)
}

// GetChunked reads the element at (chunk, row).
func (s *Series) GetChunked(chunk, row int) *Value {
	return valueAt(s.chunks[chunk], s.typ, row)
}

// Values materializes the whole column.
func (s *Series) Values() []*Value {
	ret := make([]*Value, 0, s.length)
	for _, arr := range s.chunks {
		for row := 0; row < arr.Len(); row++ {
			ret = append(ret, valueAt(arr, s.typ, row))
		}
	}
	return ret
}

// Strings renders every element.
func (s *Series) Strings() []string {
	vals := s.Values()
	ret := make([]string, len(vals))
	for i, val := range vals {
		ret[i] = val.String()
	}
	return ret
}

// Rechunk returns a single chunk column with the same values.
func (s *Series) Rechunk() (*Series, error) {
	if len(s.chunks) == 1 {
		return s, nil
	}
	ids := IdentityChunkIds[Bits32](s.ChunkLens())
	return TakeChunkedUnchecked(s, ids, common.IsSortedAscending)
}

// MaybeGC compacts the view buffers of VARCHAR and BINARY chunks.
func (s *Series) MaybeGC() *Series {
	if !s.typ.PTyp.IsView() {
		return s
	}
	chunks := make([]Array, len(s.chunks))
	for i, arr := range s.chunks {
		views := arr.(*ViewArray)
		chunks[i] = views.MaybeGC()
		if chunks[i] != arr {
			util.Debug("view buffers compacted",
				zap.String("column", s.name),
				zap.Int("chunk", i),
				zap.Int("before", views.TotalBufferLen()),
				zap.Int("after", chunks[i].(*ViewArray).TotalBufferLen()))
		}
	}
	ret := NewSeries(s.name, s.typ, chunks...)
	ret.sorted = s.sorted
	return ret
}
