package chunk

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviszhen/gather/pkg/common"
	"github.com/daviszhen/gather/pkg/util"
)

func ptr[T any](v T) *T {
	return &v
}

func ids24(pairs ...[2]int) []ChunkId[Bits24] {
	ret := make([]ChunkId[Bits24], len(pairs))
	for i, p := range pairs {
		if p[0] < 0 {
			ret[i] = NullChunkId[Bits24]()
			continue
		}
		ret[i] = NewChunkId[Bits24](p[0], p[1])
	}
	return ret
}

var nullPair = [2]int{-1, -1}

// naiveTake gathers by reading every element through Series.Get.
func naiveTake[L Layout](s *Series, by []ChunkId[L]) []string {
	offsets := util.PrefixSum(s.ChunkLens())
	ret := make([]string, len(by))
	for i, id := range by {
		c, row, ok := id.Get()
		if !ok {
			ret[i] = "NULL"
			continue
		}
		ret[i] = s.Get(offsets[c] + row).String()
	}
	return ret
}

func longStringSeries() *Series {
	return NewStringSeries("a",
		[]string{"1 long string", "2 long string"},
		[]string{"11 long string", "22 long string"},
		[]string{"111 long string", "222 long string", "small"},
	)
}

func TestTakeChunkedText(t *testing.T) {
	s := longStringSeries()
	by := ids24(
		[2]int{0, 0}, [2]int{0, 1}, [2]int{1, 1}, [2]int{1, 0},
		[2]int{2, 0}, [2]int{2, 1}, [2]int{2, 2},
	)
	out, err := TakeChunkedUnchecked(s, by, common.IsSortedNot)
	require.NoError(t, err)
	require.Equal(t, 1, out.NumChunks())
	require.Equal(t, 7, out.Len())

	flat := s.Strings()
	expect := make([]string, 0, 7)
	for _, pos := range []int{0, 1, 3, 2, 4, 5, 6} {
		expect = append(expect, flat[pos])
	}
	assert.Equal(t, expect, out.Strings())
	assert.Equal(t, naiveTake(s, by), out.Strings())
	assert.Equal(t, "a", out.Name())
	assert.True(t, out.Typ().Equal(common.VarcharType()))
}

func TestTakeOptChunkedText(t *testing.T) {
	s := longStringSeries()
	by := ids24(nullPair, [2]int{0, 1}, [2]int{1, 1}, [2]int{1, 0})
	out, err := TakeOptChunkedUnchecked(s, by)
	require.NoError(t, err)
	assert.Equal(t, []string{"NULL", "2 long string", "22 long string", "11 long string"}, out.Strings())
	assert.Equal(t, 1, out.NullCount())
	assert.True(t, out.Get(0).IsNull)
	assert.Equal(t, common.IsSortedNot, out.SortedFlag())
}

func TestTakeChunkedPrimitive(t *testing.T) {
	s := NewPrimitiveSeries[int32]("i", common.IntegerType(),
		[]int32{1, 2, 3},
		[]int32{},
		[]int32{4, 5},
	)
	by := ids24([2]int{2, 1}, [2]int{0, 0}, [2]int{2, 1}, [2]int{0, 2})
	out, err := TakeChunkedUnchecked(s, by, common.IsSortedNot)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "1", "5", "3"}, out.Strings())
	assert.Equal(t, 0, out.NullCount())
	assert.Nil(t, out.Chunk(0).Validity())
}

func TestTakeChunkedSourceNulls(t *testing.T) {
	s := NewOptPrimitiveSeries[float64]("f", common.DoubleType(),
		[]*float64{ptr(1.5), nil},
		[]*float64{nil, ptr(2.5)},
	)
	by := ids24([2]int{0, 1}, [2]int{1, 1}, [2]int{0, 0}, [2]int{1, 0})
	out, err := TakeChunkedUnchecked(s, by, common.IsSortedNot)
	require.NoError(t, err)
	assert.Equal(t, []string{"NULL", "2.5", "1.5", "NULL"}, out.Strings())
	assert.Equal(t, 2, out.NullCount())

	optBy := ids24([2]int{0, 1}, nullPair, [2]int{1, 1})
	out, err = TakeOptChunkedUnchecked(s, optBy)
	require.NoError(t, err)
	assert.Equal(t, []string{"NULL", "NULL", "2.5"}, out.Strings())
	assert.Equal(t, 2, out.NullCount())
}

func TestTakeChunkedEmpty(t *testing.T) {
	s := NewPrimitiveSeries[int64]("e", common.BigintType(), []int64{1, 2})
	out, err := TakeChunkedUnchecked(s, []ChunkId[Bits24]{}, common.IsSortedAscending)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, 1, out.NumChunks())

	out, err = TakeOptChunkedUnchecked(longStringSeries(), []ChunkId[Bits24]{})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, 1, out.NumChunks())
}

func TestTakeChunkedAllTypesMatchNaive(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	chunkLens := []int{5, 1, 0, 9, 4}

	bools := make([][]*bool, len(chunkLens))
	u16s := make([][]*uint16, len(chunkLens))
	i8s := make([][]int8, len(chunkLens))
	strs := make([][]*string, len(chunkLens))
	words := []string{"", "x", "twelve bytes", "thirteen byte", "a much longer string value"}
	for c, n := range chunkLens {
		for i := 0; i < n; i++ {
			if r.Intn(4) == 0 {
				bools[c] = append(bools[c], nil)
				u16s[c] = append(u16s[c], nil)
				strs[c] = append(strs[c], nil)
			} else {
				bools[c] = append(bools[c], ptr(r.Intn(2) == 0))
				u16s[c] = append(u16s[c], ptr(uint16(r.Intn(1000))))
				strs[c] = append(strs[c], ptr(words[r.Intn(len(words))]))
			}
			i8s[c] = append(i8s[c], int8(r.Intn(200)-100))
		}
	}
	series := []*Series{
		NewOptPrimitiveSeries("b", common.BooleanType(), bools...),
		NewOptPrimitiveSeries("u", common.UsmallintType(), u16s...),
		NewPrimitiveSeries("i", common.TinyintType(), i8s...),
		NewOptStringSeries("s", strs...),
	}

	var by, optBy []ChunkId[Bits16]
	for i := 0; i < 100; i++ {
		c := r.Intn(len(chunkLens))
		for chunkLens[c] == 0 {
			c = r.Intn(len(chunkLens))
		}
		id := NewChunkId[Bits16](c, r.Intn(chunkLens[c]))
		by = append(by, id)
		if i%7 == 0 {
			optBy = append(optBy, NullChunkId[Bits16]())
		} else {
			optBy = append(optBy, id)
		}
	}

	for _, s := range series {
		out, err := TakeChunkedUnchecked(s, by, common.IsSortedNot)
		require.NoError(t, err)
		assert.Equal(t, naiveTake(s, by), out.Strings(), s.Name())

		out, err = TakeOptChunkedUnchecked(s, optBy)
		require.NoError(t, err)
		assert.Equal(t, naiveTake(s, optBy), out.Strings(), s.Name())
	}
}

func TestTakeSingleChunkFastPath(t *testing.T) {
	single := NewPrimitiveSeries[uint64]("u", common.UbigintType(), []uint64{10, 20, 30, 40})
	multi := NewPrimitiveSeries[uint64]("u", common.UbigintType(), []uint64{10, 20}, []uint64{30, 40})

	singleBy := ids24([2]int{0, 3}, [2]int{0, 0}, [2]int{0, 2})
	multiBy := ids24([2]int{1, 1}, [2]int{0, 0}, [2]int{1, 0})
	a, err := TakeChunkedUnchecked(single, singleBy, common.IsSortedNot)
	require.NoError(t, err)
	b, err := TakeChunkedUnchecked(multi, multiBy, common.IsSortedNot)
	require.NoError(t, err)
	assert.Equal(t, a.Strings(), b.Strings())
	assert.Equal(t, []string{"40", "10", "30"}, a.Strings())
}

func TestTakeSingleChunkFastPathViews(t *testing.T) {
	vals := []string{
		"first value that is not inlined",
		"tiny",
		"third value that is not inlined either",
		"fourth long value living in a buffer",
	}
	single := NewStringSeries("v", vals)
	multi := NewStringSeries("v", vals[:2], vals[2:])

	singleBy := ids24([2]int{0, 3}, [2]int{0, 1}, [2]int{0, 0}, [2]int{0, 2}, [2]int{0, 3})
	multiBy := ids24([2]int{1, 1}, [2]int{0, 1}, [2]int{0, 0}, [2]int{1, 0}, [2]int{1, 1})
	a, err := TakeChunkedUnchecked(single, singleBy, common.IsSortedNot)
	require.NoError(t, err)
	b, err := TakeChunkedUnchecked(multi, multiBy, common.IsSortedNot)
	require.NoError(t, err)
	assert.Equal(t, []string{vals[3], vals[1], vals[0], vals[2], vals[3]}, a.Strings())
	assert.Equal(t, a.Strings(), b.Strings())
	assert.Equal(t, a.Chunk(0).(*ViewArray).TotalBytesLen(), b.Chunk(0).(*ViewArray).TotalBytesLen())

	singleOpt := append(singleBy, NullChunkId[Bits24]())
	multiOpt := append(multiBy, NullChunkId[Bits24]())
	a, err = TakeOptChunkedUnchecked(single, singleOpt)
	require.NoError(t, err)
	b, err = TakeOptChunkedUnchecked(multi, multiOpt)
	require.NoError(t, err)
	assert.Equal(t, a.Strings(), b.Strings())
	assert.Equal(t, "NULL", a.Strings()[5])
}

func TestTakeSortedFlag(t *testing.T) {
	s := NewPrimitiveSeries[int32]("i", common.IntegerType(), []int32{1, 2}, []int32{3})
	s.SetSortedFlag(common.IsSortedAscending)
	by := IdentityChunkIds[Bits24](s.ChunkLens())

	out, err := TakeChunkedUnchecked(s, by, common.IsSortedAscending)
	require.NoError(t, err)
	assert.Equal(t, common.IsSortedAscending, out.SortedFlag())
	assert.Equal(t, s.Strings(), out.Strings())

	out, err = TakeChunkedUnchecked(s, by, common.IsSortedNot)
	require.NoError(t, err)
	assert.Equal(t, common.IsSortedNot, out.SortedFlag())

	out, err = TakeChunkedUnchecked(s, by, common.IsSortedDescending)
	require.NoError(t, err)
	assert.Equal(t, common.IsSortedNot, out.SortedFlag())

	out, err = TakeOptChunkedUnchecked(s, by)
	require.NoError(t, err)
	assert.Equal(t, common.IsSortedNot, out.SortedFlag())
}

func TestTakeChecked(t *testing.T) {
	s := NewPrimitiveSeries[int32]("i", common.IntegerType(), []int32{1, 2}, []int32{3})

	_, err := TakeChunked(s, ids24([2]int{0, 2}), common.IsSortedNot)
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrOutOfBounds)

	_, err = TakeChunked(s, ids24([2]int{2, 0}), common.IsSortedNot)
	assert.ErrorIs(t, err, util.ErrOutOfBounds)

	_, err = TakeChunked(s, ids24(nullPair), common.IsSortedNot)
	assert.ErrorIs(t, err, util.ErrNullAddress)

	_, err = TakeOptChunked(s, ids24(nullPair, [2]int{1, 1}))
	assert.ErrorIs(t, err, util.ErrOutOfBounds)

	out, err := TakeOptChunked(s, ids24(nullPair, [2]int{1, 0}))
	require.NoError(t, err)
	assert.Equal(t, []string{"NULL", "3"}, out.Strings())

	out, err = TakeChunked(s, ids24([2]int{1, 0}, [2]int{0, 1}), common.IsSortedNot)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "2"}, out.Strings())
}

func TestTakeChunkTypeMismatchIsFatal(t *testing.T) {
	s := NewPrimitiveSeries[int32]("i", common.IntegerType(), []int32{1})
	broken := NewSeries("i", common.IntegerType(), NewPrimitiveArray([]int64{1}, nil))
	require.NotPanics(t, func() {
		_, _ = TakeChunkedUnchecked(s, ids24([2]int{0, 0}), common.IsSortedNot)
	})
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, util.IsInternal(err))
	}()
	_, _ = TakeChunkedUnchecked(broken, ids24([2]int{0, 0}), common.IsSortedNot)
}
