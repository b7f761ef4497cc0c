package frame

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/daviszhen/gather/pkg/chunk"
	"github.com/daviszhen/gather/pkg/common"
	"github.com/daviszhen/gather/pkg/util"
)

func testTable(t *testing.T) *Table {
	ids := chunk.NewPrimitiveSeries[int64]("id", common.BigintType(),
		[]int64{1, 2, 3}, []int64{4, 5})
	names := chunk.NewStringSeries("name",
		[]string{"a fairly long name one", "b"},
		[]string{"c", "another fairly long name", "e"})
	s := "present"
	opt := chunk.NewOptStringSeries("opt", []*string{nil, &s, nil, &s, nil})
	tab, err := NewTable(ids, names, opt)
	require.NoError(t, err)
	return tab
}

func tableStrings(tab *Table) [][]string {
	ret := make([][]string, len(tab.Columns))
	for i, col := range tab.Columns {
		ret[i] = col.Strings()
	}
	return ret
}

func TestNewTableShape(t *testing.T) {
	a := chunk.NewPrimitiveSeries[int32]("a", common.IntegerType(), []int32{1, 2})
	b := chunk.NewPrimitiveSeries[int32]("b", common.IntegerType(), []int32{1})
	_, err := NewTable(a, b)
	assert.ErrorIs(t, err, util.ErrLengthShape)

	tab := testTable(t)
	assert.Equal(t, 5, tab.Height())
	assert.Equal(t, 3, tab.Width())
	col, has := tab.Column("name")
	require.True(t, has)
	assert.Equal(t, 2, col.NumChunks())
	_, has = tab.Column("nope")
	assert.False(t, has)
	assert.Len(t, tab.Types(), 3)
}

func TestTableTake(t *testing.T) {
	defer goleak.VerifyNone(t)

	tab := testTable(t)
	tab.MaxWorkers = 2
	// columns are chunked differently; addresses follow the name column
	nameOnly, err := NewTable(tab.Columns[1])
	require.NoError(t, err)
	by := []chunk.ChunkId[chunk.Bits24]{
		chunk.NewChunkId[chunk.Bits24](1, 1),
		chunk.NewChunkId[chunk.Bits24](0, 0),
		chunk.NewChunkId[chunk.Bits24](1, 2),
	}
	seq, err := TakeChunkedUnchecked(nameOnly, by, common.IsSortedNot)
	require.NoError(t, err)
	par, err := TakeChunkedUncheckedHorPar(nameOnly, by, common.IsSortedNot)
	require.NoError(t, err)
	assert.Equal(t, 3, seq.Height())
	assert.Equal(t, [][]string{{"another fairly long name", "a fairly long name one", "e"}}, tableStrings(seq))
	assert.Equal(t, tableStrings(seq), tableStrings(par))
}

func TestTableTakeAligned(t *testing.T) {
	defer goleak.VerifyNone(t)

	cols := make([]*chunk.Series, 0, 8)
	for c := 0; c < 8; c++ {
		cols = append(cols, chunk.NewStringSeries(fmt.Sprintf("c%d", c),
			[]string{fmt.Sprintf("column %d row zero value", c), "x"},
			[]string{fmt.Sprintf("column %d row two value", c)}))
	}
	tab, err := NewTable(cols...)
	require.NoError(t, err)
	tab.MaxWorkers = 3

	by := []chunk.ChunkId[chunk.Bits16]{
		chunk.NewChunkId[chunk.Bits16](1, 0),
		chunk.NullChunkId[chunk.Bits16](),
		chunk.NewChunkId[chunk.Bits16](0, 1),
		chunk.NewChunkId[chunk.Bits16](0, 0),
	}
	seq, err := TakeOptChunkedUnchecked(tab, by)
	require.NoError(t, err)
	par, err := TakeOptChunkedUncheckedHorPar(tab, by)
	require.NoError(t, err)
	assert.Equal(t, 4, par.Height())
	assert.Equal(t, tableStrings(seq), tableStrings(par))
	assert.Equal(t, []string{"column 5 row two value", "NULL", "x", "column 5 row zero value"}, par.Columns[5].Strings())

	nonNull := []chunk.ChunkId[chunk.Bits16]{by[0], by[2]}
	seq, err = TakeChunked(tab, nonNull, common.IsSortedNot)
	require.NoError(t, err)
	par, err = TakeChunkedUncheckedHorPar(tab, nonNull, common.IsSortedNot)
	require.NoError(t, err)
	assert.Equal(t, tableStrings(seq), tableStrings(par))

	_, err = TakeChunked(tab, by, common.IsSortedNot)
	assert.ErrorIs(t, err, util.ErrNullAddress)

	out, err := TakeOptChunked(tab, by)
	require.NoError(t, err)
	assert.Equal(t, 4, out.Height())
	assert.Equal(t, 8, out.MaybeGC().Width())
	assert.Contains(t, out.TreeString(), "table 4 x 8")
	out.Print2("row", 2)
}

func TestApplyColumnsParErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	tab := testTable(t)
	boom := errors.New("boom")
	_, err := tab.ApplyColumnsPar(func(s *chunk.Series) (*chunk.Series, error) {
		if s.Name() == "name" {
			return nil, boom
		}
		return s, nil
	})
	assert.ErrorIs(t, err, boom)

	_, err = tab.ApplyColumnsPar(func(s *chunk.Series) (*chunk.Series, error) {
		if s.Name() == "opt" {
			panic("bad column")
		}
		return s, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad column")

	_, err = tab.ApplyColumns(func(s *chunk.Series) (*chunk.Series, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}
