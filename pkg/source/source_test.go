package source

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pqLocal "github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/daviszhen/gather/pkg/chunk"
	"github.com/daviszhen/gather/pkg/common"
	"github.com/daviszhen/gather/pkg/frame"
	"github.com/daviszhen/gather/pkg/util"
)

type lineItem struct {
	Id       int64   `parquet:"name=id, type=INT64"`
	Name     string  `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Price    int64   `parquet:"name=price, type=INT64, convertedtype=DECIMAL, scale=2, precision=10"`
	ShipDate int32   `parquet:"name=shipdate, type=INT32, convertedtype=DATE"`
	Comment  *string `parquet:"name=comment, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
}

func writeLineItems(t *testing.T, path string, n int) {
	fw, err := pqLocal.NewLocalFileWriter(path)
	require.NoError(t, err)
	pw, err := writer.NewParquetWriter(fw, new(lineItem), 1)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		item := lineItem{
			Id:       int64(i),
			Name:     fmt.Sprintf("line item number %d", i),
			Price:    int64(i*100 + 5),
			ShipDate: int32(19723 + i),
		}
		if i%3 != 0 {
			c := fmt.Sprintf("c%d", i)
			item.Comment = &c
		}
		require.NoError(t, pw.Write(item))
	}
	require.NoError(t, pw.WriteStop())
	require.NoError(t, fw.Close())
}

func lineItemOptions(path string) util.InputOptions {
	return util.InputOptions{
		Path:      path,
		Format:    "parquet",
		ChunkRows: 4,
		Columns: []util.ColumnOptions{
			{Name: "id", Type: "bigint"},
			{Name: "name", Type: "varchar"},
			{Name: "price", Type: "decimal", Width: 10, Scale: 2},
			{Name: "shipdate", Type: "date"},
			{Name: "comment", Type: "varchar"},
		},
	}
}

func TestLoadParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lineitem.parquet")
	writeLineItems(t, path, 10)

	tab, err := Load(lineItemOptions(path))
	require.NoError(t, err)
	require.Equal(t, 10, tab.Height())
	require.Equal(t, 5, tab.Width())
	for _, col := range tab.Columns {
		assert.Equal(t, []int{4, 4, 2}, col.ChunkLens(), col.Name())
	}

	id, _ := tab.Column("id")
	assert.Equal(t, "7", id.Get(7).String())
	price, _ := tab.Column("price")
	assert.Equal(t, "7.05", price.Get(7).String())
	ship, _ := tab.Column("shipdate")
	assert.Equal(t, "2024-01-02", ship.Get(1).String())
	comment, _ := tab.Column("comment")
	assert.True(t, comment.Get(3).IsNull)
	assert.Equal(t, "c4", comment.Get(4).String())

	// gather across batches
	by := []chunk.ChunkId[chunk.Bits24]{
		chunk.NewChunkId[chunk.Bits24](2, 1),
		chunk.NewChunkId[chunk.Bits24](0, 0),
		chunk.NewChunkId[chunk.Bits24](1, 1),
	}
	out, err := frame.TakeChunkedUncheckedHorPar(tab, by, common.IsSortedNot)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Height())
	name, _ := out.Column("name")
	assert.Equal(t, []string{"line item number 9", "line item number 0", "line item number 5"}, name.Strings())
	comment, _ = out.Column("comment")
	assert.Equal(t, []string{"NULL", "NULL", "c5"}, comment.Strings())
}

func TestLoadErrors(t *testing.T) {
	opts := lineItemOptions(filepath.Join(t.TempDir(), "missing.parquet"))
	_, err := Load(opts)
	assert.Error(t, err)

	opts.Columns = []util.ColumnOptions{{Name: "x", Type: "geometry"}}
	_, err = Load(opts)
	assert.ErrorIs(t, err, util.ErrUnknownType)

	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("1\n"), 0644))
	_, err = Load(util.InputOptions{
		Path:    path,
		Format:  "orc",
		Columns: []util.ColumnOptions{{Name: "x", Type: "integer"}},
	})
	assert.Error(t, err)
}

func TestLoadCsv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	data := "1,alpha,1.50,2024-01-01,true\n" +
		"2,,,2024-01-02,\n" +
		"3,gamma with a long tail,-2.25,,false\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	tab, err := Load(util.InputOptions{
		Path:      path,
		Format:    "csv",
		ChunkRows: 2,
		Columns: []util.ColumnOptions{
			{Name: "id", Type: "integer"},
			{Name: "name", Type: "varchar"},
			{Name: "amount", Type: "decimal", Width: 8, Scale: 2},
			{Name: "day", Type: "date"},
			{Name: "flag", Type: "boolean"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 3, tab.Height())
	id, _ := tab.Column("id")
	assert.Equal(t, []int{2, 1}, id.ChunkLens())

	rows := make([]string, 0, 3)
	for i := 0; i < tab.Height(); i++ {
		row := ""
		for _, col := range tab.Columns {
			row += col.Get(i).String() + "|"
		}
		rows = append(rows, row)
	}
	assert.Equal(t, []string{
		"1|alpha|1.50|2024-01-01|true|",
		"2||NULL|2024-01-02|NULL|",
		"3|gamma with a long tail|-2.25|NULL|false|",
	}, rows)
}

func TestDaysSinceEpoch(t *testing.T) {
	v, err := csvFieldToValue("1969-12-31", common.DateType())
	require.NoError(t, err)
	assert.Equal(t, int64(-1), v.I64)
	v, err = csvFieldToValue("1970-01-01", common.DateType())
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.I64)
}
