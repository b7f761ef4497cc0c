package source

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/daviszhen/gather/pkg/chunk"
	"github.com/daviszhen/gather/pkg/common"
	"github.com/daviszhen/gather/pkg/frame"
	"github.com/daviszhen/gather/pkg/util"
)

// Column is one column to read. Columns are read by position.
type Column struct {
	Name string
	Typ  common.LType
}

func ColumnsFromOptions(opts []util.ColumnOptions) ([]Column, error) {
	ret := make([]Column, 0, len(opts))
	for _, opt := range opts {
		typ, err := common.ScalarType(opt.Type, opt.Width, opt.Scale)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", opt.Name)
		}
		ret = append(ret, Column{Name: opt.Name, Typ: typ})
	}
	return ret, nil
}

// Load reads the input into a table with one chunk per batch of
// opts.ChunkRows rows.
func Load(opts util.InputOptions) (*frame.Table, error) {
	cols, err := ColumnsFromOptions(opts.Columns)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, errors.New("no input columns configured")
	}
	chunkRows := opts.ChunkRows
	if chunkRows <= 0 {
		chunkRows = util.DefaultVectorSize
	}
	if !util.FileIsValid(opts.Path) {
		return nil, errors.Errorf("input file %s is not valid", opts.Path)
	}

	var tab *frame.Table
	switch strings.ToLower(opts.Format) {
	case "parquet":
		tab, err = LoadParquet(opts.Path, cols, chunkRows)
	case "csv":
		tab, err = LoadCsv(opts.Path, cols, chunkRows)
	default:
		return nil, errors.Errorf("usp input format %s", opts.Format)
	}
	if err != nil {
		return nil, err
	}
	util.Info("input loaded",
		zap.String("path", opts.Path),
		zap.String("format", opts.Format),
		zap.Int("rows", tab.Height()),
		zap.Int("columns", tab.Width()),
		zap.Int("chunks", tab.Columns[0].NumChunks()))
	return tab, nil
}

// batchBuilder accumulates one chunk per column.
type batchBuilder struct {
	cols     []Column
	builders []chunk.ArrayBuilder
	series   []*chunk.Series
}

func newBatchBuilder(cols []Column) *batchBuilder {
	ret := &batchBuilder{
		cols:     cols,
		builders: make([]chunk.ArrayBuilder, len(cols)),
		series:   make([]*chunk.Series, len(cols)),
	}
	for i, col := range cols {
		ret.series[i] = chunk.NewSeries(col.Name, col.Typ)
	}
	return ret
}

func (bb *batchBuilder) begin(capacity int) error {
	for i, col := range bb.cols {
		b, err := chunk.NewArrayBuilder(col.Typ, capacity)
		if err != nil {
			return errors.Wrapf(err, "column %q", col.Name)
		}
		bb.builders[i] = b
	}
	return nil
}

func (bb *batchBuilder) append(col int, val *chunk.Value) error {
	return bb.builders[col].AppendValue(val)
}

// flush closes the current batch. Empty batches add no chunk.
func (bb *batchBuilder) flush() error {
	rows := bb.builders[0].Len()
	for i, b := range bb.builders {
		if b.Len() != rows {
			return errors.Wrapf(util.ErrLengthShape, "column %q has %d values in batch, want %d",
				bb.cols[i].Name, b.Len(), rows)
		}
	}
	if rows == 0 {
		return nil
	}
	for i, b := range bb.builders {
		arr := b.Finish()
		if err := bb.series[i].Append(chunk.NewSeries(bb.cols[i].Name, bb.cols[i].Typ, arr)); err != nil {
			return err
		}
	}
	return nil
}

func (bb *batchBuilder) table() (*frame.Table, error) {
	return frame.NewTable(bb.series...)
}
