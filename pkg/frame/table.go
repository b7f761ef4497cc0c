// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package frame

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/xlab/treeprint"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/daviszhen/gather/pkg/chunk"
	"github.com/daviszhen/gather/pkg/common"
	"github.com/daviszhen/gather/pkg/util"
	"github.com/daviszhen/gather/pkg/util/metric"
)

// Table is an ordered set of equally long columns. Columns may be chunked
// differently.
type Table struct {
	Columns    []*chunk.Series
	MaxWorkers int
}

func NewTable(columns ...*chunk.Series) (*Table, error) {
	for i := 1; i < len(columns); i++ {
		if columns[i].Len() != columns[0].Len() {
			return nil, errors.Wrapf(util.ErrLengthShape, "column %q has %d rows, column %q has %d",
				columns[i].Name(), columns[i].Len(), columns[0].Name(), columns[0].Len())
		}
	}
	return &Table{Columns: columns}, nil
}

// newTableHeightFromFirst trusts the columns to be equally long.
func newTableHeightFromFirst(columns []*chunk.Series, maxWorkers int) *Table {
	return &Table{Columns: columns, MaxWorkers: maxWorkers}
}

func (tab *Table) Height() int {
	if len(tab.Columns) == 0 {
		return 0
	}
	return tab.Columns[0].Len()
}

func (tab *Table) Width() int {
	return len(tab.Columns)
}

func (tab *Table) Column(name string) (*chunk.Series, bool) {
	for _, col := range tab.Columns {
		if col.Name() == name {
			return col, true
		}
	}
	return nil, false
}

func (tab *Table) Types() []common.LType {
	ret := make([]common.LType, len(tab.Columns))
	for i, col := range tab.Columns {
		ret[i] = col.Typ()
	}
	return ret
}

// ApplyColumns runs fn on every column in order.
func (tab *Table) ApplyColumns(fn func(*chunk.Series) (*chunk.Series, error)) ([]*chunk.Series, error) {
	start := time.Now()
	defer func() {
		metric.TableFanOutHistogram.WithLabelValues(metric.ModeSequential).Observe(time.Since(start).Seconds())
	}()
	ret := make([]*chunk.Series, len(tab.Columns))
	for i, col := range tab.Columns {
		out, err := fn(col)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", col.Name())
		}
		ret[i] = out
	}
	return ret, nil
}

// ApplyColumnsPar runs fn on every column, one goroutine per column and at
// most MaxWorkers at a time. A panic in fn becomes the returned error.
func (tab *Table) ApplyColumnsPar(fn func(*chunk.Series) (*chunk.Series, error)) ([]*chunk.Series, error) {
	start := time.Now()
	defer func() {
		metric.TableFanOutHistogram.WithLabelValues(metric.ModeParallel).Observe(time.Since(start).Seconds())
	}()
	ret := make([]*chunk.Series, len(tab.Columns))
	wg := errgroup.Group{}
	if tab.MaxWorkers > 0 {
		wg.SetLimit(tab.MaxWorkers)
	}
	for i, col := range tab.Columns {
		wg.Go(func() (retErr error) {
			defer func() {
				if xre := recover(); xre != nil {
					retErr = util.ConvertPanicError(xre)
				}
			}()
			out, err := fn(col)
			if err != nil {
				return errors.Wrapf(err, "column %q", col.Name())
			}
			ret[i] = out
			return nil
		})
	}
	if err := wg.Wait(); err != nil {
		util.Error("parallel column apply failed", zap.Int("columns", len(tab.Columns)), zap.Error(err))
		return nil, err
	}
	return ret, nil
}

// TakeChunkedUnchecked gathers every column with the same addresses.
func TakeChunkedUnchecked[L chunk.Layout](tab *Table, by []chunk.ChunkId[L], sorted common.IsSorted) (*Table, error) {
	cols, err := tab.ApplyColumns(func(s *chunk.Series) (*chunk.Series, error) {
		return chunk.TakeChunkedUnchecked(s, by, sorted)
	})
	if err != nil {
		return nil, err
	}
	return newTableHeightFromFirst(cols, tab.MaxWorkers), nil
}

// TakeOptChunkedUnchecked is TakeChunkedUnchecked where null addresses
// produce null rows.
func TakeOptChunkedUnchecked[L chunk.Layout](tab *Table, by []chunk.ChunkId[L]) (*Table, error) {
	cols, err := tab.ApplyColumns(func(s *chunk.Series) (*chunk.Series, error) {
		return chunk.TakeOptChunkedUnchecked(s, by)
	})
	if err != nil {
		return nil, err
	}
	return newTableHeightFromFirst(cols, tab.MaxWorkers), nil
}

// TakeChunkedUncheckedHorPar is TakeChunkedUnchecked with the columns
// gathered in parallel.
func TakeChunkedUncheckedHorPar[L chunk.Layout](tab *Table, by []chunk.ChunkId[L], sorted common.IsSorted) (*Table, error) {
	cols, err := tab.ApplyColumnsPar(func(s *chunk.Series) (*chunk.Series, error) {
		return chunk.TakeChunkedUnchecked(s, by, sorted)
	})
	if err != nil {
		return nil, err
	}
	return newTableHeightFromFirst(cols, tab.MaxWorkers), nil
}

// TakeOptChunkedUncheckedHorPar is TakeOptChunkedUnchecked with the columns
// gathered in parallel.
func TakeOptChunkedUncheckedHorPar[L chunk.Layout](tab *Table, by []chunk.ChunkId[L]) (*Table, error) {
	cols, err := tab.ApplyColumnsPar(func(s *chunk.Series) (*chunk.Series, error) {
		return chunk.TakeOptChunkedUnchecked(s, by)
	})
	if err != nil {
		return nil, err
	}
	return newTableHeightFromFirst(cols, tab.MaxWorkers), nil
}

// TakeChunked validates the addresses against every column first.
func TakeChunked[L chunk.Layout](tab *Table, by []chunk.ChunkId[L], sorted common.IsSorted) (*Table, error) {
	cols, err := tab.ApplyColumns(func(s *chunk.Series) (*chunk.Series, error) {
		return chunk.TakeChunked(s, by, sorted)
	})
	if err != nil {
		return nil, err
	}
	return newTableHeightFromFirst(cols, tab.MaxWorkers), nil
}

// TakeOptChunked validates the non-null addresses against every column first.
func TakeOptChunked[L chunk.Layout](tab *Table, by []chunk.ChunkId[L]) (*Table, error) {
	cols, err := tab.ApplyColumns(func(s *chunk.Series) (*chunk.Series, error) {
		return chunk.TakeOptChunked(s, by)
	})
	if err != nil {
		return nil, err
	}
	return newTableHeightFromFirst(cols, tab.MaxWorkers), nil
}

// MaybeGC compacts the view buffers of every column.
func (tab *Table) MaybeGC() *Table {
	cols := make([]*chunk.Series, len(tab.Columns))
	for i, col := range tab.Columns {
		cols[i] = col.MaybeGC()
	}
	return newTableHeightFromFirst(cols, tab.MaxWorkers)
}

func (tab *Table) Print(tree treeprint.Tree) {
	tree = tree.AddBranch(fmt.Sprintf("table %d x %d", tab.Height(), tab.Width()))
	for _, col := range tab.Columns {
		col.Print(tree)
	}
}

func (tab *Table) TreeString() string {
	tree := treeprint.NewWithRoot("Table:")
	tab.Print(tree)
	return tree.String()
}

// Print2 logs at most maxRows rows, one log line per row.
func (tab *Table) Print2(prefix string, maxRows int) {
	for i := 0; i < tab.Height() && i < maxRows; i++ {
		fields := make([]zap.Field, 0, len(tab.Columns))
		for _, col := range tab.Columns {
			fields = append(fields, zap.String(col.Name(), col.Get(i).String()))
		}
		util.Info(prefix, fields...)
	}
}
