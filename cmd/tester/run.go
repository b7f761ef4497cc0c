package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/daviszhen/gather/pkg/chunk"
	"github.com/daviszhen/gather/pkg/frame"
	"github.com/daviszhen/gather/pkg/source"
	"github.com/daviszhen/gather/pkg/util"
	"github.com/daviszhen/gather/pkg/util/metric"
)

var registry = prometheus.NewRegistry()

func init() {
	metric.Register(registry)
}

// Run loads the configured input and gathers from it once.
func Run(cfg *util.Config) error {
	tab, err := source.Load(cfg.Input)
	if err != nil {
		return err
	}
	tab.MaxWorkers = cfg.Gather.MaxWorkers

	var out *frame.Table
	switch cfg.Gather.ChunkBits {
	case 16:
		out, err = runGather[chunk.Bits16](cfg, tab)
	case 24:
		out, err = runGather[chunk.Bits24](cfg, tab)
	case 32:
		out, err = runGather[chunk.Bits32](cfg, tab)
	default:
		return errors.Errorf("usp chunk bits %d", cfg.Gather.ChunkBits)
	}
	if err != nil {
		return err
	}
	if cfg.Gather.CompactViews {
		out = out.MaybeGC()
	}
	if cfg.Debug.PrintSchema {
		fmt.Println(out.TreeString())
	}
	if cfg.Debug.PrintResult {
		out.Print2("row", cfg.Debug.MaxOutputRowCount)
	}
	logMetrics()
	return nil
}

func runGather[L chunk.Layout](cfg *util.Config, tab *frame.Table) (*frame.Table, error) {
	lens := []int{}
	if tab.Width() > 0 {
		lens = tab.Columns[0].ChunkLens()
	}
	by, hint, err := genAddresses[L](lens, cfg.Address)
	if err != nil {
		return nil, err
	}
	opt := cfg.Address.NullEvery > 0

	start := time.Now()
	var out *frame.Table
	switch {
	case cfg.Gather.Checked && opt:
		out, err = frame.TakeOptChunked(tab, by)
	case cfg.Gather.Checked:
		out, err = frame.TakeChunked(tab, by, hint)
	case opt && cfg.Gather.Parallel:
		out, err = frame.TakeOptChunkedUncheckedHorPar(tab, by)
	case opt:
		out, err = frame.TakeOptChunkedUnchecked(tab, by)
	case cfg.Gather.Parallel:
		out, err = frame.TakeChunkedUncheckedHorPar(tab, by, hint)
	default:
		out, err = frame.TakeChunkedUnchecked(tab, by, hint)
	}
	if err != nil {
		return nil, err
	}
	util.Info("gather done",
		zap.String("pattern", cfg.Address.Pattern),
		zap.Int("addresses", len(by)),
		zap.Int("columns", out.Width()),
		zap.Bool("parallel", cfg.Gather.Parallel),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}

func logMetrics() {
	families, err := registry.Gather()
	if err != nil {
		util.Warn("gather metrics failed", zap.Error(err))
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fields := []zap.Field{zap.String("name", mf.GetName())}
			for _, lp := range m.GetLabel() {
				fields = append(fields, zap.String(lp.GetName(), lp.GetValue()))
			}
			switch {
			case m.GetCounter() != nil:
				fields = append(fields, zap.Float64("value", m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				fields = append(fields,
					zap.Uint64("count", m.GetHistogram().GetSampleCount()),
					zap.Float64("sum", m.GetHistogram().GetSampleSum()))
			}
			util.Debug("metric", fields...)
		}
	}
}
