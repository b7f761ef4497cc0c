package chunk

import (
	"github.com/pkg/errors"

	"github.com/daviszhen/gather/pkg/common"
	"github.com/daviszhen/gather/pkg/util"
	"github.com/daviszhen/gather/pkg/util/metric"
)

// TakeChunkedUnchecked builds a single chunk column whose row i is the
// element of s addressed by by[i]. Every address must be non null and in
// bounds; this is not checked. sorted describes the order of the addresses
// and only feeds the sortedness flag of the result.
//
// The only error comes from the builder of an object type.
func TakeChunkedUnchecked[L Layout](s *Series, by []ChunkId[L], sorted common.IsSorted) (*Series, error) {
	recordCall(s, len(by), metric.VariantPlain)
	return take(s, by, false, sorted)
}

// TakeOptChunkedUnchecked is TakeChunkedUnchecked where null addresses are
// allowed and produce null rows. The result is never flagged sorted.
func TakeOptChunkedUnchecked[L Layout](s *Series, by []ChunkId[L]) (*Series, error) {
	recordCall(s, len(by), metric.VariantOpt)
	return take(s, by, true, common.IsSortedNot)
}

// TakeChunked validates every address before gathering.
func TakeChunked[L Layout](s *Series, by []ChunkId[L], sorted common.IsSorted) (*Series, error) {
	if err := validateChunkIds(s, by, false); err != nil {
		return nil, err
	}
	return TakeChunkedUnchecked(s, by, sorted)
}

// TakeOptChunked validates every non null address before gathering.
func TakeOptChunked[L Layout](s *Series, by []ChunkId[L]) (*Series, error) {
	if err := validateChunkIds(s, by, true); err != nil {
		return nil, err
	}
	return TakeOptChunkedUnchecked(s, by)
}

func validateChunkIds[L Layout](s *Series, by []ChunkId[L], allowNull bool) error {
	lens := s.ChunkLens()
	for i, id := range by {
		c, row, ok := id.Get()
		if !ok {
			if allowNull {
				continue
			}
			return errors.Wrapf(util.ErrNullAddress, "column %q position %d", s.name, i)
		}
		if c >= len(lens) || row >= lens[c] {
			return errors.Wrapf(util.ErrOutOfBounds, "column %q position %d addresses %v", s.name, i, id)
		}
	}
	return nil
}

func recordCall(s *Series, rows int, variant string) {
	ptyp := s.typ.PTyp.String()
	metric.GatherCallCounter.WithLabelValues(ptyp, variant).Inc()
	metric.GatherRowsCounter.WithLabelValues(ptyp).Add(float64(rows))
}

// preparePhysical casts s to its storage type. Nested types are gathered
// as they are. The cast must keep the chunk layout, since addresses refer
// to it.
func preparePhysical(s *Series) *Series {
	phys := s
	if !s.typ.IsNested() {
		phys = s.ToPhysical()
	}
	if phys.NumChunks() != s.NumChunks() {
		util.Fatalf("implementation error: physical cast of %q changed chunk count %d -> %d",
			s.name, s.NumChunks(), phys.NumChunks())
	}
	for i := range s.chunks {
		if s.chunks[i].Len() != phys.chunks[i].Len() {
			util.Fatalf("implementation error: physical cast of %q changed length of chunk %d", s.name, i)
		}
	}
	return phys
}

func take[L Layout](s *Series, by []ChunkId[L], opt bool, sorted common.IsSorted) (*Series, error) {
	if s.typ.IsNull() {
		return NewNullSeries(s.name, len(by)), nil
	}
	phys := preparePhysical(s)

	var out *Series
	switch ptyp := phys.typ.PTyp; ptyp {
	case common.BOOL:
		out = gatherPrimitive[bool](phys, by, opt)
	case common.INT8:
		out = gatherPrimitive[int8](phys, by, opt)
	case common.INT16:
		out = gatherPrimitive[int16](phys, by, opt)
	case common.INT32:
		out = gatherPrimitive[int32](phys, by, opt)
	case common.INT64:
		out = gatherPrimitive[int64](phys, by, opt)
	case common.UINT8:
		out = gatherPrimitive[uint8](phys, by, opt)
	case common.UINT16:
		out = gatherPrimitive[uint16](phys, by, opt)
	case common.UINT32:
		out = gatherPrimitive[uint32](phys, by, opt)
	case common.UINT64:
		out = gatherPrimitive[uint64](phys, by, opt)
	case common.FLOAT:
		out = gatherPrimitive[float32](phys, by, opt)
	case common.DOUBLE:
		out = gatherPrimitive[float64](phys, by, opt)
	case common.DECIMAL:
		out = gatherDecimal(phys, by, opt)
	case common.VARCHAR, common.BINARY:
		out = gatherViews(phys, by, opt)
	case common.LIST:
		out = gatherList(phys, by, opt)
	case common.ARRAY:
		out = gatherFixedSizeList(phys, by, opt)
	case common.STRUCT:
		out = gatherStruct(phys, by, opt, sorted)
	case common.OBJECT:
		var err error
		out, err = gatherObjects(phys, by, opt)
		if err != nil {
			return nil, err
		}
	default:
		util.Fatalf("implementation error: gather of physical type %v", ptyp)
	}

	if opt {
		out.sorted = common.IsSortedNot
	} else {
		out.sorted = common.UpdateGatherSortedFlag(s.sorted, sorted)
	}
	return out.FromPhysical(s.typ), nil
}
