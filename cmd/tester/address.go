package main

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/daviszhen/gather/pkg/chunk"
	"github.com/daviszhen/gather/pkg/common"
	"github.com/daviszhen/gather/pkg/util"
)

// genAddresses builds the addresses described by opts over chunks of the
// given lengths. The returned hint tells how the addresses relate to the
// source order.
func genAddresses[L chunk.Layout](chunkLens []int, opts util.AddressOptions) ([]chunk.ChunkId[L], common.IsSorted, error) {
	offsets := util.PrefixSum(chunkLens)
	total := util.Back(offsets)
	count := opts.Count
	if count <= 0 {
		count = total
	}
	if total == 0 {
		count = 0
	}

	var positions []int
	hint := common.IsSortedNot
	switch strings.ToLower(opts.Pattern) {
	case "identity":
		count = min(count, total)
		positions = make([]int, count)
		for i := range positions {
			positions[i] = i
		}
		hint = common.IsSortedAscending
	case "reverse":
		count = min(count, total)
		positions = make([]int, count)
		for i := range positions {
			positions[i] = total - 1 - i
		}
		hint = common.IsSortedDescending
	case "stride":
		stride := max(opts.Stride, 1)
		for pos := 0; pos < total && len(positions) < count; pos += stride {
			positions = append(positions, pos)
		}
		hint = common.IsSortedAscending
	case "random":
		r := rand.New(rand.NewSource(opts.Seed))
		positions = make([]int, count)
		for i := range positions {
			positions[i] = r.Intn(total)
		}
	default:
		return nil, hint, errors.Errorf("usp address pattern %s", opts.Pattern)
	}

	ret := make([]chunk.ChunkId[L], len(positions))
	for i, pos := range positions {
		if opts.NullEvery > 0 && i%opts.NullEvery == opts.NullEvery-1 {
			ret[i] = chunk.NullChunkId[L]()
			continue
		}
		c := sort.Search(len(chunkLens), func(j int) bool {
			return offsets[j+1] > pos
		})
		ret[i] = chunk.NewChunkId[L](c, pos-offsets[c])
	}
	return ret, hint, nil
}
