package util

import (
	"github.com/apache/arrow-go/v18/arrow/bitutil"
)

// Bitmap is a LSB-first validity mask. Empty Bits means every row is valid.
type Bitmap struct {
	Bits []uint8
}

// NewBitmap returns a mask of count rows, all valid, with storage allocated.
func NewBitmap(count int) *Bitmap {
	bm := &Bitmap{}
	bm.Init(count)
	return bm
}

func (bm *Bitmap) Init(count int) {
	cnt := EntryCount(count)
	bm.Bits = GAlloc.Alloc(cnt)
	for i := range bm.Bits {
		bm.Bits[i] = 0xFF
	}
}

func (bm *Bitmap) Invalid() bool {
	return bm == nil || len(bm.Bits) == 0
}

func (bm *Bitmap) RowIsValidUnsafe(idx uint64) bool {
	return bitutil.BitIsSet(bm.Bits, int(idx))
}

func (bm *Bitmap) RowIsValid(idx uint64) bool {
	if bm.Invalid() {
		return true
	}
	return bm.RowIsValidUnsafe(idx)
}

func (bm *Bitmap) Set(ridx uint64, valid bool) {
	if valid {
		bm.SetValid(ridx)
	} else {
		bm.SetInvalid(ridx)
	}
}

func (bm *Bitmap) SetValid(ridx uint64) {
	if bm.Invalid() {
		return
	}
	bitutil.SetBit(bm.Bits, int(ridx))
}

// SetInvalid requires storage: call Init or PrepareSpace first when the
// mask may still be empty.
func (bm *Bitmap) SetInvalid(ridx uint64) {
	if bm.Invalid() {
		bm.Init(DefaultVectorSize)
	}
	bitutil.ClearBit(bm.Bits, int(ridx))
}

func EntryCount(cnt int) int {
	return int(bitutil.BytesForBits(int64(cnt)))
}

func (bm *Bitmap) PrepareSpace(cnt int) {
	if bm.Invalid() {
		bm.Init(cnt)
	}
}

func (bm *Bitmap) SetAllInvalid(cnt int) {
	bm.PrepareSpace(cnt)
	if cnt == 0 {
		return
	}
	lastEidx := EntryCount(cnt) - 1
	for i := 0; i < lastEidx; i++ {
		bm.Bits[i] = 0
	}
	lastBits := cnt % 8
	if lastBits == 0 {
		bm.Bits[lastEidx] = 0
	} else {
		bm.Bits[lastEidx] = 0xFF << lastBits
	}
}

func (bm *Bitmap) AllValid() bool {
	return bm.Invalid()
}

// CountValid counts valid rows among the first cnt.
func (bm *Bitmap) CountValid(cnt int) int {
	if bm.Invalid() {
		return cnt
	}
	return bitutil.CountSetBits(bm.Bits, 0, cnt)
}

// Shrink drops the storage when none of the first cnt rows is null.
func (bm *Bitmap) Shrink(cnt int) {
	if bm.Invalid() {
		return
	}
	if bm.CountValid(cnt) == cnt {
		bm.Bits = nil
	}
}
