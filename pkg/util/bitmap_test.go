package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitmap(t *testing.T) {
	mask := NewBitmap(10)
	assert.False(t, mask.Invalid())
	assert.Equal(t, 10, mask.CountValid(10))
	mask.SetInvalid(0)
	mask.SetInvalid(9)
	assert.False(t, mask.RowIsValid(0))
	assert.True(t, mask.RowIsValid(1))
	assert.False(t, mask.RowIsValid(9))
	assert.Equal(t, 8, mask.CountValid(10))

	mask.Set(0, true)
	assert.True(t, mask.RowIsValid(0))
	mask.Shrink(10)
	assert.False(t, mask.Invalid())

	mask.SetValid(9)
	mask.Shrink(10)
	assert.True(t, mask.Invalid())
	assert.True(t, mask.RowIsValid(9))
}

func TestBitmapNil(t *testing.T) {
	var mask *Bitmap
	assert.True(t, mask.Invalid())
	assert.True(t, mask.RowIsValid(100))
	assert.Equal(t, 5, mask.CountValid(5))

	empty := &Bitmap{}
	empty.SetInvalid(3)
	assert.False(t, empty.RowIsValid(3))
	assert.Equal(t, EntryCount(DefaultVectorSize), len(empty.Bits))
}

func TestBitmapSetAllInvalid(t *testing.T) {
	mask := &Bitmap{}
	mask.SetAllInvalid(11)
	assert.Equal(t, 0, mask.CountValid(11))
	assert.False(t, mask.RowIsValid(10))
}
