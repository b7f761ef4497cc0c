package common

import (
	decimal2 "github.com/govalues/decimal"
	"github.com/pkg/errors"
)

// Decimal columns store the unscaled value in an int64; precision and
// scale live on the LType.

// DecimalFromUnscaled renders the stored int64 with the type's scale.
func DecimalFromUnscaled(v int64, scale int) (decimal2.Decimal, error) {
	return decimal2.New(v, scale)
}

// ParseDecimal parses s and returns its unscaled value at scale.
func ParseDecimal(s string, scale int) (int64, error) {
	d, err := decimal2.ParseExact(s, scale)
	if err != nil {
		return 0, err
	}
	d = d.Round(scale)
	whole, frac, ok := d.Int64(scale)
	if !ok {
		return 0, errors.Errorf("decimal %s overflows int64 at scale %d", s, scale)
	}
	return unscaled(whole, frac, scale), nil
}

func unscaled(whole, frac int64, scale int) int64 {
	p := int64(1)
	for i := 0; i < scale; i++ {
		p *= 10
	}
	return whole*p + frac
}
