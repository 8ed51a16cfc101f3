package types

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Money is an amount in whole won.
type Money int64

// MoneyFromDecimal rounds half away from zero to whole won.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money(d.Round(0).IntPart())
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(m))
}

func (m Money) Int64() int64 {
	return int64(m)
}

// NonNegative clamps negative amounts to zero.
func (m Money) NonNegative() Money {
	if m < 0 {
		return 0
	}
	return m
}

func (m Money) Mul(qty int) Money {
	return m * Money(qty)
}

// String renders the amount the way the storefront prints prices, e.g. "28,000원".
func (m Money) String() string {
	raw := strconv.FormatInt(int64(m), 10)
	sign := ""
	if m < 0 {
		sign, raw = "-", raw[1:]
	}
	out := make([]byte, 0, len(raw)+len(raw)/3)
	for i := range raw {
		if i > 0 && (len(raw)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, raw[i])
	}
	return sign + string(out) + "원"
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(m), 10)), nil
}

// UnmarshalJSON accepts JSON numbers or numeric strings; fractional won are rounded.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("decode money: %w", err)
	}
	*m = MoneyFromDecimal(d)
	return nil
}
