// Package quantity parses free-form ingredient quantity text into exact
// rational values and formats them back in the canonical mixed-number form.
//
// Values are never rounded: "1 1/2", "1-1/2" and "1.5" all parse to 3/2, and
// Format renders 3/2 as "1 1/2", which parses back to the same value.
package quantity

import (
	"encoding/json"
	"math"

	"github.com/teranos/larder/errors"
)

// Quantity is an exact rational number. The zero value is 0 (0/1 after
// normalization); construct values with Parse, New or FromInt.
//
// Invariant: den > 0 and gcd(|num|, den) == 1.
type Quantity struct {
	num int64
	den int64
}

// New returns num/den reduced to lowest terms with a positive denominator.
func New(num, den int64) (Quantity, error) {
	if den == 0 {
		return Quantity{}, ErrZeroDenominator
	}
	if den < 0 {
		if num == math.MinInt64 || den == math.MinInt64 {
			return Quantity{}, ErrOverflow
		}
		num, den = -num, -den
	}
	g := int64(gcd(abs(num), uint64(den)))
	return Quantity{num: num / g, den: den / g}, nil
}

// FromInt returns the whole quantity n.
func FromInt(n int64) Quantity {
	return Quantity{num: n, den: 1}
}

// Num returns the numerator of the reduced fraction.
func (q Quantity) Num() int64 { return q.num }

// Den returns the (always positive) denominator of the reduced fraction.
func (q Quantity) Den() int64 {
	if q.den == 0 {
		return 1
	}
	return q.den
}

// IsWhole reports whether q has no fractional part.
func (q Quantity) IsWhole() bool { return q.Den() == 1 }

// Sign returns -1, 0 or +1.
func (q Quantity) Sign() int {
	switch {
	case q.num < 0:
		return -1
	case q.num > 0:
		return 1
	default:
		return 0
	}
}

// Equal reports whether q and o denote the same value.
func (q Quantity) Equal(o Quantity) bool {
	return q.num == o.num && q.Den() == o.Den()
}

// Float64 returns the nearest float64. Use it for display math only; the
// exact value lives in Num and Den.
func (q Quantity) Float64() float64 {
	return float64(q.num) / float64(q.Den())
}

// String renders q in canonical form (see Format).
func (q Quantity) String() string {
	return formatValue(q)
}

type quantityJSON struct {
	Numerator   int64 `json:"numerator"`
	Denominator int64 `json:"denominator"`
}

// MarshalJSON encodes q as {"numerator": n, "denominator": d}.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(quantityJSON{Numerator: q.num, Denominator: q.Den()})
}

// UnmarshalJSON decodes {"numerator": n, "denominator": d}, enforcing the
// positive-denominator invariant.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var raw quantityJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decode quantity")
	}
	v, err := New(raw.Numerator, raw.Denominator)
	if err != nil {
		return errors.Wrapf(err, "quantity %d/%d", raw.Numerator, raw.Denominator)
	}
	*q = v
	return nil
}

func abs(n int64) uint64 {
	if n < 0 {
		return uint64(-(n + 1)) + 1
	}
	return uint64(n)
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}
