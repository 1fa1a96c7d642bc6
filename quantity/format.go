package quantity

import (
	"math/big"
	"strconv"
)

// DefaultPlaceholder is what Format returns for an absent quantity.
const DefaultPlaceholder = "Qty"

// Formatter renders quantities for display.
type Formatter struct {
	// Placeholder is returned for a nil quantity. It is used verbatim, so an
	// empty Placeholder renders absent values as "".
	Placeholder string
}

var defaultFormatter = Formatter{Placeholder: DefaultPlaceholder}

// Format renders q with the default placeholder.
func Format(q *Quantity) string {
	return defaultFormatter.Format(q)
}

// Format renders q canonically:
//
//	nil        -> f.Placeholder
//	3          -> "3"
//	3/2        -> "1 1/2"
//	1/2        -> "1/2"
//	-3/2       -> "-1.5"  (negatives use exact decimals where one exists)
//	-4/3       -> "-1 1/3"
//
// Every string Parse accepts round-trips: Parse(Format(Parse(s))) has the
// same value as Parse(s).
func (f Formatter) Format(q *Quantity) string {
	if q == nil {
		return f.Placeholder
	}
	return formatValue(*q)
}

func formatValue(q Quantity) string {
	num, den := q.num, q.Den()
	if den == 1 {
		return strconv.FormatInt(num, 10)
	}
	if num < 0 {
		// Parse only reads negatives as decimals, so prefer that shape.
		if digits, ok := decimalDigits(den); ok {
			return big.NewRat(num, den).FloatString(digits)
		}
		return "-" + formatMixed(abs(num), uint64(den))
	}
	return formatMixed(uint64(num), uint64(den))
}

func formatMixed(num, den uint64) string {
	whole, rem := num/den, num%den
	frac := strconv.FormatUint(rem, 10) + "/" + strconv.FormatUint(den, 10)
	if whole == 0 {
		return frac
	}
	return strconv.FormatUint(whole, 10) + " " + frac
}

// decimalDigits reports how many fractional digits represent 1/den exactly,
// which is possible only when den = 2^a * 5^b.
func decimalDigits(den int64) (int, bool) {
	twos, fives := 0, 0
	for den%2 == 0 {
		den /= 2
		twos++
	}
	for den%5 == 0 {
		den /= 5
		fives++
	}
	if den != 1 {
		return 0, false
	}
	if twos > fives {
		return twos, true
	}
	return fives, true
}
