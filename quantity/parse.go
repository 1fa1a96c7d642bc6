package quantity

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/teranos/larder/errors"
)

// AcceptedForms lists the quantity shapes Parse understands, for user hints.
const AcceptedForms = "2, 1.5, .5, -0.25, 1/2, 1 1/2 or 1-1/2"

// Sentinel causes carried by *ParseError.
var (
	ErrEmpty           = errors.New("empty quantity")
	ErrSyntax          = errors.New("unrecognized quantity")
	ErrZeroDenominator = errors.New("zero denominator")
	ErrOverflow        = errors.New("quantity out of range")
)

// ParseError reports text that is not a quantity. It is distinct from an
// absent value: a blank field is simply not parsed by callers, while a field
// holding "abc" yields a ParseError.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("quantity %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// grammar is one recognized quantity shape. The table order below is the
// precedence order; the first pattern that matches decides the result.
type grammar struct {
	name    string
	pattern *regexp.Regexp
	build   func(m []string) (Quantity, error)
}

var grammars = []grammar{
	{
		name:    "decimal",
		pattern: regexp.MustCompile(`^(-?)(\d+)(?:\.(\d+))?$`),
		build: func(m []string) (Quantity, error) {
			return buildDecimal(m[1] == "-", m[2], m[3])
		},
	},
	{
		name:    "leading-point decimal",
		pattern: regexp.MustCompile(`^\.(\d+)$`),
		build: func(m []string) (Quantity, error) {
			return buildDecimal(false, "0", m[1])
		},
	},
	{
		name:    "fraction",
		pattern: regexp.MustCompile(`^(\d+)\s*/\s*(\d+)$`),
		build: func(m []string) (Quantity, error) {
			return buildMixed("0", m[1], m[2])
		},
	},
	{
		name:    "mixed",
		pattern: regexp.MustCompile(`^(\d+)\s+(\d+)\s*/\s*(\d+)$`),
		build: func(m []string) (Quantity, error) {
			return buildMixed(m[1], m[2], m[3])
		},
	},
	{
		name:    "hyphenated mixed",
		pattern: regexp.MustCompile(`^(\d+)-(\d+)\s*/\s*(\d+)$`),
		build: func(m []string) (Quantity, error) {
			return buildMixed(m[1], m[2], m[3])
		},
	},
	{
		name:    "integer",
		pattern: regexp.MustCompile(`^(\d+)$`),
		build: func(m []string) (Quantity, error) {
			n, err := parseDigits(m[1])
			if err != nil {
				return Quantity{}, err
			}
			return FromInt(n), nil
		},
	},
}

// Parse converts quantity text to an exact value. Surrounding whitespace is
// ignored. Every failure is a *ParseError wrapping one of ErrEmpty,
// ErrSyntax, ErrZeroDenominator or ErrOverflow.
func Parse(text string) (Quantity, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Quantity{}, &ParseError{Input: text, Err: ErrEmpty}
	}
	for _, g := range grammars {
		m := g.pattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		q, err := g.build(m)
		if err != nil {
			return Quantity{}, &ParseError{Input: text, Err: err}
		}
		return q, nil
	}
	return Quantity{}, &ParseError{Input: text, Err: ErrSyntax}
}

// MustParse is Parse for literals known to be valid; it panics otherwise.
func MustParse(text string) Quantity {
	q, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return q
}

func buildDecimal(negative bool, whole, frac string) (Quantity, error) {
	w, err := parseDigits(whole)
	if err != nil {
		return Quantity{}, err
	}
	num, den := w, int64(1)
	frac = strings.TrimRight(frac, "0")
	if frac != "" {
		// 10^18 is the largest power of ten an int64 holds.
		if len(frac) > 18 {
			return Quantity{}, ErrOverflow
		}
		f, err := parseDigits(frac)
		if err != nil {
			return Quantity{}, err
		}
		den = pow10(len(frac))
		scaled, ok := mulChecked(w, den)
		if !ok {
			return Quantity{}, ErrOverflow
		}
		if num, ok = addChecked(scaled, f); !ok {
			return Quantity{}, ErrOverflow
		}
	}
	if negative {
		num = -num
	}
	return New(num, den)
}

func buildMixed(whole, numerator, denominator string) (Quantity, error) {
	w, err := parseDigits(whole)
	if err != nil {
		return Quantity{}, err
	}
	n, err := parseDigits(numerator)
	if err != nil {
		return Quantity{}, err
	}
	d, err := parseDigits(denominator)
	if err != nil {
		return Quantity{}, err
	}
	if d == 0 {
		return Quantity{}, ErrZeroDenominator
	}
	scaled, ok := mulChecked(w, d)
	if !ok {
		return Quantity{}, ErrOverflow
	}
	total, ok := addChecked(scaled, n)
	if !ok {
		return Quantity{}, ErrOverflow
	}
	return New(total, d)
}

func parseDigits(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// The patterns only admit ASCII digits, so a failure here is range.
		return 0, ErrOverflow
	}
	return n, nil
}

func pow10(k int) int64 {
	p := int64(1)
	for i := 0; i < k; i++ {
		p *= 10
	}
	return p
}

// mulChecked multiplies two non-negative values.
func mulChecked(a, b int64) (int64, bool) {
	if a != 0 && b > math.MaxInt64/a {
		return 0, false
	}
	return a * b, true
}

// addChecked adds two non-negative values.
func addChecked(a, b int64) (int64, bool) {
	if a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}
