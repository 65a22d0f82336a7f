// Package money provides an exact integer-cents amount for ticket pricing.
// All arithmetic is integer-only; nothing in this package touches floating point,
// so totals are reproducible across runs and backends.
package money

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Money is a non-negative monetary amount in cents.
type Money struct {
	Cents int64
}

// FromCents builds an amount from a raw cent count.
func FromCents(cents int64) Money {
	return Money{Cents: cents}
}

// Parse reads a decimal string such as "100", "99.5" or "110.00" into cents.
// At most two fractional digits are accepted.
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return Money{}, fmt.Errorf("money: invalid amount %q", s)
	}

	whole, frac, _ := strings.Cut(s, ".")
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Money{}, fmt.Errorf("money: invalid amount %q", s)
	}

	var f int64
	switch len(frac) {
	case 0:
	case 1:
		f, err = strconv.ParseInt(frac, 10, 64)
		f *= 10
	case 2:
		f, err = strconv.ParseInt(frac, 10, 64)
	default:
		return Money{}, fmt.Errorf("money: too many decimal places in %q", s)
	}
	if err != nil || f < 0 {
		return Money{}, fmt.Errorf("money: invalid amount %q", s)
	}

	return Money{Cents: w*100 + f}, nil
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.Cents > 0
}

// MulQty multiplies the amount by a ticket count.
func (m Money) MulQty(qty int) Money {
	return Money{Cents: m.Cents * int64(qty)}
}

// ApplyPercent scales the amount by (100+pct)% and rounds half-up to the
// nearest cent. The rounding is applied exactly once, on the final value.
func (m Money) ApplyPercent(pct int64) Money {
	n := m.Cents * (100 + pct)
	q := n / 100
	if n%100*2 >= 100 {
		q++
	}
	return Money{Cents: q}
}

// String renders the amount with two decimal places, e.g. "110.00".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.Cents/100, m.Cents%100)
}

// MarshalJSON renders the amount as a decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
