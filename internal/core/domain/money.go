package domain

import (
	"database/sql/driver"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strings"
)

// Money is an amount in the smallest unit of the local currency (VND has no minor unit).
type Money int64

var hundred = big.NewRat(100, 1)

// MulRound multiplies m by d and rounds half up to a whole unit.
func (m Money) MulRound(d Decimal) Money {
	product := new(big.Rat).Mul(new(big.Rat).SetInt64(int64(m)), d.rat())

	return roundHalfUp(product)
}

// PercentFloor returns floor(m * p / 100).
func (m Money) PercentFloor(p Decimal) Money {
	product := new(big.Rat).Mul(new(big.Rat).SetInt64(int64(m)), p.rat())
	product.Quo(product, hundred)

	q := new(big.Int).Quo(product.Num(), product.Denom())

	return saturate(q)
}

// Plus adds o to m, clamping at the int64 bounds instead of wrapping.
func (m Money) Plus(o Money) Money {
	if o > 0 && m > math.MaxInt64-o {
		return math.MaxInt64
	}

	if o < 0 && m < math.MinInt64-o {
		return math.MinInt64
	}

	return m + o
}

func saturate(q *big.Int) Money {
	if q.IsInt64() {
		return Money(q.Int64())
	}

	if q.Sign() > 0 {
		return math.MaxInt64
	}

	return math.MinInt64
}

func roundHalfUp(r *big.Rat) Money {
	num := new(big.Int).Set(r.Num())
	den := r.Denom()

	neg := num.Sign() < 0
	if neg {
		num.Neg(num)
	}

	q, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if rem.Lsh(rem, 1).Cmp(den) >= 0 {
		q.Add(q, big.NewInt(1))
	}

	if neg {
		q.Neg(q)
	}

	return saturate(q)
}

func MinMoney(a, b Money) Money {
	if a < b {
		return a
	}

	return b
}

// Decimal is an exact decimal number used for multipliers and percentages.
// The zero value is 0.
type Decimal struct {
	r *big.Rat
}

const decimalPrecision = 6

var decimalLiteral = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

// NewDecimal parses a plain decimal literal such as "1.25". Fractions and
// exponents are rejected so every store holds the value it was given.
func NewDecimal(s string) (Decimal, error) {
	s = strings.TrimSpace(s)
	if !decimalLiteral.MatchString(s) {
		return Decimal{}, fmt.Errorf("invalid decimal %q", s)
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Decimal{}, fmt.Errorf("invalid decimal %q", s)
	}

	return Decimal{r: r}, nil
}

func MustDecimal(s string) Decimal {
	d, err := NewDecimal(s)
	if err != nil {
		panic(err)
	}

	return d
}

func DecimalFromInt(i int64) Decimal {
	return Decimal{r: new(big.Rat).SetInt64(i)}
}

func (d Decimal) rat() *big.Rat {
	if d.r == nil {
		return new(big.Rat)
	}

	return d.r
}

func (d Decimal) Sign() int { return d.rat().Sign() }

// FitsNumeric reports whether d is storable as NUMERIC(precision, scale)
// without rounding.
func (d Decimal) FitsNumeric(precision, scale int) bool {
	shift := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)
	scaled := new(big.Rat).Mul(d.rat(), new(big.Rat).SetInt(shift))

	if !scaled.IsInt() {
		return false
	}

	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(precision)), nil)

	return new(big.Int).Abs(scaled.Num()).Cmp(limit) < 0
}

// CmpMoney compares d with a whole amount.
func (d Decimal) CmpMoney(m Money) int {
	return d.rat().Cmp(new(big.Rat).SetInt64(int64(m)))
}

func (d Decimal) Cmp(o Decimal) int { return d.rat().Cmp(o.rat()) }

func (d Decimal) String() string {
	s := d.rat().FloatString(decimalPrecision)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}

	return s
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*d = Decimal{}
		return nil
	}

	parsed, err := NewDecimal(s)
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

func (d Decimal) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d *Decimal) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Decimal{}
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case float64:
		*d = Decimal{r: new(big.Rat).SetFloat64(v)}
		return nil
	case int64:
		*d = DecimalFromInt(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Decimal", src)
	}
}

func (d *Decimal) scanString(s string) error {
	parsed, err := NewDecimal(s)
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}
