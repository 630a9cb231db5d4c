// Package conflict decides whether a newly stated fact contradicts the
// active one. Equality is field-typed: numeric fields compare by value,
// categorical fields by canonical code after case and diacritic
// normalization, boolean fields directly.
package conflict

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sahai-labs/sahai-agent/agent/contract"
)

// defaultIncomeTolerance treats incomes within 1% of each other as the
// same statement. Restating "5 lakh" as "500000" must not raise a
// contradiction.
const defaultIncomeTolerance = 0.01

// Detector compares candidate facts against active ones.
type Detector struct {
	incomeTolerance float64
}

// Option customizes a Detector.
type Option func(*Detector)

// WithIncomeTolerance overrides the relative tolerance for income equality.
func WithIncomeTolerance(tol float64) Option {
	return func(d *Detector) {
		if tol >= 0 {
			d.incomeTolerance = tol
		}
	}
}

func NewDetector(opts ...Option) *Detector {
	d := &Detector{incomeTolerance: defaultIncomeTolerance}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Outcome of comparing an incoming value with the active one.
type Outcome string

const (
	NoConflict Outcome = "no_conflict"
	InConflict Outcome = "conflict"
)

// Check compares a normalized incoming value against the active fact. A nil
// active fact never conflicts.
func (d *Detector) Check(field contract.FieldName, incoming any, active *contract.Fact) (Outcome, *contract.Conflict) {
	if active == nil || active.Status == contract.FactSuperseded {
		return NoConflict, nil
	}
	if d.Equal(field, incoming, active.Value) {
		return NoConflict, nil
	}
	return InConflict, &contract.Conflict{
		Field:    field,
		Previous: active.Value,
		Incoming: incoming,
	}
}

// Equal reports field-typed equality of two normalized values.
func (d *Detector) Equal(field contract.FieldName, a, b any) bool {
	switch {
	case field == contract.FieldIncome:
		x, okX := asFloat(a)
		y, okY := asFloat(b)
		if !okX || !okY {
			return false
		}
		if x == y {
			return true
		}
		larger := math.Max(math.Abs(x), math.Abs(y))
		if larger == 0 {
			return true
		}
		return math.Abs(x-y)/larger <= d.incomeTolerance
	case field.Numeric():
		x, okX := asFloat(a)
		y, okY := asFloat(b)
		return okX && okY && x == y
	case field.Boolean():
		x, okX := a.(bool)
		y, okY := b.(bool)
		return okX && okY && x == y
	default:
		return Canonical(fmt.Sprint(a)) == Canonical(fmt.Sprint(b))
	}
}

// Normalize coerces a raw candidate value into the canonical form stored
// for the field: int for age, float64 for income, bool for boolean fields,
// canonical lower-case string otherwise.
func Normalize(field contract.FieldName, value any) (any, error) {
	if !field.Valid() {
		return nil, fmt.Errorf("%w: %q", contract.ErrUnknownField, field)
	}
	switch {
	case field == contract.FieldAge:
		f, ok := asFloat(value)
		if !ok || f != math.Trunc(f) {
			return nil, fmt.Errorf("%w: age %v is not a whole number", contract.ErrValidation, value)
		}
		age := int(f)
		if age < 1 || age > 120 {
			return nil, fmt.Errorf("%w: age %d out of range", contract.ErrValidation, age)
		}
		return age, nil
	case field == contract.FieldIncome:
		f, ok := asFloat(value)
		if !ok || f < 0 {
			return nil, fmt.Errorf("%w: income %v is not a non-negative number", contract.ErrValidation, value)
		}
		return f, nil
	case field.Boolean():
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("%w: %s=%q is not a boolean", contract.ErrValidation, field, v)
			}
			return b, nil
		default:
			return nil, fmt.Errorf("%w: %s=%v is not a boolean", contract.ErrValidation, field, value)
		}
	default:
		s := Canonical(fmt.Sprint(value))
		if s == "" {
			return nil, fmt.Errorf("%w: %s is empty", contract.ErrValidation, field)
		}
		return s, nil
	}
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Canonical lowercases, trims, and strips combining marks so that
// diacritic variants of the same categorical code compare equal.
func Canonical(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
