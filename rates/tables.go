// Package rates holds the read-only pricing configuration: coefficient tables,
// bracket tables, payout ceilings and the versioned rule sets. Everything here
// is loaded once at startup and shared across requests without synchronization.
package rates

// DefaultCoefficient is the neutral multiplier returned when a value misses
// its table. Complete tables should never fall through to it.
const DefaultCoefficient = 1.0

// CoefficientTable maps a normalized categorical value to a multiplier.
type CoefficientTable map[string]float64

// Lookup returns the coefficient for a raw value, normalizing it first, or def
// when the value is absent from the table.
func (t CoefficientTable) Lookup(value string, def float64) float64 {
	if c, ok := t[Normalize(value)]; ok {
		return c
	}
	return def
}

// Bracket is a closed integer interval carrying a multiplier.
type Bracket struct {
	Min  int     `yaml:"min"`
	Max  int     `yaml:"max"`
	Coef float64 `yaml:"coef"`
}

// BracketTable is an ordered list of brackets. Well-formed tables are
// non-overlapping and cover the attribute domain from zero up; Resolve takes
// the first match in declaration order so even a malformed table resolves
// deterministically.
type BracketTable []Bracket

// Resolve returns the coefficient of the first bracket containing v, or
// DefaultCoefficient when no bracket matches.
func (t BracketTable) Resolve(v int) float64 {
	for _, b := range t {
		if v >= b.Min && v <= b.Max {
			return b.Coef
		}
	}
	return DefaultCoefficient
}

// Ceiling is the payout cap information attached to a vehicle category.
type Ceiling struct {
	Max          float64 `yaml:"maximum"`
	Intermediate float64 `yaml:"intermediaire"`
	Condition    string  `yaml:"condition"`
}

// CeilingTable maps a normalized category to its payout ceilings.
type CeilingTable map[string]Ceiling

// Lookup returns the ceiling for a raw category value.
func (t CeilingTable) Lookup(category string) (Ceiling, bool) {
	c, ok := t[Normalize(category)]
	return c, ok
}
