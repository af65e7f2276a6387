package rules

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// MaxNeighbors is the largest possible Moore neighbor count
const MaxNeighbors = 8

// ErrInvalidNotation is returned by ParseNotation for strings not shaped like "B3/S23"
var ErrInvalidNotation = errors.New("rule notation must look like B3/S23")

// Counts is a set of neighbor counts in [0, 8], one bit per count
type Counts uint16

// NewCounts builds a set from the given counts; values outside [0, 8] are dropped
func NewCounts(ns ...int) Counts {
	var c Counts
	for _, n := range ns {
		if n >= 0 && n <= MaxNeighbors {
			c |= 1 << n
		}
	}
	return c
}

// Has reports whether n is a member of the set
func (c Counts) Has(n int) bool {
	return n >= 0 && n <= MaxNeighbors && c&(1<<n) != 0
}

// Slice returns the members in ascending order
func (c Counts) Slice() []int {
	var out []int
	for n := 0; n <= MaxNeighbors; n++ {
		if c.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// String renders the members as a digit string, e.g. "23"
func (c Counts) String() string {
	var b strings.Builder
	for _, n := range c.Slice() {
		b.WriteByte(byte('0' + n))
	}
	return b.String()
}

// ParseCounts reads one neighbor count per character.
// Characters that are not digits 0-8 can never match a neighbor count, so they
// contribute nothing to the set; they are returned so the caller can report them.
func ParseCounts(digits string) (Counts, []rune) {
	var (
		c       Counts
		ignored []rune
	)
	for _, ch := range digits {
		if ch >= '0' && ch <= '0'+MaxNeighbors {
			c |= 1 << (ch - '0')
			continue
		}
		ignored = append(ignored, ch)
	}
	return c, ignored
}

// RuleSet holds the birth and survival neighbor counts of a Life-like automaton
type RuleSet struct {
	Birth    Counts
	Survival Counts
}

// Next returns the next state of a cell given its current state and live neighbor count
func (rs RuleSet) Next(alive bool, neighbors int) bool {
	if alive {
		return rs.Survival.Has(neighbors)
	}
	return rs.Birth.Has(neighbors)
}

// String renders the rule set in B/S notation
func (rs RuleSet) String() string {
	return "B" + rs.Birth.String() + "/S" + rs.Survival.String()
}

// Parse builds a RuleSet from birth and survival digit strings, returning any
// characters that were ignored
func Parse(birth, survival string) (RuleSet, []rune) {
	b, ignoredB := ParseCounts(birth)
	s, ignoredS := ParseCounts(survival)
	return RuleSet{Birth: b, Survival: s}, append(ignoredB, ignoredS...)
}

// ParseNotation parses rules written as "B3/S23" (case-insensitive, either order)
func ParseNotation(notation string) (RuleSet, error) {
	parts := strings.Split(strings.TrimSpace(notation), "/")
	if len(parts) != 2 {
		return RuleSet{}, errors.Wrapf(ErrInvalidNotation, "[ParseNotation] %q", notation)
	}

	var (
		rs           RuleSet
		seenB, seenS bool
	)
	for _, part := range parts {
		if part == "" {
			return RuleSet{}, errors.Wrapf(ErrInvalidNotation, "[ParseNotation] %q", notation)
		}
		c, ignored := ParseCounts(part[1:])
		if len(ignored) > 0 {
			return RuleSet{}, errors.Wrapf(ErrInvalidNotation, "[ParseNotation] %q has invalid counts %q", notation, string(ignored))
		}
		switch unicode.ToUpper(rune(part[0])) {
		case 'B':
			rs.Birth, seenB = c, true
		case 'S':
			rs.Survival, seenS = c, true
		default:
			return RuleSet{}, errors.Wrapf(ErrInvalidNotation, "[ParseNotation] %q", notation)
		}
	}
	if !seenB || !seenS {
		return RuleSet{}, errors.Wrapf(ErrInvalidNotation, "[ParseNotation] %q", notation)
	}
	return rs, nil
}
