package grammar

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/dekarrin/cfgcrunch/internal/util"
)

// Nullables returns the set of nonterminals that can derive the empty string.
// A nonterminal is nullable if it has the epsilon production, or a production
// made up of only nullable nonterminals.
func (g Grammar) Nullables() util.StringSet {
	nullable := util.NewStringSet()

	changed := true
	for changed {
		changed = false
		for _, r := range g.rules {
			if nullable.Has(r.NonTerminal) {
				continue
			}
			for _, p := range r.Productions {
				if p.IsEpsilon() || nullable.All(p) {
					nullable.Add(r.NonTerminal)
					changed = true
					break
				}
			}
		}
	}

	return nullable
}

// RemoveEpsilons returns a Grammar that derives the same strings as this one,
// with the exception of the empty string, but with no epsilon productions.
//
// Every production is rewritten into one production per way of omitting the
// nullable symbols in it. With k nullable positions, all 2^k bitmasks are
// tried in increasing order; bit j of the mask decides whether the j-th
// nullable position (counting from the left, least-significant bit first) is
// omitted. Rewrites that would be empty are dropped and duplicates are kept.
//
// Rules are added to the new grammar in the order their first rewrite is
// produced, so a nonterminal left with no productions does not appear in it.
//
// The output is not bounded: it grows with 2^k. Callers handling grammars
// they did not write should call CheckExpansion first. A production with
// MaxNullablePositions or more nullable positions causes a panic.
func (g Grammar) RemoveEpsilons() Grammar {
	nullable := g.Nullables()

	newG := Grammar{Start: g.Start}
	for _, r := range g.rules {
		for _, p := range r.Productions {
			if p.IsEpsilon() {
				continue
			}

			for _, rewrite := range epsilonRewrites(p, nullable) {
				newG.AddRule(r.NonTerminal, rewrite)
			}
		}
	}

	return newG
}

// ExpansionSize returns the number of productions RemoveEpsilons would
// generate before empty rewrites are dropped. It saturates at math.MaxInt
// for grammars whose expansion could not be held in memory anyway.
func (g Grammar) ExpansionSize() int {
	nullable := g.Nullables()

	var total int
	for _, r := range g.rules {
		for _, p := range r.Productions {
			if p.IsEpsilon() {
				continue
			}

			k := len(nullablePositions(p, nullable))
			if k >= bits.UintSize-2 {
				return math.MaxInt
			}
			count := 1 << k
			if total > math.MaxInt-count {
				return math.MaxInt
			}
			total += count
		}
	}
	return total
}

func nullablePositions(p Production, nullable util.StringSet) []int {
	var positions []int
	for i := range p {
		if nullable.Has(p[i]) {
			positions = append(positions, i)
		}
	}
	return positions
}

// MaxNullablePositions is one more than the most nullable positions a single
// production can have and still be expanded by RemoveEpsilons.
const MaxNullablePositions = 64

// ExpansionError is returned by CheckExpansion when removing epsilon
// productions would create more productions than allowed.
type ExpansionError struct {
	// Size is the number of productions that would be created. It is
	// math.MaxInt if the count is too large to represent.
	Size int

	// Limit is the most productions that were allowed.
	Limit int
}

func (e *ExpansionError) Error() string {
	if e.Size == math.MaxInt {
		return fmt.Sprintf("removing epsilon productions would create too many productions to count; the limit is %d", e.Limit)
	}
	return fmt.Sprintf("removing epsilon productions would create %d productions; the limit is %d", e.Size, e.Limit)
}

// ConsoleMessage returns the message to show a human operator.
func (e *ExpansionError) ConsoleMessage() string {
	return "The grammar is too large to simplify: " + e.Error() + "."
}

// CheckExpansion returns an *ExpansionError if RemoveEpsilons would create
// more than limit productions, and nil otherwise.
func (g Grammar) CheckExpansion(limit int) error {
	if size := g.ExpansionSize(); size > limit {
		return &ExpansionError{Size: size, Limit: limit}
	}
	return nil
}

// epsilonRewrites gives every version of prod with some subset of its nullable
// symbols omitted, in bitmask order. Empty rewrites are not included.
func epsilonRewrites(prod Production, nullable util.StringSet) []Production {
	positions := nullablePositions(prod, nullable)

	// omitBit[i] is the mask bit for position i, or -1 if position i is not
	// nullable and so is always kept.
	omitBit := make([]int, len(prod))
	for i := range omitBit {
		omitBit[i] = -1
	}
	for j, pos := range positions {
		omitBit[pos] = j
	}

	if len(positions) >= MaxNullablePositions {
		panic(fmt.Sprintf("production %s has %d nullable positions; at most %d can be expanded", prod, len(positions), MaxNullablePositions-1))
	}
	perms := uint64(1) << len(positions)

	var rewrites []Production
	for mask := uint64(0); mask < perms; mask++ {
		newProd := Production{}
		for i := range prod {
			if bit := omitBit[i]; bit >= 0 && (mask>>bit)&1 == 1 {
				continue
			}
			newProd = append(newProd, prod[i])
		}

		if len(newProd) > 0 {
			rewrites = append(rewrites, newProd)
		}
	}

	return rewrites
}
