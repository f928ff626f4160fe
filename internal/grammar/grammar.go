// Package grammar contains the context-free grammar model used by cfgcrunch
// along with the simplification passes that operate on it.
//
// A grammar is read from and written to a line-oriented notation:
//
//	LHS-ALT1|ALT2|...
//
// where LHS is a nonterminal name and each ALT is either the literal "0",
// denoting the empty string, or a run of characters each of which is a single
// symbol. A symbol is a nonterminal if it has rules defined for it in the
// grammar, and a terminal otherwise.
//
// Note that a nonterminal name with more than one character may be given on
// the left-hand side of a rule, but it can never be referred to from a
// right-hand side, as every right-hand side is split into one symbol per
// character. The symbol "ε" is used internally for the empty string; grammars
// that use it as a terminal give undefined results.
package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/cfgcrunch/internal/util"
)

// EpsilonSymbol is the symbol used to mark the empty string. A Production
// consisting of only this symbol is an epsilon production.
const EpsilonSymbol = "ε"

// Production is one alternative of a Rule; an ordered sequence of symbols.
type Production []string

var (
	// Epsilon is the production that derives only the empty string.
	Epsilon = Production{EpsilonSymbol}
)

// Copy returns a deep-copied duplicate of this production.
func (p Production) Copy() Production {
	p2 := make(Production, len(p))
	copy(p2, p)

	return p2
}

// IsEpsilon returns whether p is the epsilon production.
func (p Production) IsEpsilon() bool {
	return p.Equal(Epsilon)
}

// Equal returns whether Production is equal to another value. It will not be
// equal if the other value cannot be cast to Production, *Production, or
// []string.
func (p Production) Equal(o any) bool {
	other, ok := o.(Production)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*Production)
		if !ok {
			// also okay if it's a string slice
			otherSlice, ok := o.([]string)
			if !ok {
				return false
			}
			other = Production(otherSlice)
		} else if otherPtr == nil {
			return false
		} else {
			other = *otherPtr
		}
	}

	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}

	return true
}

// HasSymbol returns whether the production contains the given symbol at any
// position.
func (p Production) HasSymbol(sym string) bool {
	return util.InSlice(sym, p)
}

// String returns the notation form of the production. The epsilon production
// is given as "0"; all other productions are their symbols concatenated
// together.
func (p Production) String() string {
	if p.IsEpsilon() {
		return EpsilonNotation
	}
	return strings.Join(p, "")
}

// Rule is all of the productions of a single nonterminal, in the order they
// were added.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Copy returns a deep-copied duplicate of this rule.
func (r Rule) Copy() Rule {
	r2 := Rule{
		NonTerminal: r.NonTerminal,
		Productions: make([]Production, len(r.Productions)),
	}

	for i := range r.Productions {
		r2.Productions[i] = r.Productions[i].Copy()
	}

	return r2
}

// String returns the rule in the same notation it is parsed from.
func (r Rule) String() string {
	alts := make([]string, len(r.Productions))
	for i := range r.Productions {
		alts[i] = r.Productions[i].String()
	}
	return r.NonTerminal + RuleSeparator + strings.Join(alts, AlternativeSeparator)
}

// Equal returns whether Rule is equal to another value. It will not be equal
// if the other value cannot be cast to Rule or *Rule.
func (r Rule) Equal(o any) bool {
	other, ok := o.(Rule)
	if !ok {
		otherPtr, ok := o.(*Rule)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if r.NonTerminal != other.NonTerminal {
		return false
	}
	if len(r.Productions) != len(other.Productions) {
		return false
	}
	for i := range r.Productions {
		if !r.Productions[i].Equal(other.Productions[i]) {
			return false
		}
	}
	return true
}

// Grammar is a context-free grammar. Rules are kept in the order their
// nonterminals were first added, and productions within a rule are kept in the
// order they were added; both orders are reflected in output.
//
// The zero-value is an empty grammar ready for use.
type Grammar struct {
	rulesByName map[string]int

	// main rules store, not just doing a simple map bc
	// rules have an order that is visible in output
	rules []Rule

	// Start is the name of the start symbol. It is always the nonterminal of
	// the first rule parsed, but may no longer have a rule after
	// simplification.
	Start string
}

// Copy makes a duplicate deep copy of the grammar.
func (g Grammar) Copy() Grammar {
	g2 := Grammar{
		rulesByName: make(map[string]int, len(g.rulesByName)),
		rules:       make([]Rule, len(g.rules)),
		Start:       g.Start,
	}

	for k := range g.rulesByName {
		g2.rulesByName[k] = g.rulesByName[k]
	}

	for i := range g.rules {
		g2.rules[i] = g.rules[i].Copy()
	}

	return g2
}

// Rule returns the grammar rule for the given nonterminal symbol.
// If there is no rule defined for that nonterminal, a Rule with an empty
// NonTerminal field is returned; else it will be the same string as the one
// passed in to the function.
func (g Grammar) Rule(nonterminal string) Rule {
	if g.rulesByName == nil {
		return Rule{}
	}

	if curIdx, ok := g.rulesByName[nonterminal]; !ok {
		return Rule{}
	} else {
		return g.rules[curIdx]
	}
}

// Rules returns copies of all rules in the grammar in order.
func (g Grammar) Rules() []Rule {
	rules := make([]Rule, len(g.rules))
	for i := range g.rules {
		rules[i] = g.rules[i].Copy()
	}
	return rules
}

// IsNonTerminal returns whether sym has rules in the grammar. Any symbol that
// does not is treated as a terminal.
func (g Grammar) IsNonTerminal(sym string) bool {
	_, ok := g.rulesByName[sym]
	return ok
}

// Empty returns whether the grammar has no rules at all.
func (g Grammar) Empty() bool {
	return len(g.rules) == 0
}

// NonTerminals returns all nonterminals of the grammar in the order they were
// added.
func (g Grammar) NonTerminals() []string {
	names := make([]string, len(g.rules))
	for i := range g.rules {
		names[i] = g.rules[i].NonTerminal
	}
	return names
}

// AddRule adds the given production for a nonterminal. If the nonterminal has
// already been given, the production is added as an alternative for that
// nonterminal with lower priority than all others already added.
//
// All productions require at least one symbol. For an epsilon production,
// give Epsilon. Giving an empty production or an empty nonterminal name will
// cause a panic.
func (g *Grammar) AddRule(nonterminal string, production []string) {
	if nonterminal == "" {
		panic("empty nonterminal name not allowed for production rule")
	}

	if len(production) < 1 {
		panic("for epsilon production give Epsilon; all rules must have productions")
	}

	// check that epsilon, if given, is by itself
	if len(production) != 1 {
		for _, sym := range production {
			if sym == EpsilonSymbol {
				panic("epsilon production only allowed as sole production of an alternative")
			}
		}
	}

	if g.rulesByName == nil {
		g.rulesByName = map[string]int{}
	}

	curIdx, ok := g.rulesByName[nonterminal]
	if !ok {
		g.rules = append(g.rules, Rule{NonTerminal: nonterminal})
		curIdx = len(g.rules) - 1
		g.rulesByName[nonterminal] = curIdx
	}

	curRule := g.rules[curIdx]
	curRule.Productions = append(curRule.Productions, Production(production).Copy())
	g.rules[curIdx] = curRule
}

// RemoveRule eliminates all productions of the given nonterminal from the
// grammar. The nonterminal will no longer be considered to be a part of the
// Grammar.
//
// If the grammar already does not contain the given non-terminal this function
// has no effect.
func (g *Grammar) RemoveRule(nonterminal string) {
	ruleIdx, ok := g.rulesByName[nonterminal]
	if !ok {
		// that was easy
		return
	}

	delete(g.rulesByName, nonterminal)

	if ruleIdx+1 < len(g.rules) {
		g.rules = append(g.rules[:ruleIdx], g.rules[ruleIdx+1:]...)

		// shift indexes of everything after the removed rule down by one
		for i := ruleIdx; i < len(g.rules); i++ {
			r := g.rules[i]
			g.rulesByName[r.NonTerminal] = i
		}
	} else {
		g.rules = g.rules[:ruleIdx]
	}
}

// setProductions replaces the productions of an existing nonterminal.
func (g *Grammar) setProductions(nonterminal string, prods []Production) {
	idx, ok := g.rulesByName[nonterminal]
	if !ok {
		panic(fmt.Sprintf("no rule for nonterminal %q", nonterminal))
	}
	g.rules[idx].Productions = prods
}

// Equal returns whether Grammar is equal to another value. Two grammars are
// equal if they have the same start symbol and the same rules in the same
// order. It will not be equal if the other value cannot be cast to Grammar or
// *Grammar.
func (g Grammar) Equal(o any) bool {
	other, ok := o.(Grammar)
	if !ok {
		otherPtr, ok := o.(*Grammar)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if g.Start != other.Start {
		return false
	}
	if len(g.rules) != len(other.rules) {
		return false
	}
	for i := range g.rules {
		if !g.rules[i].Equal(other.rules[i]) {
			return false
		}
	}
	return true
}

func (g Grammar) String() string {
	return fmt.Sprintf("(start=%q, R=%q)", g.Start, g.Lines())
}
