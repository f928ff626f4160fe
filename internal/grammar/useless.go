package grammar

import "github.com/dekarrin/cfgcrunch/internal/util"

// Generating returns the set of nonterminals that can derive some string of
// terminals. A nonterminal is generating if it has at least one production
// whose symbols are all either terminals or generating nonterminals.
func (g Grammar) Generating() util.StringSet {
	generating := util.NewStringSet()

	changed := true
	for changed {
		changed = false
		for _, r := range g.rules {
			if generating.Has(r.NonTerminal) {
				continue
			}
			for _, p := range r.Productions {
				if g.allGenerating(p, generating) {
					generating.Add(r.NonTerminal)
					changed = true
					break
				}
			}
		}
	}

	return generating
}

func (g Grammar) allGenerating(p Production, generating util.StringSet) bool {
	for _, sym := range p {
		if g.IsNonTerminal(sym) && !generating.Has(sym) {
			return false
		}
	}
	return true
}

// Reachable returns the set of symbols reachable from the start symbol. The
// start symbol is always included, even when it has no rule.
func (g Grammar) Reachable() util.StringSet {
	reachable := util.NewStringSet(g.Start)

	changed := true
	for changed {
		changed = false
		for _, nt := range reachable.Elements() {
			for _, p := range g.Rule(nt).Productions {
				for _, sym := range p {
					if g.IsNonTerminal(sym) && reachable.AddNew(sym) {
						changed = true
					}
				}
			}
		}
	}

	return reachable
}

// RemoveNonGenerating returns a grammar with every nonterminal that cannot
// derive a string of terminals removed, along with every production that
// refers to one.
func (g Grammar) RemoveNonGenerating() Grammar {
	generating := g.Generating()

	// the check for removed symbols must be done against the nonterminals
	// as they were before removal; once removed, a symbol would otherwise
	// look like a terminal.
	isRemoved := func(sym string) bool {
		return g.IsNonTerminal(sym) && !generating.Has(sym)
	}

	newG := g.Copy()
	for _, nt := range g.NonTerminals() {
		if !generating.Has(nt) {
			newG.RemoveRule(nt)
		}
	}

	for _, r := range newG.rules {
		var kept []Production
		for _, p := range r.Productions {
			refersToRemoved := false
			for _, sym := range p {
				if isRemoved(sym) {
					refersToRemoved = true
					break
				}
			}
			if !refersToRemoved {
				kept = append(kept, p)
			}
		}
		newG.setProductions(r.NonTerminal, kept)
	}

	return newG
}

// RemoveUnreachable returns a grammar with every nonterminal that cannot be
// reached from the start symbol removed.
func (g Grammar) RemoveUnreachable() Grammar {
	reachable := g.Reachable()

	newG := g.Copy()
	for _, nt := range g.NonTerminals() {
		if !reachable.Has(nt) {
			newG.RemoveRule(nt)
		}
	}

	return newG
}

// RemoveUseless returns a grammar with all useless symbols removed. Symbols
// that do not generate any string of terminals are removed first, and then
// symbols that are not reachable from the start symbol; the order matters, as
// removing non-generating symbols can make others unreachable.
//
// If the start symbol itself is not generating, the result is the empty
// grammar.
func (g Grammar) RemoveUseless() Grammar {
	return g.RemoveNonGenerating().RemoveUnreachable()
}

// Simplify parses the given lines into a grammar and returns it with epsilon
// productions and then useless symbols removed. If the lines cannot be parsed,
// the returned error will be a *ParseError.
func Simplify(lines []string) (Grammar, error) {
	g, err := Parse(lines)
	if err != nil {
		return Grammar{}, err
	}

	return g.RemoveEpsilons().RemoveUseless(), nil
}
