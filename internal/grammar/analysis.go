package grammar

import (
	"github.com/dekarrin/cfgcrunch/internal/util"
	"github.com/dekarrin/rosed"
)

// Analysis records the symbol sets computed at each stage of simplifying a
// grammar, along with the grammar as it was after each stage.
type Analysis struct {
	// Original is the grammar before any simplification.
	Original Grammar

	// Nullable is the set of nonterminals of Original that can derive the
	// empty string.
	Nullable util.StringSet

	// EpsilonFree is Original with epsilon productions removed.
	EpsilonFree Grammar

	// Generating is the set of nonterminals of EpsilonFree that can derive a
	// string of terminals.
	Generating util.StringSet

	// Productive is EpsilonFree with non-generating symbols removed.
	Productive Grammar

	// Reachable is the set of symbols reachable from the start symbol in
	// Productive.
	Reachable util.StringSet

	// Simplified is the final result.
	Simplified Grammar
}

// Analyze runs every simplification pass on g and records what each one saw.
// Analysis.Simplified is always equal to the result of
// g.RemoveEpsilons().RemoveUseless().
func Analyze(g Grammar) Analysis {
	a := Analysis{
		Original: g.Copy(),
		Nullable: g.Nullables(),
	}

	a.EpsilonFree = g.RemoveEpsilons()
	a.Generating = a.EpsilonFree.Generating()

	a.Productive = a.EpsilonFree.RemoveNonGenerating()
	a.Reachable = a.Productive.Reachable()

	a.Simplified = a.Productive.RemoveUnreachable()

	return a
}

// Table returns a text table giving, for every nonterminal of the original
// grammar, which of the symbol sets it was found in and whether it survived
// simplification. The table will be no wider than width.
func (a Analysis) Table(width int) string {
	data := [][]string{{"Nonterminal", "Nullable", "Generating", "Reachable", "Kept"}}

	for _, nt := range a.Original.NonTerminals() {
		// a nonterminal whose productions were all epsilon is gone from the
		// epsilon-free grammar entirely, so it was never checked.
		generating := "-"
		if a.EpsilonFree.IsNonTerminal(nt) {
			generating = yesNo(a.Generating.Has(nt))
		}

		reachable := "-"
		if a.Productive.IsNonTerminal(nt) {
			reachable = yesNo(a.Reachable.Has(nt))
		}

		data = append(data, []string{
			nt,
			yesNo(a.Nullable.Has(nt)),
			generating,
			reachable,
			yesNo(a.Simplified.IsNonTerminal(nt)),
		})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, width, rosed.Options{
			TableHeaders: true,
			TableBorders: true,
		}).
		String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
