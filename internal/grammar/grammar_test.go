package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Grammar_AddRule(t *testing.T) {
	assert := assert.New(t)

	var g Grammar
	g.AddRule("S", []string{"a", "A"})
	g.AddRule("A", []string{"b"})
	g.AddRule("S", Epsilon)

	assert.Equal([]string{"S", "A"}, g.NonTerminals())
	assert.Equal([]Production{{"a", "A"}, Epsilon}, g.Rule("S").Productions)
	assert.True(g.IsNonTerminal("A"))
	assert.False(g.IsNonTerminal("a"))
}

func Test_Grammar_AddRule_Panics(t *testing.T) {
	testCases := []struct {
		name    string
		nonTerm string
		prod    []string
	}{
		{name: "empty nonterminal", nonTerm: "", prod: []string{"a"}},
		{name: "empty production", nonTerm: "S", prod: []string{}},
		{name: "epsilon with other symbols", nonTerm: "S", prod: []string{"a", EpsilonSymbol}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			var g Grammar
			assert.Panics(func() {
				g.AddRule(tc.nonTerm, tc.prod)
			})
		})
	}
}

func Test_Grammar_RemoveRule(t *testing.T) {
	testCases := []struct {
		name   string
		input  []string
		remove string
		expect []string
	}{
		{
			name:   "first",
			input:  []string{"S-a", "A-b", "B-c"},
			remove: "S",
			expect: []string{"A-b", "B-c"},
		},
		{
			name:   "middle",
			input:  []string{"S-a", "A-b", "B-c"},
			remove: "A",
			expect: []string{"S-a", "B-c"},
		},
		{
			name:   "last",
			input:  []string{"S-a", "A-b", "B-c"},
			remove: "B",
			expect: []string{"S-a", "A-b"},
		},
		{
			name:   "not present",
			input:  []string{"S-a"},
			remove: "Q",
			expect: []string{"S-a"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := MustParse(tc.input...)

			g.RemoveRule(tc.remove)

			assert.Equal(tc.expect, g.Lines())
			assert.False(g.IsNonTerminal(tc.remove))

			// indexes must still line up after removal
			for _, nt := range g.NonTerminals() {
				assert.Equal(nt, g.Rule(nt).NonTerminal)
			}
		})
	}
}

func Test_Grammar_Copy(t *testing.T) {
	assert := assert.New(t)

	g := MustParse("S-aA", "A-b")
	g2 := g.Copy()

	g2.AddRule("A", []string{"c"})
	g2.RemoveRule("S")

	assert.Equal([]string{"S-aA", "A-b"}, g.Lines())
	assert.Equal([]string{"A-b|c"}, g2.Lines())
}

func Test_Grammar_Equal(t *testing.T) {
	assert := assert.New(t)

	g := MustParse("S-aA", "A-b")

	assert.True(g.Equal(MustParse("S-aA", "A-b")))
	assert.True(g.Equal(&g))
	assert.False(g.Equal(MustParse("A-b", "S-aA")))
	assert.False(g.Equal(MustParse("S-aA", "A-b|c")))
	assert.False(g.Equal("S-aA"))
}

func Test_Analyze(t *testing.T) {
	assert := assert.New(t)

	g := MustParse("S-ASA|aB", "A-B|S", "B-b|0", "C-c", "D-0")

	a := Analyze(g)

	assert.True(a.Simplified.Equal(g.RemoveEpsilons().RemoveUseless()))
	assert.Equal([]string{"A", "B", "D"}, a.Nullable.Ordered())
	assert.Equal([]string{"A", "B", "C", "S"}, a.Generating.Ordered())
	assert.Equal([]string{"A", "B", "S"}, a.Reachable.Ordered())

	table := a.Table(80)
	assert.Contains(table, "Nonterminal")
	assert.Contains(table, "Generating")
	for _, nt := range []string{"S", "A", "B", "C", "D"} {
		assert.Contains(table, nt)
	}
}
