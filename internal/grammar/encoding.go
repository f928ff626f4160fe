package grammar

import (
	"fmt"

	"github.com/dekarrin/rezi"
)

// MarshalBinary converts g into a slice of bytes that can be decoded with
// UnmarshalBinary. Rule order and production order are preserved.
func (g Grammar) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(g.Start)...)
	data = append(data, rezi.EncInt(len(g.rules))...)

	for _, r := range g.rules {
		data = append(data, rezi.EncString(r.NonTerminal)...)
		data = append(data, rezi.EncInt(len(r.Productions))...)

		for _, p := range r.Productions {
			data = append(data, rezi.EncInt(len(p))...)
			for _, sym := range p {
				data = append(data, rezi.EncString(sym)...)
			}
		}
	}

	return data, nil
}

// UnmarshalBinary decodes a slice of bytes created by MarshalBinary into g.
// All data in g will be replaced.
func (g *Grammar) UnmarshalBinary(data []byte) error {
	var decoded Grammar
	var n int
	var err error

	decoded.Start, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	data = data[n:]

	var ruleCount int
	ruleCount, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("rule count: %w", err)
	}
	data = data[n:]

	for i := 0; i < ruleCount; i++ {
		var nonTerm string
		nonTerm, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("rule[%d]: nonterminal: %w", i, err)
		}
		data = data[n:]

		var prodCount int
		prodCount, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("rule[%d]: production count: %w", i, err)
		}
		data = data[n:]

		if nonTerm == "" {
			return fmt.Errorf("rule[%d]: empty nonterminal", i)
		}
		if prodCount < 1 {
			return fmt.Errorf("rule[%d]: nonterminal %q has no productions", i, nonTerm)
		}

		for j := 0; j < prodCount; j++ {
			var symCount int
			symCount, n, err = rezi.DecInt(data)
			if err != nil {
				return fmt.Errorf("rule[%d]: production[%d]: symbol count: %w", i, j, err)
			}
			data = data[n:]

			if symCount < 1 {
				return fmt.Errorf("rule[%d]: production[%d]: production is empty", i, j)
			}

			prod := make(Production, symCount)
			for k := 0; k < symCount; k++ {
				prod[k], n, err = rezi.DecString(data)
				if err != nil {
					return fmt.Errorf("rule[%d]: production[%d]: symbol[%d]: %w", i, j, k, err)
				}
				data = data[n:]
			}
			if symCount > 1 && prod.HasSymbol(EpsilonSymbol) {
				return fmt.Errorf("rule[%d]: production[%d]: epsilon mixed with other symbols", i, j)
			}

			decoded.AddRule(nonTerm, prod)
		}
	}

	*g = decoded
	return nil
}
