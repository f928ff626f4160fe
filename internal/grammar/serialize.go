package grammar

import "strings"

// Lines returns the grammar in the notation it is parsed from, one line per
// nonterminal in rule order. Nonterminals with no productions are omitted.
func (g Grammar) Lines() []string {
	lines := []string{}
	for _, r := range g.rules {
		if len(r.Productions) < 1 {
			continue
		}
		lines = append(lines, r.String())
	}
	return lines
}

// Text returns the result of Lines with each line terminated by a newline. An
// empty grammar gives the empty string.
func (g Grammar) Text() string {
	var sb strings.Builder
	for _, line := range g.Lines() {
		sb.WriteString(line)
		sb.WriteRune('\n')
	}
	return sb.String()
}
