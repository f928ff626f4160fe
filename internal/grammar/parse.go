package grammar

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// RuleSeparator separates the nonterminal of a rule from its
	// alternatives.
	RuleSeparator = "-"

	// AlternativeSeparator separates the alternatives of a rule.
	AlternativeSeparator = "|"

	// EpsilonNotation is the alternative that denotes the empty string.
	EpsilonNotation = "0"
)

// ParseError is returned when grammar text cannot be parsed. It is fatal for
// the grammar being parsed but does not affect any other.
type ParseError struct {
	// Line is the 1-based line number the error occurred on. It is 0 if the
	// error is not associated with a particular line.
	Line int

	// Text is the content of the line that could not be parsed.
	Text string

	// Reason is a short description of what was wrong.
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line < 1 {
		return e.Reason
	}
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// ConsoleMessage returns the message to show a human operator.
func (e *ParseError) ConsoleMessage() string {
	if e.Line < 1 {
		return "The grammar could not be read: " + e.Reason + "."
	}
	return fmt.Sprintf("The grammar could not be read; line %d (%q) is not of the form LHS-ALT|ALT: %s.", e.Line, e.Text, e.Reason)
}

// MustParse is like Parse but panics if the lines cannot be parsed.
func MustParse(lines ...string) Grammar {
	g, err := Parse(lines)
	if err != nil {
		panic(err.Error())
	}
	return g
}

// ParseText parses a grammar from a single string with one rule per line.
func ParseText(text string) (Grammar, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return Parse(strings.Split(text, "\n"))
}

// Parse reads a Grammar from lines of the form "LHS-ALT1|ALT2|...". The start
// symbol is the LHS of the first line, and lines that give the same LHS have
// their alternatives added after the ones already given. Lines that are empty
// or consist only of whitespace are skipped.
//
// If a line has no "-", has no alternatives, has an empty alternative, or uses
// the reserved EpsilonSymbol in an alternative, a *ParseError is returned and
// no grammar is produced.
func Parse(lines []string) (Grammar, error) {
	var g Grammar

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		// precomposed and decomposed forms of the same character must become
		// the same single symbol when split.
		line = norm.NFC.String(line)

		nonTerminal, prods, err := parseRule(line)
		if err != nil {
			return Grammar{}, &ParseError{Line: i + 1, Text: line, Reason: err.Error()}
		}

		if g.Start == "" {
			g.Start = nonTerminal
		}

		for _, p := range prods {
			g.AddRule(nonTerminal, p)
		}
	}

	if g.Start == "" {
		return Grammar{}, &ParseError{Reason: "no rules given"}
	}

	return g, nil
}

// parseRule parses the nonterminal and productions from a line like
// "S-aSb|0".
func parseRule(line string) (string, []Production, error) {
	sides := strings.SplitN(line, RuleSeparator, 2)
	if len(sides) != 2 {
		return "", nil, fmt.Errorf("missing %q between nonterminal and alternatives", RuleSeparator)
	}

	nonTerminal := strings.TrimSpace(sides[0])
	if nonTerminal == "" {
		return "", nil, fmt.Errorf("empty nonterminal name")
	}

	var altStrings []string
	if sides[1] != "" {
		altStrings = strings.Split(sides[1], AlternativeSeparator)
	}
	if len(altStrings) < 1 {
		return "", nil, fmt.Errorf("no alternatives given")
	}

	prods := make([]Production, 0, len(altStrings))
	for i, alt := range altStrings {
		if alt == "" {
			return "", nil, fmt.Errorf("alternative %d is empty", i+1)
		}

		if alt == EpsilonNotation {
			prods = append(prods, Epsilon.Copy())
			continue
		}

		if strings.Contains(alt, EpsilonSymbol) {
			return "", nil, fmt.Errorf("alternative %d contains %q, which is reserved for the empty string (write the empty string as %q)", i+1, EpsilonSymbol, EpsilonNotation)
		}

		p := Production{}
		for _, ch := range alt {
			p = append(p, string(ch))
		}
		prods = append(prods, p)
	}

	return nonTerminal, prods, nil
}
