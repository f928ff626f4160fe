package cfgcrunch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dekarrin/cfgcrunch/internal/cgerrors"
	"github.com/dekarrin/cfgcrunch/internal/config"
	"github.com/dekarrin/cfgcrunch/internal/grammar"
)

// Input is the raw text of one grammar along with a name to identify it.
type Input struct {
	// Name identifies the input in output banners. For discovered files it
	// is the file name.
	Name string

	// Lines is the text of the grammar, one rule per line.
	Lines []string
}

// Result is the outcome of simplifying one Input.
type Result struct {
	// Name is the Name of the Input the Result is for.
	Name string

	// Grammar is the simplified grammar. It is not valid if Err is set.
	Grammar grammar.Grammar

	// Analysis holds the symbol sets found during simplification. It is only
	// set if explanation was requested and Err is not set.
	Analysis *grammar.Analysis

	// Err is the error that occurred while simplifying, if any. It will be a
	// *grammar.ParseError or a *grammar.ExpansionError.
	Err error
}

// Text returns the simplified grammar in rule notation, or the empty string if
// there was an error.
func (r Result) Text() string {
	if r.Err != nil {
		return ""
	}
	return r.Grammar.Text()
}

// Options control how inputs are processed.
type Options struct {
	// Workers is the number of inputs simplified at the same time. Anything
	// less than 2 means inputs are done one after another.
	Workers int

	// Explain causes Result.Analysis to be filled in.
	Explain bool

	// MaxExpansion is the most productions that removing epsilon productions
	// from one input may create. Inputs over it get a *grammar.ExpansionError.
	// Anything less than 1 means config.DefaultMaxExpansion.
	MaxExpansion int
}

// SimplifyAll simplifies each grammar in inputs, given as its lines, and
// returns one Result per grammar in the same order. A grammar that cannot be
// parsed has its Result's Err set and does not affect any of the others.
func SimplifyAll(inputs [][]string) []Result {
	named := make([]Input, len(inputs))
	for i := range inputs {
		named[i] = Input{Name: fmt.Sprintf("grammar %d", i+1), Lines: inputs[i]}
	}
	return Process(named, Options{})
}

// Process simplifies every input and returns the results in the same order as
// the inputs regardless of how many workers are used.
func Process(inputs []Input, opts Options) []Result {
	results := make([]Result, len(inputs))

	if opts.Workers < 2 {
		for i := range inputs {
			results[i] = processOne(inputs[i], opts)
		}
		return results
	}

	// grammars share no state, so each worker only needs to write to its own
	// index of results.
	var wg sync.WaitGroup
	sem := make(chan struct{}, opts.Workers)
	for i := range inputs {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = processOne(inputs[idx], opts)
		}(i)
	}
	wg.Wait()

	return results
}

func processOne(in Input, opts Options) Result {
	res := Result{Name: in.Name}

	g, err := grammar.Parse(in.Lines)
	if err != nil {
		res.Err = err
		return res
	}

	limit := opts.MaxExpansion
	if limit < 1 {
		limit = config.DefaultMaxExpansion
	}
	if err := g.CheckExpansion(limit); err != nil {
		res.Err = err
		return res
	}

	if opts.Explain {
		a := grammar.Analyze(g)
		res.Analysis = &a
		res.Grammar = a.Simplified
	} else {
		res.Grammar = g.RemoveEpsilons().RemoveUseless()
	}

	return res
}

// DiscoverInputs reads every regular file directly inside dir whose name ends
// with ext. The inputs are returned sorted by file name.
func DiscoverInputs(dir string, ext string) ([]Input, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, cgerrors.WrapConsole(err, fmt.Sprintf("Could not list the files in %q.", dir), "")
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if strings.HasSuffix(e.Name(), ext) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	inputs := make([]Input, 0, len(names))
	for _, name := range names {
		lines, err := ReadLines(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, Input{Name: name, Lines: lines})
	}

	return inputs, nil
}

// ReadLines reads the file at path and splits it into lines. Both "\n" and
// "\r\n" line endings are accepted, and a final line ending does not produce
// an extra empty line.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cgerrors.WrapConsole(err, fmt.Sprintf("Could not read %q.", path), "")
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{}, nil
	}

	return strings.Split(text, "\n"), nil
}
