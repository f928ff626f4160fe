// Package cfgcrunch simplifies context-free grammars. It removes epsilon
// productions and then useless symbols from every grammar given to it, either
// as files in a directory or as rules typed at an interactive prompt.
package cfgcrunch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/cfgcrunch/internal/cgerrors"
	"github.com/dekarrin/cfgcrunch/internal/config"
	"github.com/dekarrin/cfgcrunch/internal/grammar"
	"github.com/dekarrin/cfgcrunch/internal/input"
	"github.com/dekarrin/rosed"
)

// QuitCommand is the line that ends an interactive session.
const QuitCommand = "QUIT"

// Engine contains the things needed to simplify grammars read from files or
// from an interactive shell and write the results to an output stream.
type Engine struct {
	cfg         config.Config
	in          input.Reader
	out         *bufio.Writer
	useReadline bool
	running     bool
}

// New creates a new engine ready to operate on the given input and output
// streams. It will immediately open a buffered writer on the output stream.
// The input stream is only read from in interactive mode.
//
// If nil is given for the input stream, stdin is used. If nil is given for the
// output stream, stdout is used. Unset values in cfg are given their defaults;
// if cfg is still not valid after that, an error is returned.
//
// Readline is used to read from the input stream if it is stdin and the output
// stream is stdout, unless forceDirectInput is set.
func New(inputStream io.Reader, outputStream io.Writer, cfg config.Config, forceDirectInput bool) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	eng := &Engine{
		cfg: cfg,
		out: bufio.NewWriter(outputStream),
	}

	eng.useReadline = !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	if eng.useReadline {
		var err error
		eng.in, err = input.NewInteractiveReader()
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close input reader: %w", err)
	}

	return nil
}

// RunBatch simplifies every grammar file in the configured input directory in
// order of file name, writing a banner line followed by the simplified
// grammar for each. A grammar that cannot be parsed or is too large to simplify
// has a message written in
// place of its output and does not stop the others from being processed.
//
// An error is returned only if the files could not be read or output could not
// be written.
func (eng *Engine) RunBatch() error {
	inputs, err := DiscoverInputs(eng.cfg.Input.Dir, eng.cfg.Input.Extension)
	if err != nil {
		return err
	}

	if len(inputs) < 1 {
		return eng.write("No %s file found. Fix that, now.\n", eng.cfg.Input.Extension)
	}

	results := Process(inputs, Options{
		Workers:      eng.cfg.Workers,
		Explain:      eng.cfg.Output.Explain,
		MaxExpansion: eng.cfg.MaxExpansion,
	})

	for _, res := range results {
		if err := eng.write("===%s===\n", res.Name); err != nil {
			return err
		}
		if err := eng.writeResult(res); err != nil {
			return err
		}
	}

	return nil
}

// RunInteractive reads rules from the input stream until QUIT is given or the
// input ends. Each blank line causes the rules entered since the last blank
// line to be simplified as one grammar and the result to be written.
func (eng *Engine) RunInteractive() error {
	intro := "cfgcrunch interactive mode\n"
	if !eng.useReadline {
		intro += "(direct input mode)\n"
	}
	intro += "==========================\n"
	intro += "Enter rules like S-aSb|0, one per line. Enter a blank line to simplify\n"
	intro += "the grammar entered so far, or " + QuitCommand + " to exit.\n"
	if err := eng.write("%s", intro); err != nil {
		return err
	}

	eng.running = true
	// so we dont have to remember to do this on every returned error condition
	defer func() {
		eng.running = false
	}()

	eng.in.AllowBlank(true)
	defer eng.in.AllowBlank(false)

	var pending []string
	var count int
	flush := func() error {
		if len(pending) < 1 {
			return nil
		}
		count++
		res := Process([]Input{{Name: fmt.Sprintf("grammar %d", count), Lines: pending}}, Options{
			Explain:      eng.cfg.Output.Explain,
			MaxExpansion: eng.cfg.MaxExpansion,
		})[0]
		pending = nil
		if err := eng.writeResult(res); err != nil {
			return err
		}
		return eng.write("\n")
	}

	for eng.running {
		line, err := eng.in.ReadLine()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("get user input: %w", err)
		}

		if strings.ToUpper(line) == QuitCommand {
			break
		}

		if line == "" {
			if err := flush(); err != nil {
				return err
			}
			continue
		}

		pending = append(pending, line)
	}

	if err := flush(); err != nil {
		return err
	}

	return eng.write("Goodbye\n")
}

func (eng *Engine) writeResult(res Result) error {
	if res.Err != nil {
		msg := rosed.Edit(cgerrors.ConsoleMessage(res.Err)).Wrap(eng.cfg.Output.Width).String()
		return eng.write("%s\n", msg)
	}

	if res.Analysis != nil {
		if err := eng.write("%s\n", res.Analysis.Table(eng.cfg.Output.Width)); err != nil {
			return err
		}
	}

	return eng.write("%s", res.Grammar.Text())
}

func (eng *Engine) write(format string, a ...interface{}) error {
	if _, err := eng.out.WriteString(fmt.Sprintf(format, a...)); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}

// Simplify is a convenience function that simplifies a single grammar given as
// text and returns the simplified grammar as text.
func Simplify(text string) (string, error) {
	g, err := grammar.ParseText(text)
	if err != nil {
		return "", err
	}
	return g.RemoveEpsilons().RemoveUseless().Text(), nil
}
