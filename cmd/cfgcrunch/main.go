/*
Cfgcrunch simplifies context-free grammars by removing their epsilon
productions and then their useless symbols.

By default it reads every grammar file in the current directory, in name
order, and prints each simplified grammar under a banner with the file's name.
Each file holds one grammar with one rule per line, such as "S-aSb|0". Every
character of an alternative is one symbol, and "0" on its own is the empty
string. A symbol is a nonterminal if it has a rule of its own in the grammar,
and a terminal otherwise. The first rule's left side is the start symbol.

Usage:

	cfgcrunch [flags]
	cfgcrunch [flags] -i

The flags are:

	-v, --version
		Give the current version of cfgcrunch and then exit.

	-c, --config FILE
		Read settings from the given TOML file. If not given, the file
		"cfgcrunch.toml" in the current working directory is used if it
		exists. Flags override settings from the file.

	--dir DIR
		Read grammar files from DIR. Defaults to the current directory.

	--ext EXTENSION
		Only read files whose names end in EXTENSION. Defaults to ".txt".

	-w, --width COLUMNS
		Wrap console messages and tables at COLUMNS. Defaults to 80.

	--workers N
		Simplify up to N grammars at once. Output order is the same no matter
		how many workers are used. Defaults to 1.

	--max-expansion N
		Refuse to simplify any grammar whose epsilon removal would create more
		than N productions. Such a grammar gets a message in place of its
		output and the others are still simplified. Defaults to 1048576.

	-x, --explain
		Before each grammar, print a table of the nullable, generating, and
		reachable symbols found while simplifying it.

	-i, --interactive
		Read grammars from stdin instead of from files. A blank line ends each
		grammar and "QUIT" exits.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading input even if launched in a tty
		with stdin and stdout. Only applies with --interactive.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/cfgcrunch"
	"github.com/dekarrin/cfgcrunch/internal/config"
	"github.com/dekarrin/cfgcrunch/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitRunError indicates an unsuccessful program execution due to a
	// problem while reading or simplifying grammars.
	ExitRunError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// initializing the engine.
	ExitInitError
)

var (
	returnCode int = ExitSuccess

	flagVersion     = pflag.BoolP("version", "v", false, "Give the current version of cfgcrunch and then exit.")
	flagConfig      = pflag.StringP("config", "c", "", "Read settings from the given TOML file.")
	flagDir         = pflag.String("dir", config.DefaultDir, "Read grammar files from the given directory.")
	flagExt         = pflag.String("ext", config.DefaultExtension, "Only read files with the given extension.")
	flagWidth       = pflag.IntP("width", "w", config.DefaultWidth, "Wrap console messages and tables at the given column.")
	flagWorkers     = pflag.Int("workers", config.DefaultWorkers, "Simplify up to this many grammars at once.")
	flagMaxExpand   = pflag.Int("max-expansion", config.DefaultMaxExpansion, "Refuse grammars whose epsilon removal would create more than this many productions.")
	flagExplain     = pflag.BoolP("explain", "x", false, "Print the symbol sets found while simplifying each grammar.")
	flagInteractive = pflag.BoolP("interactive", "i", false, "Read grammars from stdin instead of from files.")
	flagDirect      = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "ERROR: too many arguments\nDo -h for help.\n")
		returnCode = ExitInitError
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	eng, initErr := cfgcrunch.New(os.Stdin, os.Stdout, cfg, *flagDirect)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer eng.Close()

	if *flagInteractive {
		err = eng.RunInteractive()
	} else {
		err = eng.RunBatch()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitRunError
		return
	}
}

// loadConfig reads the config file and then applies any flags that were
// explicitly given on top of it.
func loadConfig() (config.Config, error) {
	var cfg config.Config
	var err error

	if pflag.Lookup("config").Changed {
		cfg, err = config.Load(*flagConfig)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	if pflag.Lookup("dir").Changed {
		cfg.Input.Dir = *flagDir
	}
	if pflag.Lookup("ext").Changed {
		cfg.Input.Extension = *flagExt
	}
	if pflag.Lookup("width").Changed {
		cfg.Output.Width = *flagWidth
	}
	if pflag.Lookup("workers").Changed {
		cfg.Workers = *flagWorkers
	}
	if pflag.Lookup("max-expansion").Changed {
		cfg.MaxExpansion = *flagMaxExpand
	}
	if pflag.Lookup("explain").Changed {
		cfg.Output.Explain = *flagExplain
	}

	return cfg, nil
}
