// The alphacore command runs one of the alphabet-reduction algorithms
// (spec section 6) against a process specification.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/mcrl2-tools/alphacore/algorithm"
	"github.com/mcrl2-tools/alphacore/diagnostic"
	"github.com/mcrl2-tools/alphacore/ident"
	"github.com/mcrl2-tools/alphacore/process"
)

// Input is read and written as JSON (process.EncodeSpec / DecodeSpec)
// rather than textual mCRL2: spec section 1 puts the surface grammar,
// parser, and pretty-printer out of scope for this core, leaving that to
// a collaborator. The JSON form is this core's stand-in wire format for
// driving the tool end to end without one.
var (
	algFlag     = flag.String("algorithm", "", "name of the algorithm to run, see -p")
	numberFlag  = flag.Int("number", -1, "index of the algorithm to run, alternative to -algorithm")
	printFlag   = flag.Bool("p", false, "print the available algorithm names and indices")
	verboseFlag = flag.Bool("v", false, "show verbose diagnostics on stderr")
	debugFlag   = flag.Bool("debug", false, "show debug diagnostics on stderr")
	outFlag     = flag.String("o", "-", "output file, or - for stdout")
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s [flags] [<input file or ->]

Reads a JSON-encoded process specification (process.EncodeSpec's format)
from <input file>, or from stdin if omitted or "-", runs the selected
algorithm, and writes the JSON-encoded result to -o (default stdout).

`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.BoolVar(printFlag, "print-algorithms", false, "print the available algorithm names and indices (same as -p)")
	flag.Parse()

	if *printFlag {
		for i, e := range algorithm.All() {
			fmt.Printf("%d\t%s\n", i, e.Name)
		}
		return
	}

	run, name, err := selectAlgorithm()
	if err != nil {
		fail(err)
	}

	spec, tbl, err := readSpec(flag.Arg(0))
	if err != nil {
		fail(err)
	}

	log := &diagnostic.Log{}
	result, err := run(spec, tbl, log)
	printLog(log)
	if err != nil {
		fail(fmt.Errorf("%s: %w", name, err))
	}

	if result.Report != "" {
		fmt.Println(result.Report)
	}
	if result.Spec != nil {
		if err := writeSpec(result.Spec, tbl); err != nil {
			fail(err)
		}
	}
}

func selectAlgorithm() (algorithm.Func, string, error) {
	switch {
	case *algFlag != "":
		run, ok := algorithm.ByName(*algFlag)
		if !ok {
			return nil, "", fmt.Errorf("unknown algorithm %q, see -p", *algFlag)
		}
		return run, *algFlag, nil
	case *numberFlag >= 0:
		name, run, ok := algorithm.ByIndex(*numberFlag)
		if !ok {
			return nil, "", fmt.Errorf("algorithm index %d out of range, see -p", *numberFlag)
		}
		return run, name, nil
	default:
		return nil, "", fmt.Errorf("no algorithm selected, pass -algorithm=NAME or -number=N (see -p)")
	}
}

func readSpec(arg string) (*process.Spec, *ident.Table, error) {
	var data []byte
	var err error
	if arg == "" || arg == "-" {
		data, err = ioutil.ReadAll(os.Stdin)
	} else {
		data, err = ioutil.ReadFile(arg)
	}
	if err != nil {
		return nil, nil, err
	}
	tbl := ident.NewTable()
	spec, err := process.DecodeSpec(data, tbl)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding input: %w", err)
	}
	return spec, tbl, nil
}

func writeSpec(spec *process.Spec, tbl *ident.Table) error {
	data, err := process.EncodeSpec(spec, tbl)
	if err != nil {
		return err
	}
	if *outFlag == "" || *outFlag == "-" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return ioutil.WriteFile(*outFlag, data, 0644)
}

func printLog(log *diagnostic.Log) {
	level := diagnostic.Normal
	if *debugFlag {
		level = diagnostic.Debug
	} else if *verboseFlag {
		level = diagnostic.Verbose
	}
	for _, e := range log.Entries {
		if e.MinLevel <= level {
			fmt.Fprintln(os.Stderr, e.String())
		}
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
