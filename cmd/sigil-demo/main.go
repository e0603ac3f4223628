// Command sigil-demo builds a couple of the library's canonical scenarios and prints
// what CreateDelegate produced: an array of length 5 from a NewArray-int method, and a
// stack-underflow report from a deliberately broken one. It exists to exercise the
// package end to end the way a caller would, not as a general-purpose tool.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/Turyansky/Sigil"
)

func main() {
	dump := flag.String("dump", "", `set to "yaml" to print verification failures as a YAML report instead of text`)
	flag.Parse()
	doMain(os.Stdout, os.Stderr, *dump == "yaml")
}

func doMain(stdOut, stdErr io.Writer, dumpYAML bool) {
	fmt.Fprintln(stdOut, "newarray-int:")
	runNewArrayInt(stdOut, stdErr, dumpYAML)

	fmt.Fprintln(stdOut, "\nnewarray-underflow:")
	runNewArrayUnderflow(stdOut, stdErr, dumpYAML)
}

func runNewArrayInt(stdOut, stdErr io.Writer, dumpYAML bool) {
	ret := sigil.ArrayType(reflect.TypeOf(int32(0)))
	e := sigil.NewEmitter("NewArrayInt", nil, &ret, sigil.DefaultConfig())

	b := sigil.NewBuilder(e)
	b.LoadConstantInt32(5).NewArray(reflect.TypeOf(int32(0))).Ret()
	if err := b.Err(); err != nil {
		reportFailure(stdOut, stdErr, err, dumpYAML)
		return
	}

	delegate, err := b.CreateDelegate()
	if err != nil {
		reportFailure(stdOut, stdErr, err, dumpYAML)
		return
	}
	result, err := delegate()
	if err != nil {
		reportFailure(stdOut, stdErr, err, dumpYAML)
		return
	}
	arr, ok := result.([]any)
	if !ok {
		fmt.Fprintf(stdOut, "  unexpected result type %T\n", result)
		return
	}
	fmt.Fprintf(stdOut, "  delegate returned an array of length %d\n", len(arr))
}

func runNewArrayUnderflow(stdOut, stdErr io.Writer, dumpYAML bool) {
	e := sigil.NewEmitter("NewArrayUnderflow", nil, nil, sigil.DefaultConfig())
	err := e.NewArray(reflect.TypeOf(int32(0)))
	if err == nil {
		fmt.Fprintln(stdOut, "  expected StackUnderflow, verification unexpectedly succeeded")
		return
	}
	var verr *sigil.VerificationError
	if errors.As(err, &verr) && verr.Kind == sigil.KindStackUnderflow {
		reportFailure(stdOut, stdErr, err, dumpYAML)
		return
	}
	fmt.Fprintf(stdOut, "  expected StackUnderflow, got %v\n", err)
}

// reportFailure writes err to stdOut as a YAML verification report when dumpYAML is
// set (the machine-readable path a CI log scraper would want), otherwise as colored
// text on stdErr.
func reportFailure(stdOut, stdErr io.Writer, err error, dumpYAML bool) {
	if dumpYAML {
		var verr *sigil.VerificationError
		if errors.As(err, &verr) {
			out, marshalErr := yaml.Marshal(verr)
			if marshalErr == nil {
				stdOut.Write(out)
				return
			}
		}
	}
	printFailure(stdErr, err)
}

// printFailure writes err to stdErr, coloring the kind red when stdErr is a real
// terminal — the same isatty gate the rest of this corpus uses before touching ANSI
// escapes, never assuming a color-capable output stream.
func printFailure(stdErr io.Writer, err error) {
	if f, ok := stdErr.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		fmt.Fprintf(stdErr, "  \033[31m%v\033[0m\n", err)
		return
	}
	fmt.Fprintf(stdErr, "  %v\n", err)
}
