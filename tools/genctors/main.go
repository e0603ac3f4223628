// genctors generates the fixed-arity NewObjectN convenience wrappers that forward to
// Emitter.NewObjectOfTypes: pure sugar over the one variadic entry point, kept out of
// hand-written source because there are sixteen of them and they differ only in arity
// (spec.md §9 "Generic arity-N convenience overloads"). Call has no analogous
// NewObjectOfTypes-style variadic entry point to wrap — its Method struct already
// describes an arbitrary parameter list in one value — so there is no CallN family.
//
// Usage: go run ./tools/genctors -max=16 -out=ctors_generated.go
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/tools/imports"
)

func main() {
	max := flag.Int("max", 16, "highest constructor arity to generate")
	out := flag.String("out", "ctors_generated.go", "output file path")
	flag.Parse()

	var buf bytes.Buffer
	fmt.Fprint(&buf, header)
	for n := 0; n <= *max; n++ {
		writeWrapper(&buf, n)
	}

	formatted, err := imports.Process(*out, buf.Bytes(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "genctors: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, formatted, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "genctors: %v\n", err)
		os.Exit(1)
	}
}

const header = `// Code generated by tools/genctors. DO NOT EDIT.

package sigil

import "reflect"
`

func writeWrapper(buf *bytes.Buffer, n int) {
	params := make([]string, n)
	args := make([]string, n)
	for i := 0; i < n; i++ {
		params[i] = fmt.Sprintf("t%d reflect.Type", i)
		args[i] = fmt.Sprintf("t%d", i)
	}
	fmt.Fprintf(buf, "\n// NewObject%d forwards to NewObjectOfTypes with %d constructor parameter type(s).\n", n, n)
	fmt.Fprintf(buf, "func (e *Emitter) NewObject%d(declaring reflect.Type%s) error {\n",
		n, joinWithLeadingComma(params))
	fmt.Fprintf(buf, "\treturn e.NewObjectOfTypes(declaring%s)\n", joinWithLeadingComma(args))
	fmt.Fprintf(buf, "}\n")
}

func joinWithLeadingComma(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return ", " + strings.Join(items, ", ")
}
