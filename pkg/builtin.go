package kaleido

import (
	"fmt"
	"io"
)

// nativeFunc implements a function that programs declare with extern but
// never define, such as printd.
type nativeFunc struct {
	arity int
	call  func(out io.Writer, args []float64) float64
}

var builtins = map[string]nativeFunc{
	"printd":   {arity: 1, call: builtinPrintd},
	"putchard": {arity: 1, call: builtinPutchard},
}

// builtinPrintd prints its argument followed by a newline and returns 0.
func builtinPrintd(out io.Writer, args []float64) float64 {
	fmt.Fprintf(out, "%f\n", args[0])
	return 0
}

// builtinPutchard writes its argument as a single byte and returns 0.
func builtinPutchard(out io.Writer, args []float64) float64 {
	_, _ = out.Write([]byte{byte(int(args[0]))})
	return 0
}
