package kaleido

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Options controls how a Compiler parses and evaluates programs.
type Options struct {
	// Operators maps single character binary operators to their precedence.
	// When empty the default table (< 10, + 20, - 20, * 40) is used.
	Operators map[string]int `yaml:"operators"`
	// Evaluate runs every top-level expression after generating it.
	Evaluate bool `yaml:"evaluate"`
	// MaxCallDepth bounds call nesting during evaluation.
	MaxCallDepth int `yaml:"max_call_depth"`
	// MaxParallelism bounds how many programs CompileAll compiles at once.
	// Zero means one per CPU.
	MaxParallelism int `yaml:"max_parallelism"`
	// Output receives what builtins such as printd write.
	Output io.Writer `yaml:"-"`
}

// LoadOptions decodes YAML options. Unknown keys are rejected.
func LoadOptions(r io.Reader) (*Options, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	opt := &Options{}
	if err := dec.Decode(opt); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	if _, err := opt.OperatorTable(); err != nil {
		return nil, err
	}

	return opt, nil
}

func LoadOptionsFile(path string) (*Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadOptions(f)
}

// OperatorTable builds the operator table these options describe.
func (o *Options) OperatorTable() (*OperatorTable, error) {
	if o == nil || len(o.Operators) == 0 {
		return DefaultOperatorTable(), nil
	}

	ops := make(map[rune]int, len(o.Operators))
	for k, prec := range o.Operators {
		if utf8.RuneCountInString(k) != 1 {
			return nil, fmt.Errorf("%w: operator %q must be a single character", ErrInvalidOptions, k)
		}

		r, _ := utf8.DecodeRuneInString(k)
		ops[r] = prec
	}

	return NewOperatorTable(ops)
}

func (o *Options) normalize() Options {
	var opt Options
	if o != nil {
		opt = *o
	}

	if opt.MaxCallDepth <= 0 {
		opt.MaxCallDepth = DefaultMaxCallDepth
	}

	if opt.MaxParallelism < 0 {
		opt.MaxParallelism = 0
	}

	if opt.Output == nil {
		opt.Output = io.Discard
	}

	return opt
}
