package kaleido

import (
	"context"
	"errors"
	"io"
	"os"
	"runtime"

	"github.com/llir/llvm/ir"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Program is the result of compiling one source. Errors holds one entry per
// top-level declaration that failed; the declarations around it are still
// compiled.
type Program struct {
	Name   string
	Module *ir.Module
	Values []float64
	Errors []error
}

// Compiler holds the configuration shared by every compilation. It is safe
// for concurrent use: each compilation gets its own Session.
type Compiler struct {
	opt Options
	ops *OperatorTable
}

func NewCompiler(opt *Options) (*Compiler, error) {
	ops, err := opt.OperatorTable()
	if err != nil {
		return nil, err
	}

	return &Compiler{
		opt: opt.normalize(),
		ops: ops,
	}, nil
}

func (c *Compiler) Compile(filename string) (*Program, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "compiling %s", filename)
	}
	defer f.Close()

	return c.CompileReader(filename, f), nil
}

func (c *Compiler) CompileReader(name string, reader io.Reader) *Program {
	s := c.NewSession(name)
	s.Run(NewParser(NewLexer(reader), c.ops))

	return s.Program()
}

// CompileAll compiles independent programs concurrently. It fails only when a
// file cannot be read; compile errors are reported per Program.
func (c *Compiler) CompileAll(ctx context.Context, filenames ...string) ([]*Program, error) {
	par := c.opt.MaxParallelism
	if par == 0 {
		par = runtime.GOMAXPROCS(-1)
	}

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(par)

	programs := make([]*Program, len(filenames))
	for i, filename := range filenames {
		i, filename := i, filename
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			prog, err := c.Compile(filename)
			if err != nil {
				return err
			}

			programs[i] = prog
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}

	return programs, nil
}

// Session is the state of a single compilation: the module being built, its
// function table and, when evaluating, the evaluator. It must not be shared
// between goroutines.
type Session struct {
	ops     *OperatorTable
	builder *LLVMIRBuilder
	eval    *Evaluator
	prog    *Program
}

func (c *Compiler) NewSession(name string) *Session {
	s := &Session{
		ops:     c.ops,
		builder: NewLLVMIRBuilder(),
	}

	if c.opt.Evaluate {
		s.eval = NewEvaluator(c.opt.Output, c.opt.MaxCallDepth)
	}

	s.prog = &Program{
		Name:   name,
		Module: s.builder.Module(),
	}

	return s
}

func (s *Session) Program() *Program {
	return s.prog
}

// Run compiles every top-level declaration p yields. A declaration that fails
// to parse is recorded and one token is skipped before trying the next.
func (s *Session) Run(p *Parser) {
	for {
		tok := p.Current()
		switch {
		case tok.Typ == TokenEOF:
			return
		case tok.IsChar(';'):
			p.Advance() // Ignore top-level semicolons
			continue
		}

		decl, err := p.ParseTopLevel()
		if err != nil {
			s.prog.Errors = append(s.prog.Errors, err)
			p.Advance()
			continue
		}

		if _, err := s.Handle(decl); err != nil {
			s.prog.Errors = append(s.prog.Errors, withLocation(err, tok.Loc))
		}
	}
}

// Handle generates a single declaration and, for top-level expressions when
// evaluation is enabled, runs it and records its value.
func (s *Session) Handle(decl Decl) (*ir.Func, error) {
	f, err := s.builder.Generate(decl)
	if err != nil {
		return nil, err
	}

	if fn, ok := decl.(*Function); ok && fn.Proto.IsAnonymous() && s.eval != nil {
		v, err := s.eval.Call(f)
		if err != nil {
			return f, err
		}

		s.prog.Values = append(s.prog.Values, v)
	}

	return f, nil
}

// withLocation attaches loc to compile errors that were raised without one.
func withLocation(err error, loc *Location) error {
	var ce *CompileError
	if errors.As(err, &ce) && ce.Loc == nil {
		ce.Loc = loc
	}

	return err
}
