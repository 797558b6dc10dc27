package kaleido

import (
	"fmt"
	"io"
	"math"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"
)

const DefaultMaxCallDepth = 1024

// Evaluator interprets functions produced by the LLVMIRBuilder. Functions
// that are only declared are resolved against the native builtins.
type Evaluator struct {
	MaxDepth int
	Output   io.Writer
}

func NewEvaluator(out io.Writer, maxDepth int) *Evaluator {
	if out == nil {
		out = io.Discard
	}

	if maxDepth <= 0 {
		maxDepth = DefaultMaxCallDepth
	}

	return &Evaluator{
		MaxDepth: maxDepth,
		Output:   out,
	}
}

func (e *Evaluator) Call(f *ir.Func, args ...float64) (float64, error) {
	return e.call(f, args, 0)
}

// frame holds the values of one activation's parameters and instructions.
type frame map[value.Value]float64

func (e *Evaluator) call(f *ir.Func, args []float64, depth int) (float64, error) {
	if depth >= e.MaxDepth {
		return 0, newError(ErrCallDepth, nil, "%s nested more than %d calls deep", f.Name(), e.MaxDepth)
	}

	if len(args) != len(f.Params) {
		return 0, newError(ErrArgumentCountMismatch, nil, "%s takes %d arguments, got %d",
			f.Name(), len(f.Params), len(args))
	}

	if len(f.Blocks) == 0 {
		return e.callNative(f, args)
	}

	fr := make(frame, len(f.Params))
	for i, param := range f.Params {
		fr[param] = args[i]
	}

	block := f.Blocks[0]
	for _, inst := range block.Insts {
		if err := e.exec(fr, inst, depth); err != nil {
			return 0, err
		}
	}

	ret, ok := block.Term.(*ir.TermRet)
	if !ok || ret.X == nil {
		return 0, newError(ErrVerification, nil, "%s: block %s does not return a value", f.Name(), block.Ident())
	}

	return fr.operand(ret.X)
}

func (e *Evaluator) callNative(f *ir.Func, args []float64) (float64, error) {
	native, ok := builtins[f.Name()]
	if !ok {
		return 0, newError(ErrUnknownFunction, nil, "%s is declared but never defined", f.Name())
	}

	if native.arity != len(args) {
		return 0, newError(ErrArgumentCountMismatch, nil, "%s takes %d arguments, got %d",
			f.Name(), native.arity, len(args))
	}

	return native.call(e.Output, args), nil
}

func (e *Evaluator) exec(fr frame, inst ir.Instruction, depth int) error {
	switch inst := inst.(type) {
	case *ir.InstFAdd:
		return fr.binary(inst, inst.X, inst.Y, func(x, y float64) float64 { return x + y })
	case *ir.InstFSub:
		return fr.binary(inst, inst.X, inst.Y, func(x, y float64) float64 { return x - y })
	case *ir.InstFMul:
		return fr.binary(inst, inst.X, inst.Y, func(x, y float64) float64 { return x * y })
	case *ir.InstFCmp:
		if inst.Pred != enum.FPredULT {
			return fmt.Errorf("unsupported fcmp predicate %v", inst.Pred)
		}

		return fr.binary(inst, inst.X, inst.Y, func(x, y float64) float64 {
			if math.IsNaN(x) || math.IsNaN(y) || x < y {
				return 1
			}

			return 0
		})
	case *ir.InstUIToFP:
		// Booleans are already held as 0 or 1
		v, err := fr.operand(inst.From)
		if err != nil {
			return err
		}

		fr[inst] = v
	case *ir.InstCall:
		callee, ok := inst.Callee.(*ir.Func)
		if !ok {
			return fmt.Errorf("unsupported indirect call to %s", inst.Callee.Ident())
		}

		args := make([]float64, 0, len(inst.Args))
		for _, arg := range inst.Args {
			v, err := fr.operand(arg)
			if err != nil {
				return err
			}

			args = append(args, v)
		}

		v, err := e.call(callee, args, depth+1)
		if err != nil {
			return err
		}

		fr[inst] = v
	default:
		return fmt.Errorf("unsupported instruction %T", inst)
	}

	return nil
}

func (fr frame) binary(inst value.Value, x, y value.Value, op func(x, y float64) float64) error {
	lhs, err := fr.operand(x)
	if err != nil {
		return err
	}

	rhs, err := fr.operand(y)
	if err != nil {
		return err
	}

	fr[inst] = op(lhs, rhs)
	return nil
}

func (fr frame) operand(v value.Value) (float64, error) {
	if c, ok := v.(*constant.Float); ok {
		f, _ := c.X.Float64()
		return f, nil
	}

	if f, ok := fr[v]; ok {
		return f, nil
	}

	return 0, fmt.Errorf("use of undefined value %s", v.Ident())
}
