package kaleido

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Verify structurally checks a generated function: it must have a body,
// every block must end in a return of the signature's type, and every
// instruction must be one the generator emits, applied to operands of the
// right type. Parameters, blocks and instructions must not share a name.
func Verify(f *ir.Func) error {
	if len(f.Blocks) == 0 {
		return verifyErrorf(f, "function has no body")
	}

	names := make(map[string]bool)
	define := func(v interface{}) error {
		n, ok := v.(localNamed)
		if !ok || n.IsUnnamed() {
			return nil
		}

		if names[n.Name()] {
			return verifyErrorf(f, "local name %%%s defined more than once", n.Name())
		}

		names[n.Name()] = true
		return nil
	}

	for _, param := range f.Params {
		if err := define(param); err != nil {
			return err
		}
	}

	for _, block := range f.Blocks {
		if err := define(block); err != nil {
			return err
		}

		for _, inst := range block.Insts {
			if err := define(inst); err != nil {
				return err
			}

			if err := verifyInst(f, inst); err != nil {
				return err
			}
		}

		switch term := block.Term.(type) {
		case nil:
			return verifyErrorf(f, "block %s has no terminator", block.Ident())
		case *ir.TermRet:
			if term.X == nil {
				return verifyErrorf(f, "return without a value")
			}

			if !types.Equal(term.X.Type(), f.Sig.RetType) {
				return verifyErrorf(f, "returns %s, expected %s", term.X.Type(), f.Sig.RetType)
			}
		default:
			return verifyErrorf(f, "unsupported terminator %T", term)
		}
	}

	return nil
}

// localNamed is implemented by parameters, blocks and value instructions.
type localNamed interface {
	Name() string
	IsUnnamed() bool
}

func verifyInst(f *ir.Func, inst ir.Instruction) error {
	switch inst := inst.(type) {
	case *ir.InstFAdd:
		return verifyOperands(f, "fadd", types.Double, inst.X, inst.Y)
	case *ir.InstFSub:
		return verifyOperands(f, "fsub", types.Double, inst.X, inst.Y)
	case *ir.InstFMul:
		return verifyOperands(f, "fmul", types.Double, inst.X, inst.Y)
	case *ir.InstFCmp:
		return verifyOperands(f, "fcmp", types.Double, inst.X, inst.Y)
	case *ir.InstUIToFP:
		if err := verifyOperands(f, "uitofp", types.I1, inst.From); err != nil {
			return err
		}

		if !types.Equal(inst.To, types.Double) {
			return verifyErrorf(f, "uitofp to %s, expected %s", inst.To, types.Double)
		}
	case *ir.InstCall:
		callee, ok := inst.Callee.(*ir.Func)
		if !ok {
			return verifyErrorf(f, "indirect call to %s", inst.Callee.Ident())
		}

		if len(inst.Args) != len(callee.Sig.Params) {
			return verifyErrorf(f, "call to %s with %d arguments, expected %d",
				callee.Ident(), len(inst.Args), len(callee.Sig.Params))
		}

		for i, arg := range inst.Args {
			if !types.Equal(arg.Type(), callee.Sig.Params[i]) {
				return verifyErrorf(f, "argument %d of call to %s is %s, expected %s",
					i, callee.Ident(), arg.Type(), callee.Sig.Params[i])
			}
		}
	default:
		return verifyErrorf(f, "unsupported instruction %T", inst)
	}

	return nil
}

func verifyOperands(f *ir.Func, op string, want types.Type, operands ...value.Value) error {
	for _, v := range operands {
		if v == nil {
			return verifyErrorf(f, "%s with missing operand", op)
		}

		if !types.Equal(v.Type(), want) {
			return verifyErrorf(f, "%s operand %s is %s, expected %s", op, v.Ident(), v.Type(), want)
		}
	}

	return nil
}

func verifyErrorf(f *ir.Func, format string, args ...interface{}) error {
	name := f.Name()
	if f.GlobalName == "" {
		name = "top-level expression"
	}

	args = append([]interface{}{name}, args...)
	return newError(ErrVerification, nil, "%s: "+format, args...)
}
