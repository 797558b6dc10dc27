package kaleido

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
)

func TestVerify(t *testing.T) {
	one := constant.NewFloat(types.Double, 1)

	cases := []struct {
		name  string
		build func() *ir.Func
		fail  bool
	}{
		{
			"valid",
			func() *ir.Func {
				f := ir.NewFunc("f", types.Double, ir.NewParam("x", types.Double))
				entry := f.NewBlock("entry")
				entry.NewRet(entry.NewFAdd(f.Params[0], one))
				return f
			},
			false,
		},
		{
			"declaration only",
			func() *ir.Func {
				return ir.NewFunc("f", types.Double)
			},
			true,
		},
		{
			"missing terminator",
			func() *ir.Func {
				f := ir.NewFunc("f", types.Double)
				f.NewBlock("entry").NewFAdd(one, one)
				return f
			},
			true,
		},
		{
			"void return",
			func() *ir.Func {
				f := ir.NewFunc("f", types.Double)
				f.NewBlock("entry").NewRet(nil)
				return f
			},
			true,
		},
		{
			"wrong return type",
			func() *ir.Func {
				f := ir.NewFunc("f", types.Double)
				entry := f.NewBlock("entry")
				entry.NewRet(entry.NewFCmp(enum.FPredOEQ, one, one))
				return f
			},
			true,
		},
		{
			"integer operand",
			func() *ir.Func {
				f := ir.NewFunc("f", types.Double)
				entry := f.NewBlock("entry")
				entry.NewRet(entry.NewFAdd(one, constant.NewInt(types.I32, 1)))
				return f
			},
			true,
		},
		{
			"duplicate instruction name",
			func() *ir.Func {
				f := ir.NewFunc("f", types.Double, ir.NewParam("x", types.Double))
				entry := f.NewBlock("entry")
				first := entry.NewFAdd(f.Params[0], one)
				first.SetName("addtmp")
				second := entry.NewFAdd(first, one)
				second.SetName("addtmp")
				entry.NewRet(second)
				return f
			},
			true,
		},
		{
			"block named like a parameter",
			func() *ir.Func {
				f := ir.NewFunc("f", types.Double, ir.NewParam("entry", types.Double))
				entry := f.NewBlock("entry")
				entry.NewRet(f.Params[0])
				return f
			},
			true,
		},
		{
			"call arity",
			func() *ir.Func {
				g := ir.NewFunc("g", types.Double, ir.NewParam("a", types.Double))
				f := ir.NewFunc("f", types.Double)
				entry := f.NewBlock("entry")
				entry.NewRet(entry.NewCall(g, one, one))
				return f
			},
			true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Verify(c.build())
			if c.fail {
				assert.ErrorIs(t, err, ErrVerification)
				return
			}

			assert.NoError(t, err)
		})
	}
}
