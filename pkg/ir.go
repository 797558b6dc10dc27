package kaleido

import (
	"fmt"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// ValueLookup is the symbol environment of the function being generated.
type ValueLookup struct {
	vals map[string]value.Value
}

func NewValueLookup() *ValueLookup {
	return &ValueLookup{
		vals: make(map[string]value.Value),
	}
}

func (l *ValueLookup) Get(id string) (value.Value, bool) {
	val, ok := l.vals[id]
	return val, ok
}

func (l *ValueLookup) Set(id string, val value.Value) {
	l.vals[id] = val
}

// LLVMIRBuilder lowers declarations into an LLVM IR module. It is the only
// writer of function bodies into its module and is not safe for concurrent
// use.
type LLVMIRBuilder struct {
	mod    *ir.Module
	funcs  map[string]*ir.Func
	block  *ir.Block
	values *ValueLookup

	// names holds every local name used in the current function. Parameters,
	// blocks and instructions share one namespace.
	names map[string]bool
}

func NewLLVMIRBuilder() *LLVMIRBuilder {
	return &LLVMIRBuilder{
		mod:   ir.NewModule(),
		funcs: make(map[string]*ir.Func),
	}
}

func (b *LLVMIRBuilder) Module() *ir.Module {
	return b.mod
}

// Lookup returns the named function from the module function table, or nil.
func (b *LLVMIRBuilder) Lookup(name string) *ir.Func {
	return b.funcs[name]
}

// Generate lowers a top-level declaration and returns the resulting function.
func (b *LLVMIRBuilder) Generate(decl Decl) (*ir.Func, error) {
	switch d := decl.(type) {
	case *Prototype:
		return b.Extern(d)
	case *Function:
		return b.Function(d)
	default:
		panic(fmt.Sprintf("unexpected declaration %T", decl))
	}
}

// Extern declares the prototype in the module, reusing an earlier
// declaration of the same name and arity.
func (b *LLVMIRBuilder) Extern(proto *Prototype) (*ir.Func, error) {
	if err := checkParams(proto); err != nil {
		return nil, err
	}

	f, _, err := b.declare(proto)
	return f, err
}

func (b *LLVMIRBuilder) declare(proto *Prototype) (f *ir.Func, existed bool, err error) {
	if !proto.IsAnonymous() {
		if f := b.funcs[proto.Name]; f != nil {
			if len(f.Params) != len(proto.Params) {
				return nil, true, newError(ErrRedefinition, nil, "%s was declared with %d parameters, not %d",
					proto.Name, len(f.Params), len(proto.Params))
			}

			return f, true, nil
		}
	}

	params := make([]*ir.Param, 0, len(proto.Params))
	for _, name := range proto.Params {
		params = append(params, ir.NewParam(name, types.Double))
	}

	f = b.mod.NewFunc(proto.Name, types.Double, params...)
	if !proto.IsAnonymous() {
		b.funcs[proto.Name] = f
	}

	return f, false, nil
}

// Function generates the body of fn. On failure the module is left as it was
// before the call: a new function is erased, and a function previously
// declared by an extern is returned to being a declaration.
func (b *LLVMIRBuilder) Function(fn *Function) (*ir.Func, error) {
	proto := fn.Proto
	if err := checkParams(proto); err != nil {
		return nil, err
	}

	f, existed, err := b.declare(proto)
	if err != nil {
		return nil, err
	}

	if len(f.Blocks) != 0 {
		return nil, newError(ErrRedefinition, nil, "%s", proto.Name)
	}

	prevNames := make([]string, len(f.Params))
	for i, param := range f.Params {
		prevNames[i] = param.Name()
		param.SetName(proto.Params[i])
	}

	b.values = NewValueLookup()
	b.names = make(map[string]bool, len(f.Params))
	for i, param := range f.Params {
		b.values.Set(proto.Params[i], param)
		b.names[proto.Params[i]] = true
	}

	b.block = f.NewBlock(b.uniqueName("entry"))

	defer func() {
		b.block = nil
		b.values = nil
		b.names = nil
	}()

	ret, err := b.recursiveLoad(fn.Body)
	if err == nil {
		b.block.NewRet(ret)
		err = Verify(f)
	}

	if err != nil {
		if existed {
			f.Blocks = nil
			for i, param := range f.Params {
				param.SetName(prevNames[i])
			}
		} else {
			b.erase(f)
		}

		return nil, err
	}

	return f, nil
}

func (b *LLVMIRBuilder) erase(f *ir.Func) {
	for i, g := range b.mod.Funcs {
		if g == f {
			b.mod.Funcs = append(b.mod.Funcs[:i], b.mod.Funcs[i+1:]...)
			break
		}
	}

	if name := f.Name(); b.funcs[name] == f {
		delete(b.funcs, name)
	}
}

// uniqueName returns base, or base followed by the smallest counter that is
// not yet a local name of the current function (addtmp, addtmp1, ...).
func (b *LLVMIRBuilder) uniqueName(base string) string {
	name := base
	for i := 1; b.names[name]; i++ {
		name = base + strconv.Itoa(i)
	}

	b.names[name] = true
	return name
}

func checkParams(proto *Prototype) error {
	seen := make(map[string]bool, len(proto.Params))
	for _, name := range proto.Params {
		if seen[name] {
			return newError(ErrDuplicateParameter, nil, "'%s' in %s", name, describe(proto))
		}

		seen[name] = true
	}

	return nil
}

func (b *LLVMIRBuilder) recursiveLoad(expr Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *NumberLiteral:
		return constant.NewFloat(types.Double, e.Value), nil
	case *VariableRef:
		if v, ok := b.values.Get(e.Name); ok {
			return v, nil
		}

		return nil, newError(ErrUnknownVariable, nil, "%s", e.Name)
	case *BinaryExpr:
		return b.binaryExpression(e)
	case *CallExpr:
		return b.functionCall(e)
	default:
		panic(fmt.Sprintf("unexpected expression %T", expr))
	}
}

func (b *LLVMIRBuilder) binaryExpression(expr *BinaryExpr) (value.Value, error) {
	lhs, err := b.recursiveLoad(expr.LHS)
	if err != nil {
		return nil, err
	}

	rhs, err := b.recursiveLoad(expr.RHS)
	if err != nil {
		return nil, err
	}

	switch expr.Op {
	case '+':
		op := b.block.NewFAdd(lhs, rhs)
		op.SetName(b.uniqueName("addtmp"))
		return op, nil
	case '-':
		op := b.block.NewFSub(lhs, rhs)
		op.SetName(b.uniqueName("subtmp"))
		return op, nil
	case '<':
		cmp := b.block.NewFCmp(enum.FPredULT, lhs, rhs)
		cmp.SetName(b.uniqueName("cmptmp"))

		// Widen the i1 result to 0.0 or 1.0
		op := b.block.NewUIToFP(cmp, types.Double)
		op.SetName(b.uniqueName("booltmp"))
		return op, nil
	default:
		return nil, newError(ErrInvalidOperator, nil, "'%c'", expr.Op)
	}
}

func (b *LLVMIRBuilder) functionCall(expr *CallExpr) (value.Value, error) {
	callee := b.funcs[expr.Callee]
	if callee == nil {
		return nil, newError(ErrUnknownFunction, nil, "%s", expr.Callee)
	}

	if len(callee.Params) != len(expr.Args) {
		return nil, newError(ErrArgumentCountMismatch, nil, "%s takes %d arguments, got %d",
			expr.Callee, len(callee.Params), len(expr.Args))
	}

	args := make([]value.Value, 0, len(expr.Args))
	for _, arg := range expr.Args {
		v, err := b.recursiveLoad(arg)
		if err != nil {
			return nil, err
		}

		args = append(args, v)
	}

	call := b.block.NewCall(callee, args...)
	call.SetName(b.uniqueName("calltmp"))

	return call, nil
}

func describe(proto *Prototype) string {
	if proto.IsAnonymous() {
		return "top-level expression"
	}

	return proto.Name
}
