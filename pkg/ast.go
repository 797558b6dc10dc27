package kaleido

// Expr is an expression node. The set of implementations is closed: only
// the node types in this file satisfy it.
type Expr interface {
	exprNode()
}

// NumberLiteral is a numeric constant.
type NumberLiteral struct {
	Value float64
}

// VariableRef names a parameter of the enclosing function.
type VariableRef struct {
	Name string
}

// BinaryExpr applies the operator character Op to LHS and RHS.
type BinaryExpr struct {
	Op  rune
	LHS Expr
	RHS Expr
}

// CallExpr calls the function named Callee with Args in order.
type CallExpr struct {
	Callee string
	Args   []Expr
}

func (*NumberLiteral) exprNode() {}
func (*VariableRef) exprNode()   {}
func (*BinaryExpr) exprNode()    {}
func (*CallExpr) exprNode()      {}

// Decl is a top-level declaration, either a *Prototype (extern) or a
// *Function (definition or top-level expression).
type Decl interface {
	declNode()
}

// Prototype is a function's name and parameter names, independent of its
// body. An empty Name marks the prototype of a top-level expression.
type Prototype struct {
	Name   string
	Params []string
}

func (p *Prototype) IsAnonymous() bool {
	return p.Name == ""
}

type Function struct {
	Proto *Prototype
	Body  Expr
}

func (*Prototype) declNode() {}
func (*Function) declNode()  {}
