package expr

// Expr represents a parsed expression node.
type Expr interface {
	Pos() int
	exprNode()
}

// IdentExpr refers to a variable, placeholder or function name.
type IdentExpr struct {
	Name string
	Posn int
}

func (e *IdentExpr) Pos() int { return e.Posn }
func (*IdentExpr) exprNode()  {}

// IntExpr is an integer literal.
type IntExpr struct {
	Value int64
	Posn  int
}

func (e *IntExpr) Pos() int { return e.Posn }
func (*IntExpr) exprNode()  {}

// RealExpr is a floating-point literal.
type RealExpr struct {
	Value float64
	Posn  int
}

func (e *RealExpr) Pos() int { return e.Posn }
func (*RealExpr) exprNode()  {}

// StringExpr is a double-quoted string literal.
type StringExpr struct {
	Value string
	Posn  int
}

func (e *StringExpr) Pos() int { return e.Posn }
func (*StringExpr) exprNode()  {}

// BoolExpr is a boolean literal.
type BoolExpr struct {
	Value bool
	Posn  int
}

func (e *BoolExpr) Pos() int { return e.Posn }
func (*BoolExpr) exprNode()  {}

// NilExpr is the nil literal.
type NilExpr struct {
	Posn int
}

func (e *NilExpr) Pos() int { return e.Posn }
func (*NilExpr) exprNode()  {}

// ListExpr is a literal list [a, b, ...].
type ListExpr struct {
	Elements []Expr
	Posn     int
}

func (e *ListExpr) Pos() int { return e.Posn }
func (*ListExpr) exprNode()  {}

// MapExpr is a literal mapping {k: v, ...}.
type MapExpr struct {
	Keys   []Expr
	Values []Expr
	Posn   int
}

func (e *MapExpr) Pos() int { return e.Posn }
func (*MapExpr) exprNode()  {}

// UnaryExpr applies a prefix operator.
type UnaryExpr struct {
	Op      TokenType
	Operand Expr
	Posn    int
}

func (e *UnaryExpr) Pos() int { return e.Posn }
func (*UnaryExpr) exprNode()  {}

// BinaryExpr applies an infix operator.
type BinaryExpr struct {
	Op    TokenType
	Left  Expr
	Right Expr
	Posn  int
}

func (e *BinaryExpr) Pos() int { return e.Posn }
func (*BinaryExpr) exprNode()  {}

// CallExpr invokes a function value with arguments.
type CallExpr struct {
	Fun  Expr
	Args []Expr
	Posn int
}

func (e *CallExpr) Pos() int { return e.Posn }
func (*CallExpr) exprNode()  {}

// IndexExpr selects an element of a list (1-based) or mapping.
type IndexExpr struct {
	Seq   Expr
	Index Expr
	Posn  int
}

func (e *IndexExpr) Pos() int { return e.Posn }
func (*IndexExpr) exprNode()  {}
