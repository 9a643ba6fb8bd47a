// Package ast defines the syntax tree shared by every compiler pass.
package ast

// NodeKind represents different types of syntax tree nodes
type NodeKind string

const (
	NodeProgram      NodeKind = "Program"
	NodeVarDeclList  NodeKind = "VarDeclList"
	NodeVarDecl      NodeKind = "VarDecl"
	NodeExpr         NodeKind = "Expr"
	NodeBinOp        NodeKind = "BinOp"
	NodeSimpleExpr   NodeKind = "SimpleExpr"
	NodeSimpleID     NodeKind = "SimpleID"
	NodeStmtList     NodeKind = "StmtList"
	NodeAssignStmt   NodeKind = "AssignStmt"
	NodeWriteStmt    NodeKind = "WriteStmt"
	NodeFunctionDecl NodeKind = "FunctionDecl"
	NodeParamList    NodeKind = "ParamList"
	NodeParam        NodeKind = "Param"
	NodeFunctionCall NodeKind = "FunctionCall"
	NodeArgList      NodeKind = "ArgList"
	NodeArg          NodeKind = "Arg"
	NodeArrayDecl    NodeKind = "ArrayDecl"
	NodeArrayAccess  NodeKind = "ArrayAccess"
)

// SizeUnset is the Size of an ArrayDecl whose size was never given.
const SizeUnset = -1

// Node represents a node in the syntax tree.
//
// Child layout per kind:
//
//	Program                            [VarDeclList, StmtList]
//	VarDeclList, StmtList,
//	ParamList, ArgList                 items in declared order
//	Expr, BinOp                        [left, right]
//	AssignStmt, WriteStmt, Arg         [expr]
//	FunctionDecl                       [ParamList, body]
//	FunctionCall                       [ArgList]
//	ArrayAccess                        [index]
//
// A node owns its children; the tree never shares a child between parents.
type Node struct {
	Kind NodeKind
	Line int

	// NodeVarDecl, NodeParam, NodeArrayDecl: declared type.
	// NodeFunctionDecl: return type.
	Type string
	// NodeVarDecl, NodeParam, NodeArrayDecl, NodeSimpleID, NodeAssignStmt (target),
	// NodeFunctionDecl, NodeFunctionCall, NodeArrayAccess:
	Name string
	// NodeExpr, NodeBinOp:
	Op string
	// NodeSimpleExpr:
	Integer int64
	// NodeArrayDecl:
	Size int

	Children []*Node

	tracker   *Tracker
	destroyed bool
}

// New returns a zero-initialized node of the given kind.
func New(kind NodeKind) *Node {
	n := &Node{Kind: kind}
	if kind == NodeArrayDecl {
		n.Size = SizeUnset
	}
	return n
}

// Child returns the i-th child, or nil if there is none.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Left and Right are the operands of NodeExpr and NodeBinOp.
func (n *Node) Left() *Node  { return n.Child(0) }
func (n *Node) Right() *Node { return n.Child(1) }

// IsList reports whether the node is one of the sequence kinds.
func (n *Node) IsList() bool {
	switch n.Kind {
	case NodeVarDeclList, NodeStmtList, NodeParamList, NodeArgList:
		return true
	}
	return false
}

func NewProgram(decls, stmts *Node) *Node {
	n := New(NodeProgram)
	n.Children = []*Node{decls, stmts}
	return n
}

func NewList(kind NodeKind, items ...*Node) *Node {
	n := New(kind)
	n.Children = items
	return n
}

func NewVarDecl(typ, name string) *Node {
	n := New(NodeVarDecl)
	n.Type = typ
	n.Name = name
	return n
}

func NewParam(typ, name string) *Node {
	n := New(NodeParam)
	n.Type = typ
	n.Name = name
	return n
}

func NewArrayDecl(typ, name string, size int) *Node {
	n := New(NodeArrayDecl)
	n.Type = typ
	n.Name = name
	n.Size = size
	return n
}

func NewInteger(value int64) *Node {
	n := New(NodeSimpleExpr)
	n.Integer = value
	return n
}

func NewIdent(name string) *Node {
	n := New(NodeSimpleID)
	n.Name = name
	return n
}

// NewBinOp builds a NodeBinOp; use NewExpr for the NodeExpr flavour.
func NewBinOp(op string, left, right *Node) *Node {
	n := New(NodeBinOp)
	n.Op = op
	n.Children = []*Node{left, right}
	return n
}

func NewExpr(op string, left, right *Node) *Node {
	n := NewBinOp(op, left, right)
	n.Kind = NodeExpr
	return n
}

func NewAssign(name string, expr *Node) *Node {
	n := New(NodeAssignStmt)
	n.Name = name
	n.Children = []*Node{expr}
	return n
}

func NewWrite(expr *Node) *Node {
	n := New(NodeWriteStmt)
	n.Children = []*Node{expr}
	return n
}

func NewFunctionDecl(name, returnType string, params, body *Node) *Node {
	n := New(NodeFunctionDecl)
	n.Name = name
	n.Type = returnType
	n.Children = []*Node{params, body}
	return n
}

func NewCall(name string, args *Node) *Node {
	n := New(NodeFunctionCall)
	n.Name = name
	n.Children = []*Node{args}
	return n
}

func NewArg(expr *Node) *Node {
	n := New(NodeArg)
	n.Children = []*Node{expr}
	return n
}

func NewArrayAccess(name string, index *Node) *Node {
	n := New(NodeArrayAccess)
	n.Name = name
	n.Children = []*Node{index}
	return n
}

// At sets the source line and returns the node for chaining.
func (n *Node) At(line int) *Node {
	n.Line = line
	return n
}
