package tac

import (
	"fmt"
	"io"
	"strconv"

	"github.com/strager/mipsc/ast"
)

// UnknownOperand is the operand text produced for a node that cannot be an
// operand. It only appears for malformed trees.
const UnknownOperand = "unknown"

// Generator lowers syntax tree nodes and appends the instructions to List.
// Temporaries are taken from Temps and are not released during lowering.
type Generator struct {
	Temps *TempPool
	List  *List
	// Trace, if set, receives each generated instruction.
	Trace io.Writer
	// Diagnostics, if set, receives a line for every malformed operand.
	Diagnostics io.Writer

	function string
}

// NewGenerator returns a generator with an empty list and a fresh temp pool.
func NewGenerator() *Generator {
	return &Generator{
		Temps: NewTempPool(),
		List:  &List{},
	}
}

// Program lowers every statement reachable from root, in source order, and
// returns the generator's list. Temporaries never take the name of a symbol
// declared anywhere under root.
func (g *Generator) Program(root *ast.Node) (*List, error) {
	g.reserveDeclared(root)
	if err := g.walk(root); err != nil {
		return nil, err
	}
	return g.List, nil
}

func (g *Generator) walk(node *ast.Node) error {
	if node == nil {
		return nil
	}
	switch node.Kind {
	case ast.NodeFunctionDecl:
		outer := g.function
		g.function = node.Name
		defer func() { g.function = outer }()
		for _, child := range node.Children {
			if err := g.walk(child); err != nil {
				return err
			}
		}
		return nil

	case ast.NodeProgram, ast.NodeVarDeclList, ast.NodeStmtList,
		ast.NodeParamList, ast.NodeArgList, ast.NodeArg:
		for _, child := range node.Children {
			if err := g.walk(child); err != nil {
				return err
			}
		}
		return nil

	case ast.NodeVarDecl, ast.NodeParam, ast.NodeArrayDecl:
		// Declarations only matter to the symbol table.
		return nil

	default:
		_, err := g.Lower(node)
		return err
	}
}

func (g *Generator) reserveDeclared(node *ast.Node) {
	if node == nil {
		return
	}
	switch node.Kind {
	case ast.NodeVarDecl, ast.NodeParam, ast.NodeArrayDecl, ast.NodeFunctionDecl:
		g.Temps.Reserve(node.Name)
	}
	for _, child := range node.Children {
		g.reserveDeclared(child)
	}
}

// Lower emits the instruction for node and returns it. Nodes with no
// instruction of their own (a bare identifier, declarations) return nil.
func (g *Generator) Lower(node *ast.Node) (*Instruction, error) {
	if node == nil {
		return nil, nil
	}

	in := &Instruction{Function: g.function}
	var err error

	switch node.Kind {
	case ast.NodeExpr, ast.NodeBinOp:
		if in.Arg1, err = g.Operand(node.Left()); err != nil {
			return nil, err
		}
		if in.Arg2, err = g.Operand(node.Right()); err != nil {
			return nil, err
		}
		in.Op = node.Op

	case ast.NodeSimpleExpr:
		in.Arg1 = strconv.FormatInt(node.Integer, 10)
		in.Op = OpLoadImm

	case ast.NodeSimpleID:
		return nil, nil

	case ast.NodeAssignStmt:
		if in.Arg1, err = g.Operand(node.Child(0)); err != nil {
			return nil, err
		}
		in.Op = OpAssign
		in.Result = node.Name

	case ast.NodeWriteStmt:
		if in.Arg1, err = g.Operand(node.Child(0)); err != nil {
			return nil, err
		}
		in.Op = OpWrite

	case ast.NodeFunctionCall:
		// Arguments are not passed; see DESIGN.md.
		in.Arg1 = node.Name
		in.Op = OpCall

	case ast.NodeArrayAccess:
		in.Arg1 = node.Name
		if in.Arg2, err = g.Operand(node.Child(0)); err != nil {
			return nil, err
		}
		in.Op = OpArrayLoad

	default:
		g.diagnosef("line %d: no instruction for %s node", node.Line, node.Kind)
		return nil, nil
	}

	if in.Op != OpAssign && in.Op != OpWrite {
		if in.Result, err = g.temp(node); err != nil {
			return nil, err
		}
	}

	if g.Trace != nil {
		fmt.Fprintf(g.Trace, "Generated TAC: %s\n", in)
	}
	g.List.Append(in)
	return in, nil
}

// Operand returns the text naming node's value. Literals and identifiers are
// used directly; array accesses become name[index]; computed expressions are
// lowered first and named by their result temporary.
func (g *Generator) Operand(node *ast.Node) (string, error) {
	if node == nil {
		return "", nil
	}
	switch node.Kind {
	case ast.NodeSimpleExpr:
		return strconv.FormatInt(node.Integer, 10), nil

	case ast.NodeSimpleID:
		return node.Name, nil

	case ast.NodeArrayAccess:
		index, err := g.Operand(node.Child(0))
		if err != nil {
			return "", err
		}
		return node.Name + "[" + index + "]", nil

	case ast.NodeExpr, ast.NodeBinOp, ast.NodeFunctionCall:
		in, err := g.Lower(node)
		if err != nil {
			return "", err
		}
		return in.Result, nil

	default:
		g.diagnosef("line %d: %s node cannot be an operand", node.Line, node.Kind)
		return UnknownOperand, nil
	}
}

func (g *Generator) temp(node *ast.Node) (string, error) {
	name, err := g.Temps.Allocate()
	if err != nil {
		return "", fmt.Errorf("line %d: %s: %w", node.Line, node.Kind, err)
	}
	return name, nil
}

func (g *Generator) diagnosef(format string, args ...any) {
	if g.Diagnostics != nil {
		fmt.Fprintf(g.Diagnostics, format+"\n", args...)
	}
}
