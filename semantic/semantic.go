// Package semantic checks that every name is declared before it is used.
package semantic

import (
	"errors"
	"fmt"
	"io"

	"github.com/strager/mipsc/ast"
	"github.com/strager/mipsc/diag"
	"github.com/strager/mipsc/symtab"
)

// FunctionTableCapacity sizes the scope created for each function body.
const FunctionTableCapacity = 100

// Checker walks a syntax tree and reports declaration/use errors.
// Checking never stops at an error; every problem is reported.
type Checker struct {
	Errors *diag.ErrorCollection
	// Trace, if set, receives one line per visited node.
	Trace io.Writer
}

// Check is shorthand for (&Checker{Errors: errs}).Check(node, table).
func Check(node *ast.Node, table *symtab.Table, errs *diag.ErrorCollection) int {
	c := &Checker{Errors: errs}
	return c.Check(node, table)
}

// Check validates node against table, declaring names into table as it goes.
// It returns the number of errors found under node.
func (c *Checker) Check(node *ast.Node, table *symtab.Table) int {
	if node == nil {
		return 0
	}
	if c.Errors == nil {
		c.Errors = &diag.ErrorCollection{}
	}
	c.tracef("Analyzing %s", node.Kind)

	switch node.Kind {
	case ast.NodeVarDecl:
		return c.declare(table.Add(node.Name, node.Type), diag.SubjectVariable, node)

	case ast.NodeParam:
		return c.declare(table.Add(node.Name, node.Type), diag.SubjectParameter, node)

	case ast.NodeArrayDecl:
		return c.declare(table.AddArray(node.Name, node.Type, node.Size), diag.SubjectArray, node)

	case ast.NodeSimpleExpr:
		return 0

	case ast.NodeSimpleID:
		if table.Lookup(node.Name) == nil {
			return c.report(diag.SubjectVariable, node, "used without declaration")
		}
		return 0

	case ast.NodeAssignStmt:
		count := c.Check(node.Child(0), table)
		if table.Lookup(node.Name) == nil {
			count += c.report(diag.SubjectVariable, node, "used without declaration")
		}
		return count

	case ast.NodeFunctionDecl:
		params := node.Child(0)
		if err := table.AddFunction(node.Name, params); err != nil {
			return c.declare(err, diag.SubjectFunction, node)
		}
		// Parameters and locals live in their own scope, which cannot see
		// the enclosing one.
		scope := symtab.New(FunctionTableCapacity)
		defer scope.Destroy()
		return c.Check(params, scope) + c.Check(node.Child(1), scope)

	case ast.NodeFunctionCall:
		sym := table.Lookup(node.Name)
		if sym == nil || !sym.IsFunction {
			return c.report(diag.SubjectFunction, node, "called without declaration")
		}
		return c.Check(node.Child(0), table)

	case ast.NodeArrayAccess:
		sym := table.Lookup(node.Name)
		if sym == nil || !sym.IsArray {
			return c.report(diag.SubjectArray, node, "accessed without declaration")
		}
		return c.Check(node.Child(0), table)

	case ast.NodeProgram, ast.NodeVarDeclList, ast.NodeStmtList, ast.NodeParamList,
		ast.NodeArgList, ast.NodeArg, ast.NodeExpr, ast.NodeBinOp, ast.NodeWriteStmt:
		count := 0
		for _, child := range node.Children {
			count += c.Check(child, table)
		}
		return count

	default:
		c.Errors.Add(diag.CompilerError{Subject: "Node", Name: string(node.Kind), Problem: "has an unknown kind", Line: node.Line})
		return 1
	}
}

func (c *Checker) declare(err error, subject diag.Subject, node *ast.Node) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, symtab.ErrRedeclared):
		return c.report(subject, node, "redeclared")
	default:
		return c.report(subject, node, "declared outside any scope")
	}
}

func (c *Checker) report(subject diag.Subject, node *ast.Node, problem string) int {
	c.Errors.Addf(subject, node.Name, node.Line, problem)
	return 1
}

func (c *Checker) tracef(format string, args ...any) {
	if c.Trace != nil {
		fmt.Fprintf(c.Trace, format+"\n", args...)
	}
}
