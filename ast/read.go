package ast

import (
	"fmt"

	"github.com/strager/mipsc/sexy"
)

// Read builds a syntax tree from its S-expression form:
//
//	(program [DECL...] [STMT...])
//	DECL := (var "TYPE" "NAME") | (array "TYPE" "NAME" SIZE)
//	      | (func "NAME" "RETTYPE" [(param "TYPE" "NAME")...] BODY)
//	BODY := (program [DECL...] [STMT...]) | [STMT...]
//	STMT := (assign "NAME" EXPR) | (write EXPR) | EXPR
//	EXPR := INTEGER | (int INTEGER) | (id "NAME") | (binop "OP" EXPR EXPR)
//	      | (expr "OP" EXPR EXPR) | (call "NAME" [EXPR...]) | (index "NAME" EXPR)
//
// Any list form may carry ^{line: N} metadata.
func Read(src string) (*Node, error) {
	return ReadTracked(src, nil)
}

// ReadTracked is Read with every created node registered in tr (if non-nil).
func ReadTracked(src string, tr *Tracker) (*Node, error) {
	form, err := sexy.Parse(src)
	if err != nil {
		return nil, err
	}
	r := &reader{tracker: tr}
	return r.program(form)
}

type reader struct {
	tracker *Tracker
}

func (r *reader) errorf(form *sexy.Node, format string, args ...any) error {
	return fmt.Errorf("offset %d: %s", form.Position, fmt.Sprintf(format, args...))
}

// finish copies the line metadata of form onto n and registers n.
func (r *reader) finish(n *Node, form *sexy.Node) (*Node, error) {
	if line := form.Meta("line"); line != nil {
		v, err := line.Int()
		if err != nil {
			return nil, r.errorf(form, "bad line metadata: %v", err)
		}
		n.Line = int(v)
	}
	if r.tracker != nil {
		r.tracker.Track(n)
	}
	return n, nil
}

// expectForm checks that form is (head ARG...) with exactly nargs arguments.
func (r *reader) expectForm(form *sexy.Node, head string, nargs int) ([]*sexy.Node, error) {
	if form.Head() != head {
		return nil, r.errorf(form, "expected (%s ...) but got %s", head, form.String())
	}
	args := form.Args()
	if len(args) != nargs {
		return nil, r.errorf(form, "(%s ...) takes %d arguments but got %d", head, nargs, len(args))
	}
	return args, nil
}

func (r *reader) str(form *sexy.Node, what string) (string, error) {
	if form.Type != sexy.NodeString {
		return "", r.errorf(form, "expected string for %s but got %s", what, form.String())
	}
	return form.Text, nil
}

func (r *reader) program(form *sexy.Node) (*Node, error) {
	args, err := r.expectForm(form, "program", 2)
	if err != nil {
		return nil, err
	}
	decls, err := r.list(args[0], NodeVarDeclList, r.decl)
	if err != nil {
		return nil, err
	}
	stmts, err := r.list(args[1], NodeStmtList, r.stmt)
	if err != nil {
		return nil, err
	}
	return r.finish(NewProgram(decls, stmts), form)
}

func (r *reader) list(form *sexy.Node, kind NodeKind, item func(*sexy.Node) (*Node, error)) (*Node, error) {
	if form.Type != sexy.NodeArray {
		return nil, r.errorf(form, "expected [...] for %s but got %s", kind, form.String())
	}
	items := make([]*Node, 0, len(form.Items))
	for _, f := range form.Items {
		n, err := item(f)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return r.finish(NewList(kind, items...), form)
}

func (r *reader) decl(form *sexy.Node) (*Node, error) {
	switch form.Head() {
	case "var":
		args, err := r.expectForm(form, "var", 2)
		if err != nil {
			return nil, err
		}
		typ, name, err := r.typeAndName(args)
		if err != nil {
			return nil, err
		}
		return r.finish(NewVarDecl(typ, name), form)

	case "array":
		args := form.Args()
		if len(args) != 2 && len(args) != 3 {
			return nil, r.errorf(form, "(array ...) takes 2 or 3 arguments but got %d", len(args))
		}
		typ, name, err := r.typeAndName(args[:2])
		if err != nil {
			return nil, err
		}
		size := SizeUnset
		if len(args) == 3 {
			v, err := args[2].Int()
			if err != nil {
				return nil, r.errorf(args[2], "array size: %v", err)
			}
			size = int(v)
		}
		return r.finish(NewArrayDecl(typ, name, size), form)

	case "func":
		args, err := r.expectForm(form, "func", 4)
		if err != nil {
			return nil, err
		}
		name, err := r.str(args[0], "function name")
		if err != nil {
			return nil, err
		}
		returnType, err := r.str(args[1], "return type")
		if err != nil {
			return nil, err
		}
		params, err := r.list(args[2], NodeParamList, r.param)
		if err != nil {
			return nil, err
		}
		var body *Node
		if args[3].Type == sexy.NodeArray {
			body, err = r.list(args[3], NodeStmtList, r.stmt)
		} else {
			body, err = r.program(args[3])
		}
		if err != nil {
			return nil, err
		}
		return r.finish(NewFunctionDecl(name, returnType, params, body), form)

	default:
		return nil, r.errorf(form, "expected declaration but got %s", form.String())
	}
}

func (r *reader) param(form *sexy.Node) (*Node, error) {
	args, err := r.expectForm(form, "param", 2)
	if err != nil {
		return nil, err
	}
	typ, name, err := r.typeAndName(args)
	if err != nil {
		return nil, err
	}
	return r.finish(NewParam(typ, name), form)
}

func (r *reader) typeAndName(args []*sexy.Node) (string, string, error) {
	typ, err := r.str(args[0], "type")
	if err != nil {
		return "", "", err
	}
	name, err := r.str(args[1], "name")
	if err != nil {
		return "", "", err
	}
	return typ, name, nil
}

func (r *reader) stmt(form *sexy.Node) (*Node, error) {
	switch form.Head() {
	case "assign":
		args, err := r.expectForm(form, "assign", 2)
		if err != nil {
			return nil, err
		}
		name, err := r.str(args[0], "assignment target")
		if err != nil {
			return nil, err
		}
		expr, err := r.expr(args[1])
		if err != nil {
			return nil, err
		}
		return r.finish(NewAssign(name, expr), form)

	case "write":
		args, err := r.expectForm(form, "write", 1)
		if err != nil {
			return nil, err
		}
		expr, err := r.expr(args[0])
		if err != nil {
			return nil, err
		}
		return r.finish(NewWrite(expr), form)

	default:
		return r.expr(form)
	}
}

func (r *reader) expr(form *sexy.Node) (*Node, error) {
	if form.Type == sexy.NodeInteger {
		v, err := form.Int()
		if err != nil {
			return nil, r.errorf(form, "%v", err)
		}
		return r.finish(NewInteger(v), form)
	}

	switch head := form.Head(); head {
	case "int":
		args, err := r.expectForm(form, "int", 1)
		if err != nil {
			return nil, err
		}
		v, err := args[0].Int()
		if err != nil {
			return nil, r.errorf(args[0], "%v", err)
		}
		return r.finish(NewInteger(v), form)

	case "id":
		args, err := r.expectForm(form, "id", 1)
		if err != nil {
			return nil, err
		}
		name, err := r.str(args[0], "identifier")
		if err != nil {
			return nil, err
		}
		return r.finish(NewIdent(name), form)

	case "binop", "expr":
		args, err := r.expectForm(form, head, 3)
		if err != nil {
			return nil, err
		}
		op, err := r.str(args[0], "operator")
		if err != nil {
			return nil, err
		}
		left, err := r.expr(args[1])
		if err != nil {
			return nil, err
		}
		right, err := r.expr(args[2])
		if err != nil {
			return nil, err
		}
		if head == "expr" {
			return r.finish(NewExpr(op, left, right), form)
		}
		return r.finish(NewBinOp(op, left, right), form)

	case "call":
		args, err := r.expectForm(form, "call", 2)
		if err != nil {
			return nil, err
		}
		name, err := r.str(args[0], "function name")
		if err != nil {
			return nil, err
		}
		argList, err := r.list(args[1], NodeArgList, r.arg)
		if err != nil {
			return nil, err
		}
		return r.finish(NewCall(name, argList), form)

	case "index":
		args, err := r.expectForm(form, "index", 2)
		if err != nil {
			return nil, err
		}
		name, err := r.str(args[0], "array name")
		if err != nil {
			return nil, err
		}
		index, err := r.expr(args[1])
		if err != nil {
			return nil, err
		}
		return r.finish(NewArrayAccess(name, index), form)

	default:
		return nil, r.errorf(form, "expected expression but got %s", form.String())
	}
}

func (r *reader) arg(form *sexy.Node) (*Node, error) {
	expr, err := r.expr(form)
	if err != nil {
		return nil, err
	}
	if r.tracker != nil {
		return r.tracker.Track(NewArg(expr).At(expr.Line)), nil
	}
	return NewArg(expr).At(expr.Line), nil
}
