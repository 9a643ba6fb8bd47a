package tac

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/mipsc/ast"
)

func lower(t *testing.T, src string) (*List, error) {
	t.Helper()
	root, err := ast.Read(src)
	be.Err(t, err, nil)
	return NewGenerator().Program(root)
}

func printed(t *testing.T, l *List) string {
	t.Helper()
	var out strings.Builder
	be.Err(t, Print(&out, l), nil)
	return out.String()
}

func TestLowerPrograms(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{
			"assign sum",
			`(program [(var "int" "x")] [(assign "x" (binop "+" 3 4))])`,
			"t0 = 3 + 4\nx = t0 = (null)\n",
		},
		{
			"assign literal",
			`(program [(var "int" "x")] [(assign "x" 5)])`,
			"x = 5 = (null)\n",
		},
		{
			"write identifier",
			`(program [(var "int" "x")] [(write (id "x"))])`,
			"write x\n",
		},
		{
			"literal statement",
			`(program [] [5])`,
			"t0 = 5 li (null)\n",
		},
		{
			"identifier statement",
			`(program [(var "int" "x")] [(id "x")])`,
			"",
		},
		{
			"nested expression",
			`(program [] [(assign "x" (expr "*" (binop "+" 1 2) (id "y")))])`,
			"t0 = 1 + 2\nt1 = t0 * y\nx = t1 = (null)\n",
		},
		{
			"call statement",
			`(program [] [(call "f" [1 2])])`,
			"t0 = f call (null)\n",
		},
		{
			"write call result",
			`(program [] [(write (call "f" []))])`,
			"t0 = f call (null)\nwrite t0\n",
		},
		{
			"array load",
			`(program [] [(index "a" 2)])`,
			"t0 = a array_load 2\n",
		},
		{
			"computed index",
			`(program [] [(write (index "a" (binop "+" 1 2)))])`,
			"t0 = 1 + 2\nwrite a[t0]\n",
		},
		{
			"function body",
			`(program [(func "f" "int" [(param "int" "p")] (program [(var "int" "q")] [(assign "q" (id "p"))]))] [(write 1)])`,
			"q = p = (null)\nwrite 1\n",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			l, err := lower(t, test.src)
			be.Err(t, err, nil)
			be.Equal(t, printed(t, l), test.expected)
		})
	}
}

func TestAssignSumOps(t *testing.T) {
	l, err := lower(t, `(program [(var "int" "x")] [(assign "x" (binop "+" 3 4))])`)
	be.Err(t, err, nil)
	be.Equal(t, l.Len(), 2)
	be.Equal(t, l.Ops(), []string{"+", OpAssign})

	ins := l.Instructions()
	be.Equal(t, ins[0].Arg1, "3")
	be.Equal(t, ins[0].Arg2, "4")
	be.Equal(t, ins[0].Result, "t0")
	be.Equal(t, ins[1].Arg1, "t0")
	be.Equal(t, ins[1].Result, "x")
}

func TestTemporariesAreUnique(t *testing.T) {
	l, err := lower(t, `(program [] [(write (binop "+" 1 2)) (write (binop "-" 3 4)) (write (binop "*" 5 6))])`)
	be.Err(t, err, nil)
	be.Equal(t, printed(t, l), "t0 = 1 + 2\nwrite t0\nt1 = 3 - 4\nwrite t1\nt2 = 5 * 6\nwrite t2\n")
}

func TestTemporariesExhausted(t *testing.T) {
	var stmts []string
	for i := 0; i < MaxTemps+1; i++ {
		stmts = append(stmts, `(write (binop "+" 1 2 ^{line: 1}))`)
	}
	src := "(program [] [" + strings.Join(stmts, " ") + "])"

	g := NewGenerator()
	root, err := ast.Read(src)
	be.Err(t, err, nil)
	_, err = g.Program(root)
	be.Err(t, err, ErrTempsExhausted)
	be.Err(t, err, "line 1: BinOp")
	be.Equal(t, g.Temps.InUse(), MaxTemps)
	be.Equal(t, g.List.Len(), 2*MaxTemps)
}

func TestTempPool(t *testing.T) {
	p := NewTempPool()
	for i := 0; i < MaxTemps; i++ {
		name, err := p.Allocate()
		be.Err(t, err, nil)
		be.Equal(t, name, TempName(i))
	}
	be.Equal(t, p.InUse(), MaxTemps)

	_, err := p.Allocate()
	be.Err(t, err, ErrTempsExhausted)

	p.Release(3)
	be.Equal(t, p.InUse(), MaxTemps-1)
	name, err := p.Allocate()
	be.Err(t, err, nil)
	be.Equal(t, name, "t3")

	p.Release(-1)
	p.Release(MaxTemps)
	be.Equal(t, p.InUse(), MaxTemps)
}

func TestTempPoolReserve(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"t0", true},
		{"t19", true},
		{"t20", false},
		{"t01", false},
		{"t", false},
		{"t+1", false},
		{"x", false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			be.Equal(t, NewTempPool().Reserve(test.name), test.ok)
		})
	}

	p := NewTempPool()
	p.Reserve("t0")
	p.Reserve("t2")
	var names []string
	for i := 0; i < 3; i++ {
		name, err := p.Allocate()
		be.Err(t, err, nil)
		names = append(names, name)
	}
	be.Equal(t, names, []string{"t1", "t3", "t4"})
	be.Equal(t, p.InUse(), 3)

	// Releasing a reserved slot does not make it allocatable.
	p.Release(0)
	name, err := p.Allocate()
	be.Err(t, err, nil)
	be.Equal(t, name, "t5")
}

func TestTemporariesAvoidDeclaredNames(t *testing.T) {
	l, err := lower(t, `(program [(var "int" "t0") (var "int" "x")
  (func "t1" "int" [(param "int" "t2")] [])]
  [(assign "t0" 5) (assign "x" (binop "+" 1 2)) (write (id "t0"))])`)
	be.Err(t, err, nil)
	be.Equal(t, printed(t, l), "t0 = 5 = (null)\nt3 = 1 + 2\nx = t3 = (null)\nwrite t0\n")
}

func TestFunctionBodiesAreMarked(t *testing.T) {
	l, err := lower(t, `(program
  [(func "f" "int" [] (program [(var "int" "y")] [(assign "y" (binop "+" 1 2))]))]
  [(write 1)])`)
	be.Err(t, err, nil)

	ins := l.Instructions()
	be.Equal(t, len(ins), 3)
	be.Equal(t, ins[0].Function, "f")
	be.Equal(t, ins[1].Function, "f")
	be.Equal(t, ins[2].Function, "")
	be.Equal(t, printed(t, l), "t0 = 1 + 2\ny = t0 = (null)\nwrite 1\n")
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		in       Instruction
		expected string
	}{
		{Instruction{Op: "+", Arg1: "a", Arg2: "b", Result: "t0"}, "t0 = a + b"},
		{Instruction{Op: OpAssign, Arg1: "t0", Result: "x"}, "x = t0 = (null)"},
		{Instruction{Op: OpWrite, Arg1: "x"}, "write x"},
		{Instruction{Op: OpWrite}, "write (null)"},
		{Instruction{}, "(null) = (null) (null) (null)"},
	}

	for _, test := range tests {
		be.Equal(t, test.in.String(), test.expected)
	}
}

func TestListAppend(t *testing.T) {
	var l List
	be.Equal(t, l.Len(), 0)
	be.Equal(t, len(l.Instructions()), 0)

	a := &Instruction{Op: OpWrite, Arg1: "1"}
	b := &Instruction{Op: OpWrite, Arg1: "2"}
	c := &Instruction{Op: OpWrite, Arg1: "3"}
	l.Append(a)
	l.Append(b)
	l.Append(c)

	be.Equal(t, l.Len(), 3)
	be.True(t, l.Head == a)
	be.True(t, a.Next == b)
	be.True(t, b.Next == c)
	be.True(t, c.Next == nil)
	be.Equal(t, l.Ops(), []string{OpWrite, OpWrite, OpWrite})
}

func TestWriteFile(t *testing.T) {
	l, err := lower(t, `(program [(var "int" "x")] [(assign "x" (binop "+" 3 4)) (write (id "x"))])`)
	be.Err(t, err, nil)

	path := filepath.Join(t.TempDir(), "out.tac")
	be.Err(t, WriteFile(path, l), nil)

	data, err := os.ReadFile(path)
	be.Err(t, err, nil)
	be.Equal(t, string(data), "t0 = 3 + 4\nx = t0 = (null)\nwrite x\n")

	err = WriteFile(filepath.Join(t.TempDir(), "missing", "out.tac"), l)
	be.Err(t, err, "failed to open TAC output")
}

func TestLowerIdentifierReturnsNil(t *testing.T) {
	g := NewGenerator()
	in, err := g.Lower(ast.NewIdent("x"))
	be.Err(t, err, nil)
	be.True(t, in == nil)
	be.Equal(t, g.List.Len(), 0)

	in, err = g.Lower(nil)
	be.Err(t, err, nil)
	be.True(t, in == nil)
}

func TestOperand(t *testing.T) {
	g := NewGenerator()

	op, err := g.Operand(ast.NewInteger(-7))
	be.Err(t, err, nil)
	be.Equal(t, op, "-7")

	op, err = g.Operand(ast.NewIdent("y"))
	be.Err(t, err, nil)
	be.Equal(t, op, "y")

	op, err = g.Operand(ast.NewArrayAccess("a", ast.NewIdent("i")))
	be.Err(t, err, nil)
	be.Equal(t, op, "a[i]")

	op, err = g.Operand(nil)
	be.Err(t, err, nil)
	be.Equal(t, op, "")

	be.Equal(t, g.List.Len(), 0)
}

func TestMalformedOperandDiagnostics(t *testing.T) {
	var diags strings.Builder
	g := NewGenerator()
	g.Diagnostics = &diags

	op, err := g.Operand(ast.NewVarDecl("int", "x").At(3))
	be.Err(t, err, nil)
	be.Equal(t, op, UnknownOperand)

	in, err := g.Lower(ast.NewList(ast.NodeStmtList).At(4))
	be.Err(t, err, nil)
	be.True(t, in == nil)

	be.Equal(t, diags.String(),
		"line 3: VarDecl node cannot be an operand\n"+
			"line 4: no instruction for StmtList node\n")
}

func TestTrace(t *testing.T) {
	var trace strings.Builder
	g := NewGenerator()
	g.Trace = &trace

	root, err := ast.Read(`(program [(var "int" "x")] [(assign "x" (binop "+" 3 4))])`)
	be.Err(t, err, nil)
	_, err = g.Program(root)
	be.Err(t, err, nil)
	be.Equal(t, trace.String(), "Generated TAC: t0 = 3 + 4\nGenerated TAC: x = t0 = (null)\n")
}
