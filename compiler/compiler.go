// Package compiler runs the passes in order over one syntax tree. Each call
// owns its symbol table, temporary pool, instruction list and register pool,
// so separate compilations never share state.
package compiler

import (
	"errors"
	"fmt"
	"io"

	"github.com/strager/mipsc/ast"
	"github.com/strager/mipsc/codegen"
	"github.com/strager/mipsc/diag"
	"github.com/strager/mipsc/regalloc"
	"github.com/strager/mipsc/semantic"
	"github.com/strager/mipsc/symtab"
	"github.com/strager/mipsc/tac"
)

// TableCapacity sizes the top-level symbol table.
const TableCapacity = 100

var ErrSemantic = errors.New("semantic errors")

type Options struct {
	// Trace receives progress lines from every pass. Nil is silent.
	Trace io.Writer
	// Diagnostics receives each semantic error as it is found, and lowering
	// diagnostics. Nil is silent; errors are still collected in Result.
	Diagnostics io.Writer
	// Allocator defaults to a fresh regalloc.FirstFit.
	Allocator regalloc.Allocator
}

// Result holds what each pass produced. Fields of passes that did not run
// are nil or empty.
type Result struct {
	Table     *symtab.Table
	Errors    *diag.ErrorCollection
	TAC       *tac.List
	Asm       string
	Allocator regalloc.Allocator
}

type stage int

const (
	stageCheck stage = iota
	stageLower
	stageGenerate
)

// Check runs the semantic checker only. The returned error wraps
// ErrSemantic when any diagnostic was reported.
func Check(root *ast.Node, opts Options) (*Result, error) {
	return run(root, opts, stageCheck)
}

// Lower checks root and lowers it to three-address code.
func Lower(root *ast.Node, opts Options) (*Result, error) {
	return run(root, opts, stageLower)
}

// Compile checks, lowers and generates assembly for root. Code is never
// generated for a tree with semantic errors.
func Compile(root *ast.Node, opts Options) (*Result, error) {
	return run(root, opts, stageGenerate)
}

func run(root *ast.Node, opts Options, last stage) (*Result, error) {
	res := &Result{
		Table:  symtab.New(TableCapacity),
		Errors: &diag.ErrorCollection{Echo: opts.Diagnostics},
	}
	tracef(opts.Trace, "Checking declarations...")
	checker := &semantic.Checker{Errors: res.Errors, Trace: opts.Trace}
	count := checker.Check(root, res.Table)
	if count > 0 || res.Errors.HasErrors() {
		return res, fmt.Errorf("%w:\n%s", ErrSemantic, res.Errors.String())
	}
	if last == stageCheck {
		return res, nil
	}

	tracef(opts.Trace, "Generating three-address code...")
	gen := tac.NewGenerator()
	gen.Trace = opts.Trace
	gen.Diagnostics = opts.Diagnostics
	list, err := gen.Program(root)
	if err != nil {
		return res, fmt.Errorf("IR generation failed: %w", err)
	}
	res.TAC = list
	tracef(opts.Trace, "Generated %d instructions", list.Len())
	if last == stageLower {
		return res, nil
	}

	res.Allocator = opts.Allocator
	if res.Allocator == nil {
		res.Allocator = regalloc.NewFirstFit()
	}
	tracef(opts.Trace, "Generating MIPS assembly...")
	asm, err := codegen.Generate(list, res.Table, res.Allocator)
	if err != nil {
		return res, fmt.Errorf("code generation failed: %w", err)
	}
	res.Asm = asm
	return res, nil
}

func tracef(w io.Writer, format string, args ...any) {
	if w != nil {
		fmt.Fprintf(w, format+"\n", args...)
	}
}
