// Package codegen turns a TAC instruction list into MIPS assembly text.
package codegen

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/strager/mipsc/regalloc"
	"github.com/strager/mipsc/symtab"
	"github.com/strager/mipsc/tac"
)

// NewlineLabel names the string constant printed after every write.
const NewlineLabel = "newline"

var ErrUnsupportedOp = errors.New("unsupported instruction")

// Syscall numbers used by the generated code.
const (
	syscallPrintInt    = 1
	syscallPrintString = 4
	syscallExit        = 10
)

var arithmetic = map[string]string{
	"+": "add",
	"-": "sub",
	"*": "mul",
	"/": "div",
	"%": "rem",
}

// CodeGen emits assembly into an in-memory buffer.
type CodeGen struct {
	alloc regalloc.Allocator
	out   strings.Builder
}

// Generate emits a complete program: a data section holding every symbol of
// the top-level table (plus the temporaries the instructions produce) and a
// text section with one block per instruction.
//
// If alloc is nil a fresh regalloc.FirstFit pool is used. Running out of
// registers or meeting an instruction without a MIPS lowering aborts
// generation.
func Generate(list *tac.List, table *symtab.Table, alloc regalloc.Allocator) (string, error) {
	if alloc == nil {
		alloc = regalloc.NewFirstFit()
	}
	cg := &CodeGen{alloc: alloc}
	cg.emitData(list, table)
	if err := cg.emitText(list); err != nil {
		return "", err
	}
	return cg.out.String(), nil
}

func (cg *CodeGen) line(format string, args ...any) {
	fmt.Fprintf(&cg.out, format+"\n", args...)
}

func (cg *CodeGen) instr(format string, args ...any) {
	cg.line("\t"+format, args...)
}

func (cg *CodeGen) emitData(list *tac.List, table *symtab.Table) {
	cg.line(".data")
	for _, sym := range table.Symbols() {
		if sym.IsArray && sym.ArraySize > 0 {
			cg.line("%s: .word 0:%d", sym.Name, sym.ArraySize)
		} else {
			cg.line("%s: .word 0", sym.Name)
		}
	}
	for _, name := range temporaries(list, table) {
		cg.line("%s: .word 0", name)
	}
	cg.line(`%s: .asciiz "\n"`, NewlineLabel)
}

// temporaries lists, in first-definition order, the results written by
// instructions other than assignments that have no symbol of their own.
func temporaries(list *tac.List, table *symtab.Table) []string {
	if list == nil {
		return nil
	}
	seen := map[string]bool{}
	var names []string
	for in := list.Head; in != nil; in = in.Next {
		if in.Op == tac.OpAssign || in.Result == "" || seen[in.Result] {
			continue
		}
		if table.Lookup(in.Result) != nil {
			continue
		}
		seen[in.Result] = true
		names = append(names, in.Result)
	}
	return names
}

func (cg *CodeGen) emitText(list *tac.List) error {
	cg.line(".text")
	cg.line(".globl main")
	cg.line("main:")

	if list != nil {
		for in := list.Head; in != nil; in = in.Next {
			if err := cg.emitInstruction(in); err != nil {
				return fmt.Errorf("instruction %q: %w", in.String(), err)
			}
		}
	}

	cg.instr("li $v0, %d", syscallExit)
	cg.instr("syscall")
	return nil
}

func (cg *CodeGen) emitInstruction(in *tac.Instruction) error {
	if in.Function != "" {
		// Function bodies have no storage or calling convention yet.
		return fmt.Errorf("body of function %s: %w", in.Function, ErrUnsupportedOp)
	}
	switch in.Op {
	case tac.OpAssign, tac.OpLoadImm:
		return cg.withRegisters(1, func(r []string) error {
			if err := cg.load(r[0], in.Arg1); err != nil {
				return err
			}
			cg.instr("sw %s, %s", r[0], in.Result)
			return nil
		})

	case tac.OpWrite:
		return cg.withRegisters(1, func(r []string) error {
			if err := cg.load(r[0], in.Arg1); err != nil {
				return err
			}
			cg.instr("move $a0, %s", r[0])
			cg.instr("li $v0, %d", syscallPrintInt)
			cg.instr("syscall")
			cg.instr("li $v0, %d", syscallPrintString)
			cg.instr("la $a0, %s", NewlineLabel)
			cg.instr("syscall")
			return nil
		})
	}

	mnemonic, ok := arithmetic[in.Op]
	if !ok {
		return fmt.Errorf("op %q: %w", in.Op, ErrUnsupportedOp)
	}
	return cg.withRegisters(3, func(r []string) error {
		if err := cg.load(r[0], in.Arg1); err != nil {
			return err
		}
		if err := cg.load(r[1], in.Arg2); err != nil {
			return err
		}
		cg.instr("%s %s, %s, %s", mnemonic, r[2], r[0], r[1])
		cg.instr("sw %s, %s", r[2], in.Result)
		return nil
	})
}

// withRegisters claims n registers for the duration of emit and releases all
// of them afterwards, whether or not emit succeeds.
func (cg *CodeGen) withRegisters(n int, emit func(names []string) error) error {
	regs := make([]regalloc.Register, 0, n)
	defer func() {
		for _, r := range regs {
			cg.alloc.Release(r)
		}
	}()
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		r, err := cg.alloc.Allocate()
		if err != nil {
			return fmt.Errorf("need %d registers: %w", n, err)
		}
		regs = append(regs, r)
		names = append(names, cg.alloc.Name(r))
	}
	return emit(names)
}

// load puts operand's value in reg: literals with li, named storage with lw.
func (cg *CodeGen) load(reg, operand string) error {
	switch {
	case operand == "" || operand == tac.UnknownOperand:
		return fmt.Errorf("missing operand: %w", ErrUnsupportedOp)
	case isLiteral(operand):
		cg.instr("li %s, %s", reg, operand)
	case strings.ContainsRune(operand, '['):
		return fmt.Errorf("array operand %s: %w", operand, ErrUnsupportedOp)
	default:
		cg.instr("lw %s, %s", reg, operand)
	}
	return nil
}

func isLiteral(operand string) bool {
	digits := strings.TrimPrefix(operand, "-")
	if digits == "" {
		return false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// WriteFile writes generated assembly to path, replacing it.
func WriteFile(path, asm string) error {
	if err := os.WriteFile(path, []byte(asm), 0644); err != nil {
		return fmt.Errorf("failed to write assembly output: %w", err)
	}
	return nil
}
