// Package tac lowers syntax trees into three-address code.
package tac

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Instruction ops other than the arithmetic operators.
const (
	OpAssign    = "="
	OpWrite     = "write"
	OpCall      = "call"
	OpArrayLoad = "array_load"
	OpLoadImm   = "li"
)

// Instruction is one three-address instruction: Result = Arg1 Op Arg2.
// An empty field is absent.
type Instruction struct {
	Op       string
	Arg1     string
	Arg2     string
	Result   string
	// Function names the function whose body the instruction was lowered
	// from. It is empty for top-level statements.
	Function string
	Next     *Instruction
}

// String renders the instruction the way Print does, without a newline.
func (in *Instruction) String() string {
	if in.Op == OpWrite {
		return "write " + orNull(in.Arg1)
	}
	return orNull(in.Result) + " = " + orNull(in.Arg1) + " " + orNull(in.Op) + " " + orNull(in.Arg2)
}

func orNull(s string) string {
	if s == "" {
		return "(null)"
	}
	return s
}

// List is an append-only sequence of instructions in execution order.
type List struct {
	Head *Instruction
	tail *Instruction
	len  int
}

// Append adds in after the last instruction.
func (l *List) Append(in *Instruction) {
	in.Next = nil
	if l.Head == nil {
		l.Head = in
	} else {
		l.tail.Next = in
	}
	l.tail = in
	l.len++
}

func (l *List) Len() int {
	return l.len
}

// Instructions returns the list as a slice, in order.
func (l *List) Instructions() []*Instruction {
	out := make([]*Instruction, 0, l.len)
	for in := l.Head; in != nil; in = in.Next {
		out = append(out, in)
	}
	return out
}

// Ops returns each instruction's op, in order.
func (l *List) Ops() []string {
	ops := make([]string, 0, l.len)
	for in := l.Head; in != nil; in = in.Next {
		ops = append(ops, in.Op)
	}
	return ops
}

// Print writes one line per instruction.
func Print(w io.Writer, l *List) error {
	bw := bufio.NewWriter(w)
	for in := l.Head; in != nil; in = in.Next {
		if _, err := fmt.Fprintln(bw, in.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile prints the list to the named file, replacing it.
func WriteFile(path string, l *List) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open TAC output: %w", err)
	}
	if err := Print(f, l); err != nil {
		f.Close()
		return fmt.Errorf("failed to write TAC output %s: %w", path, err)
	}
	return f.Close()
}
