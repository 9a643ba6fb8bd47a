// Package regalloc assigns physical MIPS registers for the duration of one
// instruction.
package regalloc

import (
	"errors"
	"fmt"
)

// NumRegisters is the size of the default register pool ($t0..$t9).
const NumRegisters = 10

var ErrRegistersExhausted = errors.New("all registers in use")

// Register is an index into an allocator's pool.
type Register int

// Allocator hands out registers. Code generation only depends on this
// interface, so another policy can replace FirstFit.
type Allocator interface {
	// Allocate claims a free register or fails with ErrRegistersExhausted.
	Allocate() (Register, error)
	// Release frees r. Releasing an unknown register does nothing.
	Release(r Register)
	// Name is the assembly spelling of r.
	Name(r Register) string
	// InUse counts the registers currently claimed.
	InUse() int
}

type register struct {
	name  string
	inUse bool
}

// FirstFit always claims the lowest-numbered free register. It never spills.
type FirstFit struct {
	regs []register
	peak int
}

// NewFirstFit returns a pool of the ten MIPS temporaries $t0..$t9.
func NewFirstFit() *FirstFit {
	return NewFirstFitN(NumRegisters)
}

// NewFirstFitN returns a pool of n registers named $t0, $t1, ...
func NewFirstFitN(n int) *FirstFit {
	regs := make([]register, n)
	for i := range regs {
		regs[i].name = fmt.Sprintf("$t%d", i)
	}
	return &FirstFit{regs: regs}
}

func (a *FirstFit) Allocate() (Register, error) {
	for i := range a.regs {
		if !a.regs[i].inUse {
			a.regs[i].inUse = true
			if used := a.InUse(); used > a.peak {
				a.peak = used
			}
			return Register(i), nil
		}
	}
	return -1, ErrRegistersExhausted
}

func (a *FirstFit) Release(r Register) {
	if r >= 0 && int(r) < len(a.regs) {
		a.regs[r].inUse = false
	}
}

func (a *FirstFit) Name(r Register) string {
	if r < 0 || int(r) >= len(a.regs) {
		return fmt.Sprintf("$invalid%d", int(r))
	}
	return a.regs[r].name
}

func (a *FirstFit) InUse() int {
	n := 0
	for _, reg := range a.regs {
		if reg.inUse {
			n++
		}
	}
	return n
}

// Peak is the largest number of registers ever held at once.
func (a *FirstFit) Peak() int {
	return a.peak
}

// Size is the number of registers in the pool.
func (a *FirstFit) Size() int {
	return len(a.regs)
}
