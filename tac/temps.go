package tac

import (
	"errors"
	"strconv"
	"strings"
)

// MaxTemps is the number of temporaries available to one compilation.
const MaxTemps = 20

var ErrTempsExhausted = errors.New("all temporaries in use")

// TempPool hands out the temporary names t0..t19. Names reserved for
// declared symbols are never handed out.
type TempPool struct {
	inUse    [MaxTemps]bool
	reserved [MaxTemps]bool
}

func NewTempPool() *TempPool {
	return &TempPool{}
}

// Allocate claims the lowest free slot and returns its name.
func (p *TempPool) Allocate() (string, error) {
	for i := range p.inUse {
		if !p.inUse[i] && !p.reserved[i] {
			p.inUse[i] = true
			return TempName(i), nil
		}
	}
	return "", ErrTempsExhausted
}

// Reserve keeps name from ever being allocated. It reports whether name is
// one of the pool's temporaries.
func (p *TempPool) Reserve(name string) bool {
	index, ok := tempIndex(name)
	if ok {
		p.reserved[index] = true
	}
	return ok
}

// Release frees slot index. Out-of-range indexes are ignored.
func (p *TempPool) Release(index int) {
	if index >= 0 && index < MaxTemps {
		p.inUse[index] = false
	}
}

// InUse counts the claimed slots.
func (p *TempPool) InUse() int {
	n := 0
	for _, used := range p.inUse {
		if used {
			n++
		}
	}
	return n
}

func TempName(index int) string {
	return "t" + strconv.Itoa(index)
}

func tempIndex(name string) (int, bool) {
	digits, ok := strings.CutPrefix(name, "t")
	if !ok || digits == "" || (len(digits) > 1 && digits[0] == '0') {
		return 0, false
	}
	index := 0
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, false
		}
		index = index*10 + int(c-'0')
		if index >= MaxTemps {
			return 0, false
		}
	}
	return index, true
}
