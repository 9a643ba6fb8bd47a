// Package symtab maps names to declarations within one scope.
package symtab

import (
	"errors"
	"fmt"
	"io"

	"github.com/strager/mipsc/ast"
)

// FunctionType is the Type recorded for function symbols.
const FunctionType = "function"

var (
	ErrRedeclared = errors.New("already declared")
	ErrNilTable   = errors.New("no symbol table")
)

// Symbol is one declared name.
type Symbol struct {
	Name string
	// Declared type, array element type, or FunctionType.
	Type string

	IsFunction bool
	Params     *ast.Node // NodeParamList, functions only

	IsArray   bool
	ArraySize int
}

// Table is one scope's symbols. Lookup is by exact name; iteration follows
// declaration order.
type Table struct {
	symbols map[string]*Symbol
	order   []*Symbol
}

// New creates an empty table sized for capacity symbols.
func New(capacity int) *Table {
	if capacity < 0 {
		capacity = 0
	}
	return &Table{
		symbols: make(map[string]*Symbol, capacity),
		order:   make([]*Symbol, 0, capacity),
	}
}

// Add declares name with the given type. Declaring an existing name fails
// with ErrRedeclared and leaves the first declaration in place.
func (t *Table) Add(name, typ string) error {
	return t.declare(&Symbol{Name: name, Type: typ, IsFunction: typ == FunctionType})
}

// AddFunction declares a function along with its parameter list.
func (t *Table) AddFunction(name string, params *ast.Node) error {
	return t.declare(&Symbol{Name: name, Type: FunctionType, IsFunction: true, Params: params})
}

// AddArray declares an array of size elements (ast.SizeUnset if unknown).
func (t *Table) AddArray(name, elemType string, size int) error {
	return t.declare(&Symbol{Name: name, Type: elemType, IsArray: true, ArraySize: size})
}

func (t *Table) declare(sym *Symbol) error {
	if t == nil {
		return fmt.Errorf("symbol '%s': %w", sym.Name, ErrNilTable)
	}
	if _, exists := t.symbols[sym.Name]; exists {
		return fmt.Errorf("symbol '%s': %w", sym.Name, ErrRedeclared)
	}
	t.symbols[sym.Name] = sym
	t.order = append(t.order, sym)
	return nil
}

// Lookup returns the symbol declared as name, or nil.
func (t *Table) Lookup(name string) *Symbol {
	if t == nil {
		return nil
	}
	return t.symbols[name]
}

// Symbols returns every symbol in declaration order.
func (t *Table) Symbols() []*Symbol {
	if t == nil {
		return nil
	}
	return t.order
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Destroy empties the table. The table may be reused afterwards.
func (t *Table) Destroy() {
	if t == nil {
		return
	}
	clear(t.symbols)
	t.order = t.order[:0]
}

// Print writes one line per symbol.
func (t *Table) Print(w io.Writer) {
	for _, sym := range t.order {
		switch {
		case sym.IsFunction:
			fmt.Fprintf(w, "%s: function\n", sym.Name)
		case sym.IsArray:
			fmt.Fprintf(w, "%s: %s[%d]\n", sym.Name, sym.Type, sym.ArraySize)
		default:
			fmt.Fprintf(w, "%s: %s\n", sym.Name, sym.Type)
		}
	}
}
