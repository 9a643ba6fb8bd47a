package ast

import (
	"fmt"
	"io"
)

// Traverse writes an indented, human-readable dump of node to w.
// Each node gets one line at its depth; children are printed at depth+1.
func Traverse(w io.Writer, node *Node, depth int) {
	if node == nil {
		fmt.Fprintln(w, "Nothing to traverse")
		return
	}

	printBranches(w, depth)

	switch node.Kind {
	case NodeProgram:
		fmt.Fprintf(w, "Program (line %d)\n", node.Line)
	case NodeVarDecl:
		fmt.Fprintf(w, "VarDecl: %s %s (line %d)\n", node.Type, node.Name, node.Line)
	case NodeSimpleExpr:
		fmt.Fprintf(w, "%d (line %d)\n", node.Integer, node.Line)
	case NodeSimpleID:
		fmt.Fprintf(w, "%s (line %d)\n", node.Name, node.Line)
	case NodeExpr:
		fmt.Fprintf(w, "Expr: %s (line %d)\n", node.Op, node.Line)
	case NodeBinOp:
		fmt.Fprintf(w, "BinOp: %s (line %d)\n", node.Op, node.Line)
	case NodeAssignStmt:
		fmt.Fprintf(w, "Assign: %s = (line %d)\n", node.Name, node.Line)
	case NodeWriteStmt:
		fmt.Fprintf(w, "Write (line %d)\n", node.Line)
	case NodeFunctionDecl:
		fmt.Fprintf(w, "FunctionDecl: %s (line %d)\n", node.Name, node.Line)
	case NodeParam:
		fmt.Fprintf(w, "Param: %s %s (line %d)\n", node.Type, node.Name, node.Line)
	case NodeFunctionCall:
		fmt.Fprintf(w, "FunctionCall: %s (line %d)\n", node.Name, node.Line)
	case NodeArrayDecl:
		fmt.Fprintf(w, "ArrayDecl: %s (line %d)\n", node.Name, node.Line)
		printBranches(w, depth+1)
		fmt.Fprintf(w, "Array Size: %d\n", node.Size)
	case NodeArrayAccess:
		fmt.Fprintf(w, "ArrayAccess: %s (line %d)\n", node.Name, node.Line)
	default:
		// Lists and Arg have nothing to summarize.
		fmt.Fprintln(w, string(node.Kind))
	}

	for _, child := range node.Children {
		if child == nil {
			continue
		}
		Traverse(w, child, depth+1)
	}
}

func printBranches(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		if i == depth-1 {
			io.WriteString(w, "+-")
		} else {
			io.WriteString(w, "| ")
		}
	}
}

// Destroy releases node and everything it owns, children first.
// Destroying nil or an already destroyed node does nothing.
func Destroy(node *Node) {
	if node == nil || node.destroyed {
		return
	}
	for _, child := range node.Children {
		Destroy(child)
	}
	node.Children = nil
	node.Name = ""
	node.Type = ""
	node.Op = ""
	node.destroyed = true
	if node.tracker != nil {
		node.tracker.destroyed++
		node.tracker = nil
	}
}

// Destroyed reports whether Destroy has released the node.
func (n *Node) Destroyed() bool {
	return n.destroyed
}

// Tracker counts node creations and releases.
// Nodes created through a Tracker report back to it when destroyed.
type Tracker struct {
	created   int
	destroyed int
}

// New creates a tracked node of the given kind.
func (tr *Tracker) New(kind NodeKind) *Node {
	return tr.Track(New(kind))
}

// Track registers an existing, untracked node and returns it.
func (tr *Tracker) Track(n *Node) *Node {
	if n == nil || n.tracker != nil {
		return n
	}
	n.tracker = tr
	tr.created++
	return n
}

func (tr *Tracker) Created() int   { return tr.created }
func (tr *Tracker) Destroyed() int { return tr.destroyed }

// Live is the number of tracked nodes not yet destroyed.
func (tr *Tracker) Live() int {
	return tr.created - tr.destroyed
}
