// Package diag collects compiler diagnostics that do not stop compilation.
package diag

import (
	"fmt"
	"io"
	"strings"
)

// Subject is what a semantic diagnostic is about.
type Subject string

const (
	SubjectVariable  Subject = "Variable"
	SubjectFunction  Subject = "Function"
	SubjectParameter Subject = "Parameter"
	SubjectArray     Subject = "Array"
)

// CompilerError is one reported problem.
type CompilerError struct {
	Subject Subject
	Name    string
	Problem string // e.g. "redeclared", "used without declaration"
	Line    int
}

func (e CompilerError) Error() string {
	return fmt.Sprintf("Semantic error: %s %s %s at line %d", e.Subject, e.Name, e.Problem, e.Line)
}

// ErrorCollection accumulates diagnostics in report order.
// If Echo is set, every diagnostic is also written to it as it is added.
type ErrorCollection struct {
	Errors []CompilerError
	Echo   io.Writer
}

func (c *ErrorCollection) Add(err CompilerError) {
	c.Errors = append(c.Errors, err)
	if c.Echo != nil {
		fmt.Fprintln(c.Echo, err.Error())
	}
}

// Addf is shorthand for Add(CompilerError{...}).
func (c *ErrorCollection) Addf(subject Subject, name string, line int, problem string) {
	c.Add(CompilerError{Subject: subject, Name: name, Problem: problem, Line: line})
}

func (c *ErrorCollection) Count() int {
	return len(c.Errors)
}

func (c *ErrorCollection) HasErrors() bool {
	return len(c.Errors) > 0
}

// String renders one diagnostic per line.
func (c *ErrorCollection) String() string {
	lines := make([]string, len(c.Errors))
	for i, err := range c.Errors {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}
