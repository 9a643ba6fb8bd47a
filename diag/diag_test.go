package diag

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestCompilerErrorFormat(t *testing.T) {
	err := CompilerError{Subject: SubjectVariable, Name: "x", Problem: "redeclared", Line: 7}
	be.Equal(t, err.Error(), "Semantic error: Variable x redeclared at line 7")
}

func TestErrorCollection(t *testing.T) {
	var errs ErrorCollection
	be.True(t, !errs.HasErrors())
	be.Equal(t, errs.Count(), 0)
	be.Equal(t, errs.String(), "")

	errs.Addf(SubjectFunction, "f", 3, "called without declaration")
	errs.Add(CompilerError{Subject: SubjectArray, Name: "a", Problem: "accessed without declaration", Line: 4})

	be.True(t, errs.HasErrors())
	be.Equal(t, errs.Count(), 2)
	be.Equal(t, errs.String(),
		"Semantic error: Function f called without declaration at line 3\n"+
			"Semantic error: Array a accessed without declaration at line 4")
}

func TestErrorCollectionEcho(t *testing.T) {
	var out strings.Builder
	errs := ErrorCollection{Echo: &out}
	errs.Addf(SubjectParameter, "p", 2, "redeclared")
	be.Equal(t, out.String(), "Semantic error: Parameter p redeclared at line 2\n")
}
