package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

const sampleTree = `(program [(var "int" "x")] [(assign "x" (binop "+" 3 4)) (write (id "x"))])`

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTree(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.tree")
	be.Err(t, os.WriteFile(path, []byte(src), 0644), nil)
	return path
}

func TestBuildCommand(t *testing.T) {
	input := writeTree(t, sampleTree)
	dir := filepath.Dir(input)
	asmPath := filepath.Join(dir, "out.s")
	tacPath := filepath.Join(dir, "out.tac")

	stdout, _, err := runCLI(t, "build", "-o", asmPath, "--tac", tacPath, input)
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(stdout, "Generated "+asmPath))

	asm, err := os.ReadFile(asmPath)
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(string(asm), ".data\nx: .word 0\n"))

	tacText, err := os.ReadFile(tacPath)
	be.Err(t, err, nil)
	be.Equal(t, string(tacText), "t0 = 3 + 4\nx = t0 = (null)\nwrite x\n")
}

func TestBuildDefaultOutput(t *testing.T) {
	input := writeTree(t, sampleTree)
	stdout, _, err := runCLI(t, "build", "-v", input)
	be.Err(t, err, nil)

	expected := strings.TrimSuffix(input, ".tree") + ".s"
	_, err = os.Stat(expected)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(stdout, "Compiling "+input+" to "+expected))
	be.True(t, strings.Contains(stdout, "Generating MIPS assembly..."))
}

func TestBuildRefusesSemanticErrors(t *testing.T) {
	input := writeTree(t, `(program [] [(write (id "y" ^{line: 2}))])`)
	asmPath := filepath.Join(filepath.Dir(input), "out.s")

	_, stderr, err := runCLI(t, "build", "-o", asmPath, input)
	be.Err(t, err, "1 semantic error(s)")
	be.True(t, strings.Contains(stderr, "Semantic error: Variable y used without declaration at line 2"))

	_, err = os.Stat(asmPath)
	be.True(t, os.IsNotExist(err))
}

func TestCheckCommand(t *testing.T) {
	input := writeTree(t, sampleTree)
	stdout, _, err := runCLI(t, "check", "-v", input)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(stdout, input+": no errors found\n"))
	be.True(t, strings.HasSuffix(stdout, "x: int\n"))
}

func TestTACCommand(t *testing.T) {
	input := writeTree(t, sampleTree)
	stdout, _, err := runCLI(t, "tac", input)
	be.Err(t, err, nil)
	be.Equal(t, stdout, "t0 = 3 + 4\nx = t0 = (null)\nwrite x\n")
}

func TestDumpCommand(t *testing.T) {
	input := writeTree(t, `(program [(var "int" "x" ^{line: 1})] [])`)
	stdout, _, err := runCLI(t, "dump", input)
	be.Err(t, err, nil)
	be.Equal(t, stdout, "Program (line 0)\n+-VarDeclList\n| +-VarDecl: int x (line 1)\n+-StmtList\n")
}

func TestCommandErrors(t *testing.T) {
	_, _, err := runCLI(t, "tac", filepath.Join(t.TempDir(), "missing.tree"))
	be.Err(t, err, "error reading file")

	input := writeTree(t, `(program [] [(bogus)])`)
	_, _, err = runCLI(t, "dump", input)
	be.Err(t, err, "expected expression")

	_, _, err = runCLI(t, "check")
	be.True(t, err != nil)
}
