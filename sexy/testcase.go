package sexy

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputType is the language of a test's input code fence.
type InputType string

const (
	InputTypeTree InputType = "tree"
)

// AssertionType is the language of an assertion code fence.
type AssertionType string

const (
	AssertionTypeTAC          AssertionType = "tac"
	AssertionTypeAsm          AssertionType = "asm"
	AssertionTypeDiagnostics  AssertionType = "diagnostics"
	AssertionTypeDump         AssertionType = "dump"
	AssertionTypeSExpr        AssertionType = "sexpr"
	AssertionTypeCompileError AssertionType = "compile-error"
)

// Assertion represents a single assertion in a test case
type Assertion struct {
	Type    AssertionType
	Content string // raw fence content, trailing newlines trimmed
	Line    int    // line of the fence in the markdown document
	// Only set for AssertionTypeSExpr.
	ParsedSexy *Node
}

// TestCase is one "Test: name" section of a markdown test document.
type TestCase struct {
	Name       string
	Input      string
	InputType  InputType
	InputLine  int
	Assertions []Assertion
}

// ExtractTestCases parses a Markdown document and extracts all test cases
func ExtractTestCases(markdownContent string) ([]TestCase, error) {
	md := goldmark.New()
	source := []byte(markdownContent)

	doc := md.Parser().Parse(text.NewReader(source))

	var testCases []TestCase
	var currentTestCase *TestCase

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			headingText := extractTextFromNode(n, source)
			if !strings.HasPrefix(headingText, "Test: ") {
				return ast.WalkContinue, nil
			}
			if currentTestCase != nil {
				if err := validateTestCase(currentTestCase); err != nil {
					return ast.WalkStop, err
				}
				testCases = append(testCases, *currentTestCase)
			}
			currentTestCase = &TestCase{
				Name: strings.TrimPrefix(headingText, "Test: "),
			}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			content := extractCodeBlockContent(n, source)
			lineNum := getLineNumber(n, source)

			if currentTestCase == nil {
				// Plain code blocks are prose; tagged ones must belong to a test.
				if language == "" {
					return ast.WalkContinue, nil
				}
				return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of test case", lineNum, language)
			}

			switch {
			case isInputFence(language):
				if currentTestCase.Input != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple input fences found in test '%s'", lineNum, currentTestCase.Name)
				}
				currentTestCase.Input = strings.TrimRight(content, "\n")
				currentTestCase.InputType = InputType(language)
				currentTestCase.InputLine = lineNum

			case isAssertionFence(language):
				assertion := Assertion{
					Type:    AssertionType(language),
					Content: strings.TrimRight(content, "\n"),
					Line:    lineNum,
				}
				if assertion.Type == AssertionTypeSExpr {
					parsed, err := Parse(assertion.Content)
					if err != nil {
						return ast.WalkStop, fmt.Errorf("line %d: failed to parse sexpr assertion in test '%s': %w", lineNum, currentTestCase.Name, err)
					}
					assertion.ParsedSexy = parsed
				}
				currentTestCase.Assertions = append(currentTestCase.Assertions, assertion)

			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", lineNum, language, currentTestCase.Name)
			}
		}

		return ast.WalkContinue, nil
	})

	if err != nil {
		return nil, fmt.Errorf("error walking markdown AST: %w", err)
	}

	if currentTestCase != nil {
		if err := validateTestCase(currentTestCase); err != nil {
			return nil, err
		}
		testCases = append(testCases, *currentTestCase)
	}

	return testCases, nil
}

func extractTextFromNode(node ast.Node, source []byte) string {
	var buf bytes.Buffer

	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})

	return buf.String()
}

func extractCodeBlockContent(codeBlock *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer

	for i := 0; i < codeBlock.Lines().Len(); i++ {
		line := codeBlock.Lines().At(i)
		buf.Write(line.Value(source))
	}

	return buf.String()
}

func isInputFence(language string) bool {
	return language == string(InputTypeTree)
}

func isAssertionFence(language string) bool {
	switch AssertionType(language) {
	case AssertionTypeTAC, AssertionTypeAsm, AssertionTypeDiagnostics,
		AssertionTypeDump, AssertionTypeSExpr, AssertionTypeCompileError:
		return true
	}
	return false
}

// validateTestCase ensures a test case has an input and at least one assertion
func validateTestCase(testCase *TestCase) error {
	if testCase.Input == "" {
		return fmt.Errorf("test '%s' has no input fence", testCase.Name)
	}
	if len(testCase.Assertions) == 0 {
		return fmt.Errorf("test '%s' has no assertion fences", testCase.Name)
	}
	return nil
}

func getLineNumber(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	// Lines() starts after the opening fence; report the fence itself.
	startPos := node.Lines().At(0).Start
	lineNum := 1
	for i := 0; i < startPos && i < len(source); i++ {
		if source[i] == '\n' {
			lineNum++
		}
	}
	return lineNum - 1
}
