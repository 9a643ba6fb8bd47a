package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strager/mipsc/ast"
	"github.com/strager/mipsc/codegen"
	"github.com/strager/mipsc/compiler"
	"github.com/strager/mipsc/tac"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mipsc",
		Short: "mipsc - compiles syntax trees to MIPS assembly",
		Long: `mipsc checks declarations in a syntax tree, lowers it to three-address
code and emits MIPS assembly.

Input files hold the tree as an S-expression, for example:
    (program [(var "int" "x")] [(assign "x" (binop "+" 3 4)) (write (id "x"))])

Commands:
  build  Compile a tree file to MIPS assembly
  check  Check declarations and uses
  tac    Print the three-address code
  dump   Print the syntax tree
`,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newBuildCmd(), newCheckCmd(), newTACCmd(), newDumpCmd())
	return rootCmd
}

func Execute() error {
	return newRootCmd().Execute()
}

func newBuildCmd() *cobra.Command {
	var output, tacOutput string
	var verbose bool
	cmd := &cobra.Command{
		Use:   "build [-o output] [--tac file] [-v] <file>",
		Short: "Compile a tree file to MIPS assembly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			outputFile := output
			if outputFile == "" {
				outputFile = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".s"
			}
			out := cmd.OutOrStdout()
			if verbose {
				fmt.Fprintf(out, "Compiling %s to %s...\n", filename, outputFile)
			}

			root, err := readTree(filename)
			if err != nil {
				return err
			}
			defer ast.Destroy(root)

			res, err := compiler.Compile(root, options(cmd, verbose))
			if err != nil {
				return describe(filename, res, err)
			}
			if tacOutput != "" {
				if err := tac.WriteFile(tacOutput, res.TAC); err != nil {
					return err
				}
				if verbose {
					fmt.Fprintf(out, "Wrote three-address code to %s\n", tacOutput)
				}
			}
			if err := codegen.WriteFile(outputFile, res.Asm); err != nil {
				return err
			}
			fmt.Fprintf(out, "Generated %s (%d bytes)\n", outputFile, len(res.Asm))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path (default: <file>.s)")
	cmd.Flags().StringVar(&tacOutput, "tac", "", "also write the three-address code to this file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show verbose compilation details")
	return cmd
}

func newCheckCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "check [-v] <file>",
		Short: "Check declarations and uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			out := cmd.OutOrStdout()
			if verbose {
				fmt.Fprintf(out, "Checking %s...\n", filename)
			}
			root, err := readTree(filename)
			if err != nil {
				return err
			}
			defer ast.Destroy(root)

			res, err := compiler.Check(root, options(cmd, verbose))
			if err != nil {
				return describe(filename, res, err)
			}
			fmt.Fprintf(out, "%s: no errors found\n", filename)
			if verbose {
				res.Table.Print(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show verbose checking details")
	return cmd
}

func newTACCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tac <file>",
		Short: "Print the three-address code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := readTree(args[0])
			if err != nil {
				return err
			}
			defer ast.Destroy(root)

			res, err := compiler.Lower(root, options(cmd, false))
			if err != nil {
				return describe(args[0], res, err)
			}
			return tac.Print(cmd.OutOrStdout(), res.TAC)
		},
	}
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := readTree(args[0])
			if err != nil {
				return err
			}
			defer ast.Destroy(root)
			ast.Traverse(cmd.OutOrStdout(), root, 0)
			return nil
		},
	}
}

func readTree(filename string) (*ast.Node, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filename, err)
	}
	root, err := ast.Read(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return root, nil
}

func options(cmd *cobra.Command, verbose bool) compiler.Options {
	opts := compiler.Options{Diagnostics: cmd.ErrOrStderr()}
	if verbose {
		opts.Trace = cmd.OutOrStdout()
	}
	return opts
}

// describe shortens semantic failures, whose diagnostics were already
// written as they were found.
func describe(filename string, res *compiler.Result, err error) error {
	if errors.Is(err, compiler.ErrSemantic) {
		return fmt.Errorf("%s: %d semantic error(s)", filename, res.Errors.Count())
	}
	return fmt.Errorf("%s: %w", filename, err)
}
