// Package query implements `dwgrep query`, adapted from cmd/cpu/exec.go's
// file-loading/verbose-tracing shape and cmd/cpu/debug.go's colorized
// instruction dump: here the "instruction" being colorized is a result
// stack's top value instead of a disassembled opcode line.
package query

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dwgrep/zwerg/pkg/zwerg/constant"
	"github.com/dwgrep/zwerg/pkg/zwerg/engine"
	"github.com/dwgrep/zwerg/pkg/zwerg/value"
)

var (
	queryVerbose    bool
	queryMaxResults int
)

// QueryCmd implements `dwgrep query <expr> <file>`: it parses expr
// against the core vocabulary, seeds the initial stack with the named
// file's raw bytes and its size, then evaluates the query and prints
// one line per result stack's top value.
var QueryCmd = &cobra.Command{
	Use:   "query <expr> <file>",
	Short: "Evaluate a query expression against a binary",
	Long: `Parses and compiles a dwgrep query expression against the core
vocabulary, seeds the initial stack with the named file's contents (a
String) and its byte size (a Const), and prints the top value of every
result stack the query produces.

Example:
  dwgrep query '"ELF" match' program.o
  dwgrep query 'length' program.o`,
	Args: cobra.ExactArgs(2),
	Run:  runQuery,
}

func init() {
	QueryCmd.Flags().BoolVarP(&queryVerbose, "verbose", "v", false, "Print diagnostics accumulated during evaluation")
	QueryCmd.Flags().IntVarP(&queryMaxResults, "max-results", "n", 0, "Maximum number of results to print (0 = unlimited)")
}

func runQuery(cmd *cobra.Command, args []string) {
	expr, path := args[0], args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", path, err)
		os.Exit(2)
	}

	q, err := engine.Parse(expr, engine.Core())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing query: %v\n", err)
		os.Exit(1)
	}

	seed := []value.Value{
		value.NewConst(constant.New(constant.FromInt64(int64(len(data))), constant.Decimal), 0),
		value.NewString(string(data), 0),
	}

	r := engine.NewResult(q, seed...)
	defer r.Close()

	useColor := viper.GetBool("color")
	printed := 0
	for {
		if queryMaxResults > 0 && printed >= queryMaxResults {
			break
		}
		stk, ok := r.Next()
		if !ok {
			break
		}
		if stk.Size() == 0 {
			continue
		}
		fmt.Println(colorizeResult(stk.Top(), useColor))
		printed++
	}

	if queryVerbose {
		if diag := r.Diagnostics(); diag != "" {
			fmt.Fprint(os.Stderr, diag)
		}
	}
}

var (
	resultConst    = color.New(color.FgCyan)
	resultString   = color.New(color.FgGreen)
	resultSequence = color.New(color.FgYellow)
	resultClosure  = color.New(color.FgMagenta)
)

// colorizeResult highlights a result value by its dynamic variant, the
// way cmd/cpu/debug.go's colorizeInstruction highlights an instruction's
// opcode/register/immediate parts.
func colorizeResult(v value.Value, useColor bool) string {
	text := v.Show(false)
	if !useColor {
		return text
	}
	switch v.(type) {
	case value.Const:
		return resultConst.Sprint(text)
	case value.String:
		return resultString.Sprint(text)
	case value.Sequence:
		return resultSequence.Sprint(text)
	default:
		return resultClosure.Sprint(text)
	}
}
