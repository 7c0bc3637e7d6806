package tools

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dwgrep/zwerg/pkg/zwerg/engine"
)

var supportedVocabularies = map[string]func() *engine.Vocabulary{
	"core": engine.Core,
}

func vocabularyNames() []string {
	names := make([]string, 0, len(supportedVocabularies))
	for name := range supportedVocabularies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// docString renders every builtin in vocab as "name: doc (prototype)",
// sorted by name, one per line.
func docString(vocab *engine.Vocabulary) string {
	names := vocab.Names()
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		builtin, _ := vocab.Lookup(name)
		fmt.Fprintf(&b, "%s: %s (%s)\n", builtin.Name, builtin.Doc, builtin.Prototype)
	}
	return b.String()
}

var docsCmd = &cobra.Command{
	Use:   "docs vocabulary",
	Short: "Show dwgrep vocabulary documentation",
	Long: `Dumps the documentation of every builtin in the named vocabulary.
By default the tool dumps the documentation to stdout, but it can be redirected to a file using the --output flag.

Supported vocabularies:
` + strings.Join(vocabularyNames(), "\n"),
	Args:      cobra.MatchAll(cobra.OnlyValidArgs, cobra.MaximumNArgs(1), cobra.MinimumNArgs(1)),
	ValidArgs: vocabularyNames(),
	Run: func(cmd *cobra.Command, args []string) {
		vocab := supportedVocabularies[args[0]]()
		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			file, err := os.Create(outputFile)
			if err != nil {
				fmt.Println("Error creating file:", err)
				os.Exit(1)
			}
			defer file.Close()
			fmt.Fprint(file, docString(vocab))
		} else {
			fmt.Print(docString(vocab))
		}
	},
}

func init() {
	ToolsCmd.AddCommand(docsCmd)
	docsCmd.Flags().StringP("output", "o", "", "Output file. If not specified, the documentation is dumped to stdout.")
}
