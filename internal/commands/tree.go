package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"parm-catalog/internal/catalog"
)

// depthColors cycle with the depth of a row.
var depthColors = []*color.Color{
	color.New(color.FgCyan, color.Bold),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgMagenta),
}

func addTree(topLevel *cobra.Command, opts *rootOptions) {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the category tree",
		Example: `
parmctl tree
parmctl tree --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			cat, err := e.catalog(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printTreeJSON(out(cmd), cat.Tree)
			}
			printTree(out(cmd), cat.Tree)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON.")

	topLevel.AddCommand(cmd)
}

func printTree(w io.Writer, tree catalog.Tree) {
	faint := color.New(color.Faint)
	for row := range catalog.Rows(tree) {
		c := depthColors[row.Indent%len(depthColors)]
		_, _ = fmt.Fprintf(w, "%s%s %s\n",
			strings.Repeat("  ", row.Indent), c.Sprint(row.Name), faint.Sprintf("#%d", row.ID))
	}
}

func printTreeJSON(w io.Writer, tree catalog.Tree) error {
	if tree == nil {
		tree = catalog.Tree{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tree)
}
