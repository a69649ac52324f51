package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"parm-catalog/internal/importer"
)

func addImport(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a catalog file (YAML or JSON) into the database",
		Example: `
parmctl import catalog.yaml
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			result, err := importer.NewService(e.store, e.logger).ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			green := color.New(color.FgGreen, color.Bold)
			_, _ = fmt.Fprintf(out(cmd), "%s %d categories, %d assets, %d manufacturers, %d reservations\n",
				green.Sprint("Imported"), result.Categories, result.Assets, result.Manufacturers, result.Reservations)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
