package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"parm-catalog/internal/catalog"
	"parm-catalog/internal/view"
)

func addAssets(topLevel *cobra.Command, opts *rootOptions) {
	var (
		category    string
		descendants bool
	)

	cmd := &cobra.Command{
		Use:   "assets",
		Short: "List assets, optionally filtered by category",
		Example: `
parmctl assets
parmctl assets --category 3
parmctl assets --category 1 --descendants
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
			if !cmd.Flags().Changed("descendants") {
				descendants = e.cfg.Catalog.IncludeDescendants
			}

			var assets []catalog.Asset
			if descendants {
				assets = catalog.FilterWithDescendants(cat.Assets, cat.Tree, category)
			} else {
				assets = catalog.Filter(cat.Assets, category)
			}
			printAssets(out(cmd), cat.Tree, assets)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Only list assets of this category id.")
	cmd.Flags().BoolVar(&descendants, "descendants", false, "Include assets of subcategories.")

	topLevel.AddCommand(cmd)
}

func printAssets(w io.Writer, tree catalog.Tree, assets []catalog.Asset) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Model"), bold.Sprint("Manufacturer"), bold.Sprint("Category"))
	for _, a := range assets {
		manufacturer := a.ManufacturerName
		if manufacturer == "" {
			manufacturer = view.UnknownManufacturer
		}
		category := "-"
		if c, ok := tree.Find(a.CategoryID); ok {
			category = c.Name
		}
		tbl.AddRow(strconv.FormatInt(a.ID, 10), a.ModelName, manufacturer, category)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(w, tbl)
	_, _ = fmt.Fprintf(w, "%d assets\n", len(assets))
}
