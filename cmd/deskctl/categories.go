package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCategoriesCommand(a *app) *cobra.Command {
	categories := &cobra.Command{
		Use:   "categories",
		Short: "Inspect book categories",
	}

	categories.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.open()
			if err != nil {
				return err
			}

			list, err := session.Categories(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME")
			for _, category := range list {
				fmt.Fprintf(w, "%s\t%s\n", category.ID, category.Name)
			}

			return w.Flush()
		},
	})

	return categories
}
