package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/librarydesk/features/isbnresolver"
)

func newISBNCommand(a *app) *cobra.Command {
	isbn := &cobra.Command{
		Use:   "isbn",
		Short: "Query the catalog by ISBN",
	}

	isbn.AddCommand(&cobra.Command{
		Use:   "check <isbn>",
		Short: "Report whether the catalog knows a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.open()
			if err != nil {
				return err
			}

			session.TypeISBN(args[0])

			resolution, err := session.CheckISBN(cmd.Context())
			if err != nil {
				return err
			}

			switch resolution.Status {
			case isbnresolver.StatusExists:
				fmt.Fprintf(a.out, "%s is known: %q by %s, %s\n",
					resolution.ISBN, resolution.Fields.Title, resolution.Fields.Author, resolution.Fields.Price)
			case isbnresolver.StatusNew:
				fmt.Fprintf(a.out, "%s is new\n", resolution.ISBN)
			default:
				fmt.Fprintln(a.out, "no ISBN given")
			}

			return nil
		},
	})

	return isbn
}
