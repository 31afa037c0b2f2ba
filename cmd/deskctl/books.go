package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/desk"
	"github.com/AntonStoeckl/librarydesk/features/isbnresolver"
	"github.com/AntonStoeckl/librarydesk/features/query/listbooks"
)

type listFlags struct {
	page      int
	limit     int
	sort      string
	search    string
	available string
	minPrice  string
	maxPrice  string
	category  string
	deleted   bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "page size: 5, 8 or 12 (default from LIBRARYDESK_PAGE_LIMIT)")
	cmd.Flags().StringVar(&f.sort, "sort", string(listbooks.SortNewest),
		"newest, price_asc, price_desc, quantity_desc or quantity_asc")
	cmd.Flags().StringVar(&f.search, "search", "", "search title and author")
	cmd.Flags().StringVar(&f.available, "available", string(listbooks.AvailabilityAny), "any, true or false")
	cmd.Flags().StringVar(&f.minPrice, "min-price", "", "lower price bound")
	cmd.Flags().StringVar(&f.maxPrice, "max-price", "", "upper price bound")
	cmd.Flags().StringVar(&f.category, "category", "", "category id")
	cmd.Flags().BoolVar(&f.deleted, "deleted", false, "list soft-deleted books")
}

// descriptor applies the flags to base. The page goes last since every other facet resets it.
func (f *listFlags) descriptor(base listbooks.Descriptor) (listbooks.Descriptor, error) {
	d := base.WithSearch(f.search).WithCategory(f.category)

	var err error
	if f.limit != 0 {
		if d, err = d.WithLimit(f.limit); err != nil {
			return d, err
		}
	}

	if d, err = d.WithSort(listbooks.SortKey(f.sort)); err != nil {
		return d, err
	}

	if d, err = d.WithAvailability(listbooks.Availability(f.available)); err != nil {
		return d, err
	}

	minPrice, err := parsePrice("min-price", f.minPrice)
	if err != nil {
		return d, err
	}

	maxPrice, err := parsePrice("max-price", f.maxPrice)
	if err != nil {
		return d, err
	}

	if d, err = d.WithMinPrice(minPrice); err != nil {
		return d, err
	}

	if d, err = d.WithMaxPrice(maxPrice); err != nil {
		return d, err
	}

	state := core.DeletionStateActive
	if f.deleted {
		state = core.DeletionStateDeleted
	}

	if d, err = d.WithDeletionState(state); err != nil {
		return d, err
	}

	return d.WithPage(f.page)
}

func parsePrice(flag, raw string) (decimal.NullDecimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.NullDecimal{}, nil
	}

	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("--%s: %q is not a number", flag, raw)
	}

	return decimal.NewNullDecimal(price), nil
}

func newBooksCommand(a *app) *cobra.Command {
	books := &cobra.Command{
		Use:   "books",
		Short: "List, add, delete and restore books",
	}

	books.AddCommand(
		newBooksListCommand(a),
		newBooksAddCommand(a),
		newBooksDeletionCommand(a, "delete", "Soft-delete a book with every copy on the shelf", false),
		newBooksDeletionCommand(a, "restore", "Restore a soft-deleted book", true),
	)

	return books
}

func newBooksListCommand(a *app) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.open()
			if err != nil {
				return err
			}

			d, err := flags.descriptor(session.Descriptor())
			if err != nil {
				return err
			}

			page, err := session.Browse(cmd.Context(), d)
			if err != nil {
				return err
			}

			return printBooks(cmd.Context(), a.out, a.errOut, session, page)
		},
	}

	flags.register(cmd)

	return cmd
}

func newBooksAddCommand(a *app) *cobra.Command {
	var (
		isbn, title, author, price, description, copies string
		edit                                            bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add copies of a known title, or create a new title",
		Long: "Add looks the ISBN up first. A known title only gets copies added unless --edit is given,\n" +
			"then its metadata is replaced. An unknown or empty ISBN needs --title, --author and --price.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.open()
			if err != nil {
				return err
			}

			session.TypeISBN(isbn)

			resolution, err := session.CheckISBN(cmd.Context())
			if err != nil {
				return fmt.Errorf("isbn could not be checked: %w", err)
			}

			if edit && resolution.Status == isbnresolver.StatusExists {
				session.ToggleEdit()
			}

			fields := map[isbnresolver.Field]string{
				isbnresolver.FieldTitle:       title,
				isbnresolver.FieldAuthor:      author,
				isbnresolver.FieldPrice:       price,
				isbnresolver.FieldDescription: description,
			}
			for field, value := range fields {
				if !cmd.Flags().Changed(string(field)) {
					continue
				}

				if err := session.SetField(field, value); err != nil {
					if errors.Is(err, isbnresolver.ErrFieldLocked) {
						return fmt.Errorf("%w: the title is known, pass --edit to change its metadata", err)
					}

					return err
				}
			}

			outcome, err := session.SubmitBook(cmd.Context(), copies)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, outcome.Message)

			return nil
		},
	}

	cmd.Flags().StringVar(&isbn, "isbn", "", "ISBN, hyphens and spaces are ignored")
	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVar(&author, "author", "", "author")
	cmd.Flags().StringVar(&price, "price", "", "price, e.g. 12.50")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&copies, "copies", "1", "number of copies to add")
	cmd.Flags().BoolVar(&edit, "edit", false, "replace the metadata of a known title")

	return cmd
}

func newBooksDeletionCommand(a *app, use, short string, deleted bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <book-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.open()
			if err != nil {
				return err
			}

			book, err := findBook(cmd.Context(), session, args[0], deleted)
			if err != nil {
				return err
			}

			mutate := session.RemoveBook
			if deleted {
				mutate = session.RestoreBook
			}

			outcome, err := mutate(cmd.Context(), book)
			if err != nil {
				return err
			}

			if outcome.Idempotent {
				fmt.Fprintf(a.out, "Nothing to do for book %s\n", book.ID)
				return nil
			}

			fmt.Fprintln(a.out, outcome.Message)

			return nil
		},
	}
}

// findBook walks the active or deleted listing page by page until it finds id.
func findBook(ctx context.Context, session *desk.Session, id string, deleted bool) (core.Book, error) {
	page, err := session.ShowDeleted(ctx, deleted)
	if err != nil {
		return core.Book{}, err
	}

	for {
		if book, err := session.Book(id); err == nil {
			return book, nil
		}

		if page.Page >= page.TotalPages {
			return core.Book{}, fmt.Errorf("book %s not found", id)
		}

		if page, err = session.NextPage(ctx); err != nil {
			return core.Book{}, err
		}
	}
}
