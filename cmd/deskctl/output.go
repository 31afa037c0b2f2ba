package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/desk"
)

const dateLayout = "2006-01-02"

func printBooks(ctx context.Context, out, errOut io.Writer, session *desk.Session, page core.BookPage) error {
	if err := session.RefreshCategories(ctx); err != nil {
		fmt.Fprintf(errOut, "warning: category names unavailable, showing ids: %s\n", core.UserMessage(err))
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tISBN\tTITLE\tAUTHOR\tPRICE\tON SHELF\tCATEGORIES")

	for _, book := range page.Books {
		names := session.CategoryNames(book.CategoryIDs)

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d/%d\t%s\n",
			book.ID, book.ISBN, book.Title, book.Author, book.Price.StringFixed(2),
			book.Quantity, book.TotalCopies, strings.Join(names, ", "))
	}

	if err := w.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "page %d of %d, %d books\n", page.Page, page.TotalPages, page.TotalBooks)

	return err
}

func printRecords(out io.Writer, heading string, records []core.BorrowRecord) {
	fmt.Fprintf(out, "%s (%d)\n", heading, len(records))
	if len(records) == 0 {
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  BOOK\tTITLE\tUSER\tBORROWED\tDUE\tRETURNED")

	for _, record := range records {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%s\n",
			record.BookID, record.BookTitle, record.UserEmail,
			record.BorrowedDate.Format(dateLayout), record.DueDate.Format(dateLayout), returnedOn(record.ReturnDate))
	}

	_ = w.Flush()
}

func returnedOn(date *time.Time) string {
	if date == nil {
		return "-"
	}

	return date.Format(dateLayout)
}
