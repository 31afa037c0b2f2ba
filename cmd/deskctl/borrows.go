package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/desk"
)

func newBorrowCommand(a *app) *cobra.Command {
	borrow := &cobra.Command{
		Use:   "borrow",
		Short: "Record loans and returns",
	}

	borrow.AddCommand(newBorrowRecordCommand(a), newBorrowReturnCommand(a))

	return borrow
}

func newBorrowRecordCommand(a *app) *cobra.Command {
	var email, bookID string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Lend one copy of a book to a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.open()
			if err != nil {
				return err
			}

			book, err := findBook(cmd.Context(), session, bookID, false)
			if err != nil {
				return err
			}

			outcome, err := session.RecordBorrow(cmd.Context(), book, email)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, outcome.Message)

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the borrowing user")
	cmd.Flags().StringVar(&bookID, "book", "", "book id")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("book")

	return cmd
}

func newBorrowReturnCommand(a *app) *cobra.Command {
	var email, bookID string

	cmd := &cobra.Command{
		Use:   "return",
		Short: "Confirm that a user returned a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.open()
			if err != nil {
				return err
			}

			if err := session.RefreshBorrowRecords(cmd.Context()); err != nil {
				return err
			}

			record, err := session.OutstandingRecord(bookID, email)
			if err != nil {
				return err
			}

			outcome, err := session.ConfirmReturn(cmd.Context(), record)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, outcome.Message)

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the borrowing user")
	cmd.Flags().StringVar(&bookID, "book", "", "book id")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("book")

	return cmd
}

func newBorrowsCommand(a *app) *cobra.Command {
	borrows := &cobra.Command{
		Use:   "borrows",
		Short: "Inspect borrow records",
	}

	var (
		mine bool
		at   string
	)

	list := &cobra.Command{
		Use:   "list",
		Short: "List loans: active and overdue for everyone, or outstanding and returned for you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at: %q is not an RFC 3339 timestamp", at)
				}
				now = parsed
			}

			scope := core.BorrowScopeAll
			if mine {
				scope = core.BorrowScopeMine
			}

			session, err := a.open(desk.WithBorrowScope(scope))
			if err != nil {
				return err
			}

			if err := session.RefreshBorrowRecords(cmd.Context()); err != nil {
				return err
			}

			if mine {
				personal := session.PersonalPartition()
				printRecords(a.out, "Outstanding", personal.Outstanding)
				printRecords(a.out, "Returned", personal.Returned)

				return nil
			}

			catalog := session.CatalogPartition(now)
			printRecords(a.out, "Active", catalog.Active)
			printRecords(a.out, "Overdue", catalog.Overdue)

			return nil
		},
	}

	list.Flags().BoolVar(&mine, "mine", false, "list only the loans of the authenticated user")
	list.Flags().StringVar(&at, "at", "", "classify overdue loans at this RFC 3339 time instead of now")

	borrows.AddCommand(list)

	return borrows
}
