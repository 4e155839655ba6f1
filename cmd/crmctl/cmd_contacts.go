package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/galaxy-co-ai/results-roofing-sub001/internal/infrastructure/leadconnector/contacts"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Manage contacts",
}

var (
	contactsListLimit  int
	contactsListQuery  string
	contactsListCursor string

	lookupEmail string
	lookupPhone string

	upsertFirstName string
	upsertLastName  string
	upsertEmail     string
	upsertPhone     string
	upsertTags      []string
)

var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts, optionally filtered by free text",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, log, err := newGateway()
		if err != nil {
			return err
		}
		svc := contacts.NewService(client, log)

		result, err := svc.List(cmd.Context(), contacts.ListParams{
			Limit:        contactsListLimit,
			Query:        contactsListQuery,
			StartAfterID: contactsListCursor,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var contactsGetCmd = &cobra.Command{
	Use:   "get [contact-id]",
	Short: "Fetch one contact by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, log, err := newGateway()
		if err != nil {
			return err
		}
		svc := contacts.NewService(client, log)

		contact, err := svc.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(contact)
	},
}

var contactsLookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Find a contact by email or phone",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, log, err := newGateway()
		if err != nil {
			return err
		}
		svc := contacts.NewService(client, log)

		contact, err := svc.Lookup(cmd.Context(), contacts.LookupParams{
			Email: lookupEmail,
			Phone: lookupPhone,
		})
		if err != nil {
			return err
		}
		if contact == nil {
			fmt.Println("no matching contact")
			return nil
		}
		return printJSON(contact)
	},
}

var contactsUpsertCmd = &cobra.Command{
	Use:   "upsert",
	Short: "Create or update a contact, resolved server-side",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, log, err := newGateway()
		if err != nil {
			return err
		}
		svc := contacts.NewService(client, log)

		result, err := svc.Upsert(cmd.Context(), contacts.UpsertParams{
			FirstName: upsertFirstName,
			LastName:  upsertLastName,
			Email:     upsertEmail,
			Phone:     upsertPhone,
			Tags:      upsertTags,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var contactsDeleteCmd = &cobra.Command{
	Use:   "delete [contact-id]",
	Short: "Delete a contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, log, err := newGateway()
		if err != nil {
			return err
		}
		svc := contacts.NewService(client, log)

		if err := svc.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("deleted", args[0])
		return nil
	},
}

func init() {
	contactsCmd.AddCommand(contactsListCmd)
	contactsCmd.AddCommand(contactsGetCmd)
	contactsCmd.AddCommand(contactsLookupCmd)
	contactsCmd.AddCommand(contactsUpsertCmd)
	contactsCmd.AddCommand(contactsDeleteCmd)

	contactsListCmd.Flags().IntVar(&contactsListLimit, "limit", 20, "Page size")
	contactsListCmd.Flags().StringVar(&contactsListQuery, "query", "", "Free-text filter")
	contactsListCmd.Flags().StringVar(&contactsListCursor, "start-after-id", "", "Cursor from a previous page")

	contactsLookupCmd.Flags().StringVar(&lookupEmail, "email", "", "Email to look up")
	contactsLookupCmd.Flags().StringVar(&lookupPhone, "phone", "", "Phone to look up")

	contactsUpsertCmd.Flags().StringVar(&upsertFirstName, "first-name", "", "First name")
	contactsUpsertCmd.Flags().StringVar(&upsertLastName, "last-name", "", "Last name")
	contactsUpsertCmd.Flags().StringVar(&upsertEmail, "email", "", "Email")
	contactsUpsertCmd.Flags().StringVar(&upsertPhone, "phone", "", "Phone")
	contactsUpsertCmd.Flags().StringSliceVar(&upsertTags, "tags", nil, "Tags to attach")
}
