package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/galaxy-co-ai/results-roofing-sub001/internal/infrastructure/leadconnector/conversations"
)

var conversationsCmd = &cobra.Command{
	Use:   "conversations",
	Short: "Manage conversations and messages",
}

var (
	convSearchContact string
	convSearchStatus  string
	convSearchLimit   int

	smsContact string
	smsMessage string

	emailContact string
	emailSubject string
	emailHTML    string
	emailTo      string

	messagesLimit  int
	messagesCursor string
)

var conversationsSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, log, err := newGateway()
		if err != nil {
			return err
		}
		svc := conversations.NewService(client, log)

		result, err := svc.Search(cmd.Context(), conversations.SearchParams{
			ContactID: convSearchContact,
			Status:    conversations.ConversationStatus(convSearchStatus),
			Limit:     convSearchLimit,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var conversationsMessagesCmd = &cobra.Command{
	Use:   "messages [conversation-id]",
	Short: "List a conversation's messages, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, log, err := newGateway()
		if err != nil {
			return err
		}
		svc := conversations.NewService(client, log)

		result, err := svc.ListMessages(cmd.Context(), args[0], conversations.MessageListParams{
			Limit:         messagesLimit,
			LastMessageID: messagesCursor,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var conversationsSendSMSCmd = &cobra.Command{
	Use:   "send-sms",
	Short: "Send an SMS to a contact",
	RunE: func(cmd *cobra.Command, args []string) error {
		if smsContact == "" || smsMessage == "" {
			return fmt.Errorf("--contact and --message are required")
		}
		client, log, err := newGateway()
		if err != nil {
			return err
		}
		svc := conversations.NewService(client, log)

		message, err := svc.SendSMS(cmd.Context(), smsContact, smsMessage)
		if err != nil {
			return err
		}
		return printJSON(message)
	},
}

var conversationsSendEmailCmd = &cobra.Command{
	Use:   "send-email",
	Short: "Send an email to a contact",
	RunE: func(cmd *cobra.Command, args []string) error {
		if emailContact == "" {
			return fmt.Errorf("--contact is required")
		}
		client, log, err := newGateway()
		if err != nil {
			return err
		}
		svc := conversations.NewService(client, log)

		message, err := svc.SendEmail(cmd.Context(), emailContact, conversations.EmailParams{
			Subject: emailSubject,
			HTML:    emailHTML,
			To:      emailTo,
		})
		if err != nil {
			return err
		}
		return printJSON(message)
	},
}

var conversationsMarkReadCmd = &cobra.Command{
	Use:   "mark-read [conversation-id]",
	Short: "Mark a conversation read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, log, err := newGateway()
		if err != nil {
			return err
		}
		svc := conversations.NewService(client, log)

		if err := svc.MarkRead(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("marked read", args[0])
		return nil
	},
}

func init() {
	conversationsCmd.AddCommand(conversationsSearchCmd)
	conversationsCmd.AddCommand(conversationsMessagesCmd)
	conversationsCmd.AddCommand(conversationsSendSMSCmd)
	conversationsCmd.AddCommand(conversationsSendEmailCmd)
	conversationsCmd.AddCommand(conversationsMarkReadCmd)

	conversationsSearchCmd.Flags().StringVar(&convSearchContact, "contact", "", "Filter by contact id")
	conversationsSearchCmd.Flags().StringVar(&convSearchStatus, "status", "", "all, read, unread or starred")
	conversationsSearchCmd.Flags().IntVar(&convSearchLimit, "limit", 20, "Page size")

	conversationsMessagesCmd.Flags().IntVar(&messagesLimit, "limit", 20, "Page size")
	conversationsMessagesCmd.Flags().StringVar(&messagesCursor, "last-message-id", "", "Cursor from a previous page")

	conversationsSendSMSCmd.Flags().StringVar(&smsContact, "contact", "", "Recipient contact id")
	conversationsSendSMSCmd.Flags().StringVar(&smsMessage, "message", "", "SMS body")

	conversationsSendEmailCmd.Flags().StringVar(&emailContact, "contact", "", "Recipient contact id")
	conversationsSendEmailCmd.Flags().StringVar(&emailSubject, "subject", "", "Email subject")
	conversationsSendEmailCmd.Flags().StringVar(&emailHTML, "html", "", "Email HTML body")
	conversationsSendEmailCmd.Flags().StringVar(&emailTo, "to", "", "Override recipient address")
}
