package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zheng/aurora/internal/report"
	"github.com/zheng/aurora/internal/storage"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage stored analysis conversations",
	}
	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyShowCmd())
	cmd.AddCommand(historyAddCmd())
	cmd.AddCommand(historyDeleteCmd())
	return cmd
}

func openHistory() (*storage.History, error) {
	return storage.OpenHistory(cfg.Paths.History)
}

func historyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openHistory()
			if err != nil {
				return err
			}
			defer h.Close()

			convos, err := h.Conversations()
			if err != nil {
				return err
			}
			if len(convos) == 0 {
				fmt.Println("no conversations stored")
				return nil
			}
			for _, c := range convos {
				title := c.Title
				if len(title) > 60 {
					title = title[:60] + "..."
				}
				fmt.Printf("%s  %s  %s\n", c.ID, c.StartedAt.Format("2006-01-02 15:04"), title)
			}
			return nil
		},
	}
}

func historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <conversation-id>",
		Short: "Show a stored conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openHistory()
			if err != nil {
				return err
			}
			defer h.Close()

			items, err := h.Load(args[0])
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return fmt.Errorf("conversation not found: %s", args[0])
			}
			for i, it := range items {
				fmt.Printf("--- interaction %d (%s) ---\n", i+1, it.Timestamp.Format("2006-01-02 15:04:05"))
				fmt.Printf("Q: %s\n", it.Query)
				fmt.Printf("A: %s\n\n", it.Response)
			}
			return nil
		},
	}
}

func historyAddCmd() *cobra.Command {
	var conversationID string

	cmd := &cobra.Command{
		Use:   "add <query> <response>",
		Short: "Record an interaction (starts a new conversation unless --conversation is given)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openHistory()
			if err != nil {
				return err
			}
			defer h.Close()

			if conversationID == "" {
				conversationID = storage.NewConversationID()
			}
			if err := h.Add(conversationID, args[0], args[1]); err != nil {
				return err
			}
			fmt.Println(conversationID)
			return nil
		},
	}

	cmd.Flags().StringVar(&conversationID, "conversation", "", "append to an existing conversation")
	return cmd
}

func historyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <conversation-id>",
		Short: "Delete a stored conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openHistory()
			if err != nil {
				return err
			}
			defer h.Close()
			if err := h.Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted conversation %s\n", args[0])
			return nil
		},
	}
}

func reportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "report <conversation-id>",
		Short: "Export a conversation as a markdown impact report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openHistory()
			if err != nil {
				return err
			}
			defer h.Close()

			items, err := h.Load(args[0])
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return fmt.Errorf("conversation not found: %s", args[0])
			}

			doc := report.Render(args[0], items, time.Now())
			if outPath == "" {
				fmt.Print(doc)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Printf("Report written to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the report to a file")
	return cmd
}
