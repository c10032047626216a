package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	var (
		conversationID string
		limit          int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored conversations, or print one transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			w := cmd.OutOrStdout()
			if conversationID == "" {
				convs, err := e.store.ListConversations(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(convs) == 0 {
					fmt.Fprintln(w, "No conversations yet.")
					return nil
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTURNS\tLAST ACTIVITY")
				for _, c := range convs {
					fmt.Fprintf(tw, "%s\t%d\t%s\n", c.ID, c.Turns, c.LastActivity.Local().Format(time.DateTime))
				}
				return tw.Flush()
			}

			turns, err := e.rt.Chat.History(cmd.Context(), conversationID)
			if err != nil {
				return err
			}
			for _, t := range turns {
				fmt.Fprintf(w, "[%s] %s: %s\n", t.Timestamp.Local().Format(time.DateTime), t.Role, t.Text)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&conversationID, "conversation", "c", "", "print this conversation's turns")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum conversations to list")
	return cmd
}
