package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"deskmate/internal/usecase"
)

func newAskCmd(flags *rootFlags) *cobra.Command {
	var (
		conversationID string
		asJSON         bool
	)
	cmd := &cobra.Command{
		Use:   "ask [utterance...]",
		Short: "Answer a single utterance and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			out, err := e.rt.Chat.Chat(cmd.Context(), usecase.ChatInput{
				Utterance:      strings.Join(args, " "),
				ConversationID: conversationID,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			if out.Command != nil {
				fmt.Fprintln(w, describeCommand(out.Command))
				return nil
			}
			fmt.Fprintln(w, out.Reply)
			return nil
		},
	}
	cmd.Flags().StringVarP(&conversationID, "conversation", "c", "", "conversation id (a new one when empty)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
