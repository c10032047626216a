package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"deskmate/internal/command"
	"deskmate/internal/usecase"
)

func newChatCmd(flags *rootFlags) *cobra.Command {
	var conversationID string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long:  `Reads one utterance per line and streams each reply. Type "exit" or "quit" to leave.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			e, err := openEnv(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()
			stopJanitor := e.runJanitor(ctx)
			defer stopJanitor()

			if conversationID == "" {
				conversationID = uuid.NewString()
			}
			return runREPL(ctx, e.rt.Chat, conversationID, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&conversationID, "conversation", "c", "", "resume a conversation by id")
	return cmd
}

func runREPL(ctx context.Context, chat *usecase.ChatService, conversationID string, in io.Reader, out io.Writer) error {
	welcome, err := chat.Welcome(ctx, conversationID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "deskmate: %s\n", welcome.Text)
	fmt.Fprintf(out, "(conversation %s)\n", conversationID)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "you: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		res, tokens, err := chat.Stream(ctx, usecase.ChatInput{Utterance: line, ConversationID: conversationID})
		if err != nil {
			if code, reason := usecase.CodeOf(err); code == usecase.ErrorInvalidInput {
				fmt.Fprintf(out, "deskmate: (%s)\n", reason)
				continue
			}
			return err
		}
		if res.Command != nil {
			fmt.Fprintf(out, "deskmate: %s\n", describeCommand(res.Command))
			continue
		}

		fmt.Fprint(out, "deskmate: ")
		for tok := range tokens {
			fmt.Fprint(out, tok)
		}
		fmt.Fprintln(out)
		if ctx.Err() != nil {
			return nil
		}
	}
}

func describeCommand(c *command.Command) string {
	if len(c.Params) == 0 {
		return fmt.Sprintf("[command %s]", c.Name)
	}
	parts := make([]string, 0, len(c.Params))
	for _, k := range sortedKeys(c.Params) {
		parts = append(parts, k+"="+c.Params[k])
	}
	return fmt.Sprintf("[command %s %s]", c.Name, strings.Join(parts, " "))
}
