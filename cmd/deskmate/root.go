package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"deskmate/internal/app"
	"deskmate/internal/config"
	"deskmate/internal/repository"
)

type rootFlags struct {
	cfgFile string
	dbPath  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "deskmate",
		Short: "A rule-based desktop conversation assistant",
		Long: `deskmate answers everyday questions from a built-in knowledge base,
falls back to Wikipedia summaries for the rest, and recognizes simple
desktop commands. Conversations are kept in a local SQLite file.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.cfgFile, "config", "deskmate.yml", "config file path")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "SQLite transcript path (overrides sqlite_path)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newChatCmd(flags), newAskCmd(flags), newHistoryCmd(flags))
	return root
}

// env is what every subcommand works against.
type env struct {
	cfg   *config.Config
	store *repository.SQLiteStore
	rt    *app.Runtime
}

func (e *env) Close() error {
	return e.store.Close()
}

func openEnv(flags *rootFlags, stderr io.Writer) (*env, error) {
	cfg, err := config.Load(flags.cfgFile)
	if err != nil {
		return nil, err
	}
	if flags.dbPath != "" {
		cfg.SQLitePath = flags.dbPath
	}
	if flags.verbose {
		cfg.LogLevel = "debug"
	}
	slog.SetDefault(app.NewLogger(stderr, cfg, false))

	store, err := repository.NewSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("opening transcript: %w", err)
	}
	rt, err := app.Build(cfg, store, nil)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &env{cfg: cfg, store: store, rt: rt}, nil
}

// runJanitor evicts idle conversations until the returned stop is called.
func (e *env) runJanitor(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.rt.Sessions.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}
