package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"deskmate/handler"
	"deskmate/internal/app"
	"deskmate/internal/config"
	"deskmate/internal/integrations/paramstore"
	"deskmate/internal/repository"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	cfg, err := config.Load(os.Getenv("DESKMATE_CONFIG"))
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(app.NewLogger(os.Stdout, cfg, true))
	if cfg.StateTable == "" {
		slog.Error("required setting is not set", "key", "state_table")
		os.Exit(1)
	}

	// ---- AWS SDK config ----
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}

	// ---- Clients ----
	ssmClient, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
	if err != nil {
		slog.Error("failed to create SSM client", "err", err)
		os.Exit(1)
	}
	transcript, err := repository.New(awsdynamodb.NewFromConfig(awsCfg), cfg.StateTable)
	if err != nil {
		slog.Error("failed to create transcript client", "err", err)
		os.Exit(1)
	}

	// ---- Handler ----
	rt, err := app.Build(cfg, transcript, ssmClient)
	if err != nil {
		slog.Error("failed to build chat service", "err", err)
		os.Exit(1)
	}
	// Conversations outlive a single invocation in a warm container.
	go rt.Sessions.Run(ctx)

	h, err := handler.NewHandler(rt.Chat)
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
