package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"movie-crew-api/handler"
	"movie-crew-api/internal/config"
	"movie-crew-api/internal/integrations/paramstore"
	"movie-crew-api/internal/repository"
	"movie-crew-api/internal/usecase"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	cfg, err := config.Load(os.Getenv)
	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	// ---- AWS SDK config ----
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		slog.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}

	// ---- Clients ----
	var params config.ParamGetter
	if cfg.NeedsParamStore() {
		ssmClient, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
		if err != nil {
			slog.Error("failed to create SSM client", "err", err)
			os.Exit(1)
		}
		params = ssmClient
	}
	tableName, err := cfg.ResolveTableName(ctx, params)
	if err != nil {
		slog.Error("failed to resolve crew table name", "err", err)
		os.Exit(1)
	}

	crewClient, err := repository.New(awsdynamodb.NewFromConfig(awsCfg), tableName)
	if err != nil {
		slog.Error("failed to create crew repository", "err", err)
		os.Exit(1)
	}

	// ---- Handler ----
	crewService, err := usecase.NewCrewService(crewClient)
	if err != nil {
		slog.Error("failed to create crew service", "err", err)
		os.Exit(1)
	}

	h, err := handler.NewHandler(crewService)
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	slog.Info("crew lookup function ready", "table", tableName, "region", awsCfg.Region)
	lambda.Start(h.Handle)
}
