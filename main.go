package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/charmbracelet/log"

	"github.com/cruxstack/find-my-rep-go/internal/config"
	"github.com/cruxstack/find-my-rep-go/internal/logging"
	"github.com/cruxstack/find-my-rep-go/internal/server"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatal("failed to load config", "error", err)
	}
	logging.Setup(cfg.AppLogLevel, "")

	srv, err := server.NewFromConfig(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to init server", "error", err)
		os.Exit(1)
	}

	lambda.Start(srv.HandleAPIGateway)
}
