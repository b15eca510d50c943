package main

import (
	"context"
	"log/slog"

	"gatherer-crawler/cmd/cardcrawl/commands"
	"gatherer-crawler/lib/telemetry"
)

func main() {
	ctx := context.Background()

	telemetry.InitSlog(false)
	otel, err := telemetry.SetupFromEnv(ctx, "cardcrawl")
	if err != nil {
		slog.Warn("failed to setup telemetry", "err", err.Error())
	}
	defer otel.Shutdown(ctx)

	commands.ExecuteContext(ctx)
}
