package main

import (
	"context"

	"preciazo-backend/cmd/scraper/commands"
	"preciazo-backend/lib/telemetry"
)

func main() {
	telemetry.InitSlog(true)
	telemetry.SetupFromEnvOrWarn(context.Background(), "scraper")
	commands.ExecuteContext(context.Background())
}
