package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"preciazo-backend/lib/util/configutil"
)

var setupTestEnvironments = map[string]bool{}

// sets up telemetry in a testing environment, ensuring that it isn't
// set up more than once. environments without a telemetry.json5 only
// get slog initialized.
func SetupForTesting(serviceName string) func() {
	_, setupAlready := setupTestEnvironments[serviceName]
	if setupAlready {
		return func() {}
	}
	setupTestEnvironments[serviceName] = true

	InitSlog(true)
	err := SetupFromEnv(context.Background(), serviceName)
	if errors.Is(err, os.ErrNotExist) {
		return func() {}
	}
	if err != nil {
		panic(err)
	}

	return func() {
		err = Shutdown(context.Background())
		if err != nil {
			panic(err)
		}
	}
}

// production variant of SetupForTesting. a missing telemetry.json5
// means export just stays off, but a broken one is reported instead
// of silently disabling export, and never takes the process down.
func SetupFromEnvOrWarn(ctx context.Context, serviceName string) {
	err := SetupFromEnv(ctx, serviceName)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Error("failed to set up telemetry, export disabled", "err", err)
	}
}

// searches up the filesystem from the cwd to find a file
// called telemetry.json5, once found it will then use it
// as a config to setup telemetry
func SetupFromEnv(ctx context.Context, serviceName string) error {
	config, err := configutil.ReadRecursively[config]("telemetry.json5")
	if err != nil {
		return err
	}
	return Setup(ctx, serviceName, config)
}
