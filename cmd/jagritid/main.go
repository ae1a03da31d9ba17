package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"jagriti-backend/lib/configutil"
	"jagriti-backend/lib/scrapers/jagriti"
	"jagriti-backend/lib/telemetry"
	"jagriti-backend/services/casetracker"
)

func fatalerr(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}

func main() {
	configPath := flag.String("config", "config.json5", "path to the config file")
	flag.Parse()

	configutil.LoadDotenv()

	config, err := readConfig(*configPath)
	if err != nil {
		fatalerr("failed to read config", err)
	}
	telemetry.InitSlog(config.Debug)

	ctx := context.Background()
	t, err := telemetry.SetupFromEnv(ctx, "jagritid")
	if err != nil {
		fatalerr("failed to setup telemetry", err)
	}
	defer t.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	client, err := jagriti.NewClient(config.Client)
	if err != nil {
		fatalerr("failed to create portal client", err)
	}
	service := casetracker.NewService(client, config.Service)

	mux := http.NewServeMux()
	registerRoutes(mux, service)

	slog.Info("listening...", "addr", config.Listen)
	err = http.ListenAndServe(
		config.Listen,
		h2c.NewHandler(mux, &http2.Server{}),
	)
	if err != nil {
		fatalerr("failed to listen", err)
	}
}
