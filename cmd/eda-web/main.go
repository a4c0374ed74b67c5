// Command eda-web generates the EDA report at startup and serves it over HTTP
// together with the JSON API, health checks and Prometheus metrics.
package main

import (
	"flag"
	"log/slog"
	"os"

	"loaneda/internal/app"
	"loaneda/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	input := flag.String("input", "", "dataset location: file path, http(s) URL or s3://bucket/key")
	port := flag.Int("port", 0, "HTTP port")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *input != "" {
		cfg.Input.Location = *input
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if err := cfg.Revalidate(); err != nil {
		slog.Error("Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	application, err := app.NewApplication(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
