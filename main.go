package main

import (
	"os"
	"path/filepath"

	"github.com/noise-planet/noisecapture-go/cmd"
	"github.com/noise-planet/noisecapture-go/internal/conf"
	"github.com/noise-planet/noisecapture-go/internal/datastore"
	"github.com/noise-planet/noisecapture-go/internal/logging"
	"github.com/noise-planet/noisecapture-go/internal/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		logging.Fatal("Error loading settings", "error", err)
	}

	if settings.Log.Enabled {
		logPath := filepath.Join(settings.Log.Path, "datastore.log")
		if err := datastore.InitializeLogger(logPath); err != nil {
			logging.Warn("Datastore file logging unavailable", "error", err)
		}
	} else {
		datastore.DisableFileLogging()
	}

	registry := prometheus.NewRegistry()
	dsMetrics, err := metrics.NewDatastoreMetrics(registry)
	if err != nil {
		logging.Fatal("Error registering datastore metrics", "error", err)
	}

	rootCmd := cmd.RootCommand(settings, dsMetrics)
	execErr := rootCmd.Execute()

	if err := datastore.CloseLogger(); err != nil {
		logging.Error("Error closing datastore logger", "error", err)
	}
	if execErr != nil {
		os.Exit(1)
	}
}
