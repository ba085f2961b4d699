// analyzecsv runs the ingestion and insight pipeline against a local file
// without starting the web service. Useful for checking how a dealership
// export will be parsed and what insights it yields.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"watchdog/internal/config"
	"watchdog/internal/infrastructure"
	"watchdog/internal/ingest"
	"watchdog/internal/insights"
	"watchdog/internal/normalize"
)

func main() {
	file := flag.String("file", "", "CSV or XLSX file to analyze")
	intent := flag.String("intent", "", "analysis intent (general, sales, profit, rep, lead_source, vehicle)")
	question := flag.String("question", "", "free-form question to answer instead of an intent analysis")
	out := flag.String("out", "", "write the JSON report to this path instead of stdout")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: analyzecsv -file <path> [-intent name | -question text] [-out path]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = &config.Config{
			Logging: config.LoggingConfig{
				Level:    "info",
				Format:   "json",
				Output:   "console",
				FilePath: "logs/analyzecsv.log",
			},
		}
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	logger.Info("Analyzing file",
		slog.String("file", *file),
		slog.String("intent", *intent),
		slog.Bool("question_mode", *question != ""))

	data, err := os.ReadFile(*file)
	if err != nil {
		logger.Error("Cannot read input file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rows, err := ingest.Open(data, filepath.Base(*file))
	if err != nil {
		logger.Error("File rejected", slog.String("error", err.Error()))
		os.Exit(1)
	}

	records, err := normalize.Records(rows)
	if err != nil {
		logger.Error("Normalization failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("File normalized",
		slog.Int("rows", len(records)),
		slog.Int("columns", len(rows.Columns())))

	engine := insights.NewEngine(logger)

	var report *insights.Report
	if *question != "" {
		report, err = engine.Answer(records, *question)
	} else {
		report, err = engine.Generate(records, insights.ParseIntent(*intent))
	}
	if err != nil {
		logger.Error("Analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Error("Failed to encode report", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *out != "" {
		if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
			logger.Error("Cannot create output directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := os.WriteFile(*out, encoded, 0644); err != nil {
			logger.Error("Cannot write report", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Report written", slog.String("path", *out))
		return
	}

	fmt.Println(string(encoded))
}
