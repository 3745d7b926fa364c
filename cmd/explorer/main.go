package main

import (
	"flag"
	"fmt"
	"os"

	"SurveyPulse/src/config"
	"SurveyPulse/src/datasource/file"
	"SurveyPulse/src/report"
	"SurveyPulse/src/storage"
)

func main() {
	configDir := flag.String("config", "./config", "directorio con config.json y surveyconfig.json")
	flag.Parse()

	cfg, scfg, err := config.LoadConfig(*configDir, "config.json", "surveyconfig.json")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logName := cfg.LogName
	if logName == "" {
		logName = "explorer.log"
	}
	logger, err := storage.NewLogger(logName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info(fmt.Sprintf("exploring data directory %s", cfg.DataDir))

	reports, err := file.ExploreDir(cfg.DataDir, scfg.SheetName)
	if err != nil {
		logger.Error(err.Error())
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	report.WriteExploration(os.Stdout, cfg.DataDir, reports)

	for _, r := range reports {
		if r.Err != nil {
			logger.Warning(fmt.Sprintf("could not read %s: %v", r.File, r.Err))
		}
	}
	logger.Info(fmt.Sprintf("exploration finished, %d entries", len(reports)))
}
