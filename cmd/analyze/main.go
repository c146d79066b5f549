package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"deinfluencer/internal/authenticity"
	"deinfluencer/internal/logging"
	"deinfluencer/internal/models"
	"deinfluencer/internal/services"
	"deinfluencer/internal/source"
)

func main() {
	file := flag.String("file", "", "Path to a payload JSON file ({\"profile\": ..., \"posts\": [...]}); reads stdin when empty")
	fixtures := flag.String("fixtures", "", "Fixture directory to look the profile up in instead of -file")
	username := flag.String("user", "", "Username to look up in -fixtures")
	platform := flag.String("platform", "", "Platform override (instagram, tiktok, youtube, twitter)")
	pretty := flag.Bool("pretty", false, "Indent the JSON output")
	detailed := flag.Bool("detailed", false, "Include the engagement pattern and content quality breakdowns")
	logLevel := flag.String("log-level", "warn", "Log level")
	flag.Parse()

	logger := logging.NewLoggerTo(os.Stderr, *logLevel)
	log := logging.WithService(logger, "deinfluencer-analyze")

	engine := authenticity.NewAnalyzer(authenticity.WithLogger(log))
	analysisService := services.NewAnalysisService(nil, engine, source.NewFileSource(*fixtures), log)

	ctx := context.Background()
	var (
		outcome *services.AnalysisOutcome
		err     error
	)
	if *fixtures != "" && *username != "" {
		lookup := models.Platform(*platform)
		if lookup == "" {
			lookup = models.PlatformInstagram
		}
		outcome, err = analysisService.AnalyzeUsername(ctx, nil, lookup, *username, services.TriggerCLI)
	} else {
		var payload *models.AnalysisPayload
		payload, err = readPayload(*file)
		if err != nil {
			log.WithError(err).Fatal("failed to read payload")
		}
		if *platform != "" {
			payload.Profile.Platform = models.Platform(*platform)
		}
		outcome, err = analysisService.AnalyzePayload(ctx, nil, payload, services.TriggerCLI)
	}
	if err != nil {
		log.WithError(err).Fatal("analysis failed")
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	var out interface{} = outcome.Response()
	if *detailed {
		out = struct {
			models.AnalysisResponse
			EngagementPattern interface{} `json:"engagement_pattern"`
			ContentQuality    interface{} `json:"content_quality"`
		}{outcome.Response(), outcome.Report.EngagementPattern, outcome.Report.ContentQuality}
	}
	if err := enc.Encode(out); err != nil {
		log.WithError(err).WithField("output", "stdout").Fatal("failed to write result")
	}
}

func readPayload(path string) (*models.AnalysisPayload, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var payload models.AnalysisPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	return &payload, nil
}
