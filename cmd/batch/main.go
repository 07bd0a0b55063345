package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/batch"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/medsummary"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/prechecks"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/report"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/scenario"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/setup"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/setup/logger"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/store"
	"github.com/rs/zerolog/log"
)

func main() {
	startTime := time.Now()

	input := flag.String("input", "", "Input file: MedSummary CSV (.csv) or JSONL grade requests, '-' for JSONL on stdin")
	output := flag.String("output", "", "Output file relative path (stdout when empty)")
	format := flag.String("format", batch.FormatJSONL, "Output file format. Supported formats: 'jsonl', 'summary'")
	summary := flag.String("summary", "", "Optional separate summary table file")
	tasks := flag.String("tasks", "", "Comma separated tasks to grade (all when empty)")
	workers := flag.Int("workers", 5, "Concurrent items in flight")
	runID := flag.String("run-id", "", "Run identifier (generated when empty)")
	dryRun := flag.Bool("dry-run", false, "Validate input without grading")
	persist := flag.Bool("store", false, "Persist results and the run report to Postgres")
	replay := flag.String("replay", "", "JSONL recordings answering judges with provider 'replay'")
	replayAll := flag.Bool("replay-all", false, "Answer every judge from -replay recordings")
	record := flag.String("record", "", "Append every judge answer to this JSONL file")
	reportRun := flag.String("report-run", "", "Print the stored summary of a finished run and exit")

	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	cfg := setup.LoadConfig()
	lg := logger.New(cfg.LogLevel, "console")
	log.Logger = lg

	if *reportRun != "" {
		printStoredReport(cfg, *reportRun)
		return
	}

	if *input == "" {
		lg.Fatal().Msg("required flag -input not provided")
	}
	if *format != batch.FormatJSONL && *format != batch.FormatSummary {
		lg.Fatal().Str("format", *format).Msg("Invalid format. Supported: jsonl, summary")
	}
	if *runID == "" {
		*runID = uuid.NewString()
	}

	ctx, cancel := setupGracefulShutdown()
	defer cancel()

	records, err := readInput(ctx, *input, splitTasks(*tasks))
	if err != nil {
		lg.Fatal().Err(err).Str("file", *input).Msg("Failed to read input")
	}
	lg.Info().Int("total", len(records)).Msg("Input file parsed")

	suspicious := lintRecords(records)
	if suspicious > 0 {
		lg.Warn().Int("items", suspicious).Msg("Items flagged by prechecks are still graded")
	}

	if *dryRun {
		dryRunAndExit(records)
	}

	opts := setup.Options{ReplayAll: *replayAll}
	if *replay != "" {
		f, err := os.Open(*replay)
		if err != nil {
			lg.Fatal().Err(err).Str("file", *replay).Msg("Failed to open recordings")
		}
		opts.Recordings, err = batch.LoadRecordings(f)
		f.Close()
		if err != nil {
			lg.Fatal().Err(err).Msg("Failed to load recordings")
		}
	}
	if *record != "" {
		f, err := os.OpenFile(*record, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			lg.Fatal().Err(err).Str("file", *record).Msg("Failed to open recording file")
		}
		defer f.Close()
		opts.Recorder = batch.NewJSONLRecorder(f)
	}

	deps, err := setup.Wire(ctx, cfg, opts, &lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	var db *store.DB
	if *persist {
		db = openStore(ctx, cfg, *runID, deps)
		defer db.Close()
	}

	// Open output file
	var outputFile io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			lg.Fatal().Err(err).Str("file", *output).Msg("Failed to create output file")
		}
		defer f.Close()
		outputFile = f
		lg.Info().Str("file", *output).Msg("Writing to output file")
	}

	writer, err := batch.NewWriter(outputFile, *format, *runID, deps.Logger)
	if err != nil {
		lg.Fatal().Err(err).Msg("Failed to create writer")
	}

	// Process with worker pool
	processor := batch.NewProcessor(deps.Executor, *workers, *runID, deps.Logger)
	results := processor.Process(ctx, records)

	successCount := 0
	errorCount := 0
	for result := range results {
		if result.Error != "" {
			errorCount++
		} else {
			successCount++
		}

		if err := writer.Write(result); err != nil {
			lg.Error().Err(err).Str("item_id", result.ItemID).Msg("Failed to write result")
		}
		if db != nil && result.Error == "" {
			if err := db.SaveItemResult(ctx, result); err != nil {
				lg.Error().Err(err).Str("item_id", result.ItemID).Msg("Failed to store result")
			}
		}
	}

	if err := writer.Close(); err != nil {
		lg.Error().Err(err).Msg("Failed to close writer")
	}

	runReport := writer.Report()
	runReport.Duration = time.Since(startTime)

	if *summary != "" {
		writeSummary(*summary, runReport)
	}
	if db != nil {
		if err := db.FinishRun(context.WithoutCancel(ctx), *runID, runReport); err != nil {
			lg.Error().Err(err).Msg("Failed to store run report")
		}
	}

	for _, c := range runReport.Criteria {
		event := lg.Info().
			Str("criterion", c.Criterion).
			Int("items", c.Items).
			Float64("mean_score", c.MeanScore).
			Int("defaulted", c.Defaulted).
			Int("tied", c.Tied)
		if c.Agreement != nil {
			event = event.Float64("agreement", c.Agreement.Rate).Float64("cohens_kappa", c.Agreement.CohensKappa)
		}
		event.Msg("Criterion summary")
	}

	lg.Info().
		Str("run_id", *runID).
		Int("success", successCount).
		Int("errors", errorCount).
		Dur("duration", runReport.Duration).
		Msg("Batch processing complete")
}

// readInput loads CSV scenarios through the MedSummary column layout and anything else as JSONL.
func readInput(ctx context.Context, path string, tasks []string) ([]batch.InputRecord, error) {
	var in io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	var records []batch.InputRecord
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		instances, err := scenario.NewReader(medsummary.LabelColumns, &log.Logger).Read(in)
		if err != nil {
			return nil, err
		}
		for _, inst := range instances {
			records = append(records, batch.InputRecord{Request: inst.Request, LineNumber: inst.Row})
		}
	} else {
		for record := range batch.NewReader(in, &log.Logger).ReadAll(ctx) {
			records = append(records, record)
		}
	}

	if len(tasks) > 0 {
		for i := range records {
			if len(records[i].Request.Tasks) == 0 {
				records[i].Request.Tasks = tasks
			}
		}
	}
	return records, nil
}

func splitTasks(s string) []string {
	var tasks []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

func openStore(ctx context.Context, cfg *setup.Config, runID string, deps *setup.Dependencies) *store.DB {
	db, err := store.New(ctx, cfg.Postgres, deps.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Postgres")
	}
	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create schema")
	}
	if err := db.SaveRun(ctx, store.Run{
		ID:        runID,
		Scenario:  medsummary.ScenarioName,
		Tasks:     deps.Executor.Tasks(),
		Judges:    deps.Panel.Keys(),
		StartedAt: time.Now(),
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to save run")
	}
	return db
}

// printStoredReport recomputes a run summary from Postgres and prints it as a table.
func printStoredReport(cfg *setup.Config, runID string) {
	ctx := context.Background()
	db, err := store.New(ctx, cfg.Postgres, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Postgres")
	}
	defer db.Close()

	criteria, err := db.GetRunSummary(ctx, runID)
	if err != nil {
		log.Fatal().Err(err).Str("run_id", runID).Msg("Failed to load run summary")
	}
	if len(criteria) == 0 {
		log.Warn().Str("run_id", runID).Msg("No stored scores for run")
	}

	r := report.Report{RunID: runID, Criteria: criteria}
	for _, c := range criteria {
		r.Items = max(r.Items, c.Items)
	}
	if err := report.WriteTable(os.Stdout, r); err != nil {
		log.Fatal().Err(err).Msg("Failed to print report")
	}
}

func setupGracefulShutdown() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Warn().Msg("Received interrupt signal, finishing current work...")
		cancel()
	}()

	return ctx, cancel
}

func writeSummary(path string, r report.Report) {
	summaryFile, err := os.Create(path)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("Failed to create summary file")
		return
	}
	defer summaryFile.Close()

	if err := report.WriteTable(summaryFile, r); err != nil {
		log.Error().Err(err).Str("file", path).Msg("Failed to write summary")
		return
	}
	log.Info().Str("file", path).Msg("Summary written")
}

// lintRecords logs precheck warnings and returns how many items had any.
func lintRecords(records []batch.InputRecord) int {
	runner := prechecks.NewDefaultRunner()
	flagged := 0
	for _, record := range records {
		if record.Error != nil {
			continue
		}
		warnings := runner.Warnings(record.Request)
		if len(warnings) == 0 {
			continue
		}
		flagged++
		for _, w := range warnings {
			log.Warn().
				Int("line", record.LineNumber).
				Str("item_id", record.Request.ItemID).
				Str("check", w.Name).
				Float64("score", w.Score).
				Msg(w.Reason)
		}
	}
	return flagged
}

func dryRunAndExit(records []batch.InputRecord) {
	errorCount := 0
	for _, record := range records {
		if record.Error != nil {
			log.Error().
				Int("line", record.LineNumber).
				Err(record.Error).
				Msg("Validation error")
			errorCount++
		}
	}

	if errorCount > 0 {
		log.Fatal().Int("errors", errorCount).Msg("Validation failed")
	}

	log.Info().Msg("Validation successful")
	os.Exit(0)
}
