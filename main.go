package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/crestline-bio/chemtab/pkg/config"
	"github.com/crestline-bio/chemtab/pkg/entity"
	"github.com/crestline-bio/chemtab/pkg/pipeline"
	"github.com/crestline-bio/chemtab/pkg/qc"
	"github.com/crestline-bio/chemtab/pkg/report"
	"github.com/crestline-bio/chemtab/pkg/transport"
	"github.com/crestline-bio/chemtab/pkg/writer"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	entityName := flag.String("entity", "", "entity to extract (required)")
	idFile := flag.String("ids", "", "file with one identifier per line (required)")
	flag.Parse()

	if *entityName == "" || *idFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg, logger, *entityName, *idFile); err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, entityName, idFile string) error {
	descriptors, err := entity.LoadDescriptors(cfg.EntitiesPath)
	if err != nil {
		return err
	}
	registry, err := entity.NewRegistry(descriptors...)
	if err != nil {
		return err
	}
	desc, err := registry.Get(entityName)
	if err != nil {
		return err
	}

	ids, err := readIDs(idFile)
	if err != nil {
		return err
	}

	var policies map[string]*qc.Policy
	if cfg.PoliciesPath != "" {
		policies, err = qc.LoadPolicies(cfg.PoliciesPath)
		if err != nil {
			return err
		}
	}

	fetcher := transport.NewHTTPFetcher(cfg.BaseURL, nil, nil, logger)
	svc := pipeline.NewService(desc, fetcher, cfg.RequestsPerSecond, policies, logger)

	result, err := svc.Run(ctx, ids, pipeline.Options{
		PageSize:          cfg.PageSize,
		FailFast:          cfg.FailFast,
		SeverityThreshold: cfg.SeverityThreshold,
	})
	if err != nil {
		return err
	}

	if err := writeOutputs(cfg.OutputDir, desc, result); err != nil {
		return err
	}

	if !result.Passed {
		names := make([]string, 0, len(result.FailingMetrics))
		for _, m := range result.FailingMetrics {
			names = append(names, m.Name)
		}
		return fmt.Errorf("quality gate failed: %s", strings.Join(names, ", "))
	}

	logger.Info("run complete",
		zap.String("run_id", result.RunID.String()),
		zap.Int("rows", len(result.Rows)))
	return nil
}

func writeOutputs(outputDir string, desc *entity.Descriptor, result *pipeline.Result) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	dataPath := filepath.Join(outputDir, desc.Name+".csv")
	f, err := os.Create(dataPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dataPath, err)
	}
	defer f.Close()

	columns := make([]string, 0, len(desc.Columns))
	for col := range desc.Columns {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	w := writer.NewCSVWriter(f, columns)
	if err := w.WriteRows(result.Rows); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	md := report.Markdown(desc.Name, result.Registry.Summary(), result.Diagnostics)
	reportPath := filepath.Join(outputDir, desc.Name+"_qc.md")
	if err := os.WriteFile(reportPath, []byte(md), 0o644); err != nil {
		return fmt.Errorf("failed to write QC report: %w", err)
	}
	return nil
}

func readIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open id file: %w", err)
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		ids = append(ids, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read id file: %w", err)
	}
	return ids, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logCfg := zap.NewProductionConfig()
	logCfg.Level = zap.NewAtomicLevelAt(lvl)
	return logCfg.Build()
}
