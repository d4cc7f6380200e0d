package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crestline-bio/chemtab/pkg/client"
	"github.com/crestline-bio/chemtab/pkg/encode"
	"github.com/crestline-bio/chemtab/pkg/entity"
	"github.com/crestline-bio/chemtab/pkg/hashing"
	"github.com/crestline-bio/chemtab/pkg/qc"
)

// Result is the outcome of one pipeline run: the hashed rows, the sealed
// QC registry, and the batch gate decision. Exit-status policy stays with
// the caller.
type Result struct {
	RunID          uuid.UUID
	Entity         string
	Rows           []hashing.HashedRow
	DroppedDupes   int
	Registry       *qc.Registry
	Diagnostics    *encode.Diagnostics
	FailingMetrics []*qc.Metric
	Passed         bool
}

// Options configures one pipeline run.
type Options struct {
	PageSize          int
	FailFast          bool
	SeverityThreshold string
	// NullRateColumns lists the columns whose null rate is measured.
	// Empty means the entity's business key columns.
	NullRateColumns []string
}

// Service runs the fetch → encode → hash → QC pipeline for one entity.
type Service interface {
	// Run retrieves the records for ids and produces quality-gated hashed
	// rows. Duplicate business keys after the first occurrence are dropped.
	Run(ctx context.Context, ids []string, opts Options) (*Result, error)
}

type service struct {
	desc     *entity.Descriptor
	fetcher  client.PageFetcher
	rps      float64
	policies map[string]*qc.Policy
	logger   *zap.Logger
}

// NewService creates a pipeline service for one entity.
func NewService(
	desc *entity.Descriptor,
	fetcher client.PageFetcher,
	requestsPerSecond float64,
	policies map[string]*qc.Policy,
	logger *zap.Logger,
) Service {
	return &service{
		desc:     desc,
		fetcher:  fetcher,
		rps:      requestsPerSecond,
		policies: policies,
		logger:   logger,
	}
}

var _ Service = (*service)(nil)

func (s *service) Run(ctx context.Context, ids []string, opts Options) (*Result, error) {
	runID := uuid.New()
	logger := s.logger.With(
		zap.String("run_id", runID.String()),
		zap.String("entity", s.desc.Name))

	encoder := encode.NewEncoder(s.desc, opts.FailFast, logger)
	c := client.NewClient(s.desc, s.fetcher, s.rps, logger)

	var rows []hashing.HashedRow
	seenKeys := make(map[string]bool)
	dropped := 0

	it := c.IterateByIDs(ctx, ids, opts.PageSize)
	for it.Next() {
		row, err := encoder.EncodeRecord(it.Record())
		if err != nil {
			return nil, fmt.Errorf("encoding failed: %w", err)
		}
		hashed := hashing.Hash(row, s.desc.BusinessKey)
		if hashed.BusinessKeyHash != "" {
			if seenKeys[hashed.BusinessKeyHash] {
				dropped++
				continue
			}
			seenKeys[hashed.BusinessKeyHash] = true
		}
		rows = append(rows, hashed)
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	logger.Info("batch encoded",
		zap.Int("rows", len(rows)),
		zap.Int("duplicates_dropped", dropped))

	registry, err := s.evaluate(rows, encoder.Diagnostics(), opts)
	if err != nil {
		return nil, err
	}

	threshold := opts.SeverityThreshold
	if threshold == "" {
		threshold = qc.SeverityError
	}
	failing := registry.FailingMetrics(threshold, nil)

	return &Result{
		RunID:          runID,
		Entity:         s.desc.Name,
		Rows:           rows,
		DroppedDupes:   dropped,
		Registry:       registry,
		Diagnostics:    encoder.Diagnostics(),
		FailingMetrics: failing,
		Passed:         len(failing) == 0,
	}, nil
}

func (s *service) evaluate(rows []hashing.HashedRow, diags *encode.Diagnostics, opts Options) (*qc.Registry, error) {
	registry := qc.NewRegistry(s.policies, s.logger)

	metrics := []*qc.Metric{
		qc.RowCountMetric(rows),
		qc.DuplicateKeyRateMetric(rows),
		qc.UnknownRelationMetric(diags),
		qc.UnknownUnitMetric(diags),
	}
	nullCols := opts.NullRateColumns
	if len(nullCols) == 0 {
		nullCols = s.desc.BusinessKey
	}
	for _, col := range nullCols {
		metrics = append(metrics, qc.NullRateMetric(rows, col))
	}

	for _, m := range metrics {
		if err := registry.Add(m); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	registry.Seal()
	return registry, nil
}
