package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/org-portal/modules/ingest/domain/feed"
	peopleservices "github.com/iota-uz/org-portal/modules/people/services"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

// ingestLockKey serializes concurrent ingests on one advisory lock. The
// lock is transaction-scoped so every exit path releases it.
const ingestLockKey = 0x6f72675f696e67 // "org_ing"

var ingestRows = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "org_portal_ingest_rows_total",
	Help: "Number of ingested feed rows, by feed type and outcome.",
}, []string{"feed", "outcome"})

// Reconciler applies one parsed feed inside the batch transaction and
// returns the applied row count plus per-row skip reports.
type Reconciler interface {
	Apply(ctx context.Context, table *feed.Table, mode feed.Mode) (int, []serrors.RowReport, error)
}

// Request is one ingest invocation. Multiple tables run in order; after
// the first one the mode is forced to append so the batch stays coherent.
type Request struct {
	Type   feed.Type
	Mode   feed.Mode
	Tables []*feed.Table
	DryRun bool
}

// Report summarizes a committed (or dry-run) batch.
type Report struct {
	Applied int                 `json:"applied"`
	Skipped []serrors.RowReport `json:"skipped"`
	DryRun  bool                `json:"dry_run"`
}

// IngestService runs bulk feeds against the domain in a single
// transaction on a single session. Row-level problems are collected and
// never abort the batch; storage failures roll everything back and
// surface as a BatchError carrying what had been applied.
type IngestService struct {
	reconcilers map[feed.Type]Reconciler
	rollups     *peopleservices.RollupService
}

func NewIngestService(
	people Reconciler,
	services Reconciler,
	dependencies Reconciler,
	rollups *peopleservices.RollupService,
) *IngestService {
	return &IngestService{
		reconcilers: map[feed.Type]Reconciler{
			feed.TypeOrganization: people,
			feed.TypeServices:     services,
			feed.TypeDependencies: dependencies,
		},
		rollups: rollups,
	}
}

func (s *IngestService) Ingest(ctx context.Context, req Request) (Report, error) {
	reconciler, ok := s.reconcilers[req.Type]
	if !ok {
		return Report{}, serrors.Validation("FEED_TYPE_UNKNOWN", "unknown feed type").WithField("data_type")
	}
	if len(req.Tables) == 0 {
		return Report{}, serrors.Validation("FEED_EMPTY", "no tables to ingest").WithField("file")
	}

	pool, err := composables.UsePool(ctx)
	if err != nil {
		return Report{}, err
	}
	tx, err := pool.Begin(ctx)
	if err != nil {
		return Report{}, err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			composables.UseLogger(ctx).WithError(rErr).Error("ingest rollback failed")
		}
	}()
	txCtx := composables.WithTx(ctx, tx)

	if _, err := tx.Exec(txCtx, `SELECT pg_advisory_xact_lock($1)`, int64(ingestLockKey)); err != nil {
		return Report{}, fmt.Errorf("acquire ingest lock: %w", err)
	}

	report := Report{DryRun: req.DryRun, Skipped: []serrors.RowReport{}}
	mode := req.Mode
	for i, table := range req.Tables {
		if i > 0 {
			mode = feed.ModeAppend
		}
		applied, skipped, err := reconciler.Apply(txCtx, table, mode)
		report.Applied += applied
		report.Skipped = append(report.Skipped, skipped...)
		if err != nil {
			return Report{}, serrors.NewBatchError(report.Applied, report.Skipped, err)
		}
	}

	if req.Type == feed.TypeOrganization {
		if err := s.rollups.RecomputeAll(txCtx); err != nil {
			return Report{}, serrors.NewBatchError(report.Applied, report.Skipped, err)
		}
	}

	if req.DryRun {
		s.count(req.Type, report)
		return report, tx.Rollback(ctx)
	}
	if err := tx.Commit(ctx); err != nil {
		return Report{}, serrors.NewBatchError(report.Applied, report.Skipped, err)
	}

	s.count(req.Type, report)
	composables.UseLogger(ctx).WithFields(logrus.Fields{
		"feed":    req.Type,
		"applied": report.Applied,
		"skipped": len(report.Skipped),
		"dry_run": req.DryRun,
	}).Info("ingest finished")
	return report, nil
}

func (s *IngestService) count(feedType feed.Type, report Report) {
	ingestRows.WithLabelValues(string(feedType), "applied").Add(float64(report.Applied))
	ingestRows.WithLabelValues(string(feedType), "skipped").Add(float64(len(report.Skipped)))
}
