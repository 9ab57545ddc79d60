// Package jobs runs the scheduled background work of the server.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/restaurante/backend/internal/metrics"
	"github.com/restaurante/backend/internal/models"
)

// LowStockJobName labels the low-stock job in logs and metrics.
const LowStockJobName = "low_stock"

// LowStockReporter lists the stock rows at or below their minimum level.
type LowStockReporter interface {
	LowStock(ctx context.Context) ([]models.LowStock, error)
}

// LowStockJob logs the ingredients that need restocking and publishes
// their count.
type LowStockJob struct {
	reporter LowStockReporter
	metrics  *metrics.Metrics
	timeout  time.Duration
}

// NewLowStockJob creates the job. m may be nil.
func NewLowStockJob(reporter LowStockReporter, m *metrics.Metrics) *LowStockJob {
	return &LowStockJob{reporter: reporter, metrics: m, timeout: 30 * time.Second}
}

// Run checks the stock once.
func (j *LowStockJob) Run(ctx context.Context) ([]models.LowStock, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	rows, err := j.reporter.LowStock(ctx)
	if j.metrics != nil {
		j.metrics.RecordJobRun(LowStockJobName, err == nil, time.Since(start))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check low stock: %w", err)
	}

	if j.metrics != nil {
		j.metrics.SetLowStockItems(len(rows))
	}
	for _, row := range rows {
		slog.Warn("Ingredient below minimum stock",
			"id_estoque", row.ID,
			"ingrediente", row.IngredientName,
			"quantidade", row.Quantity.String(),
			"limite_minimo", row.MinimumLevel.String(),
			"unidade_medida", row.Unit,
		)
	}
	slog.Info("Low stock check done", "count", len(rows), "duration_ms", time.Since(start).Milliseconds())
	return rows, nil
}

// Scheduler runs jobs on cron schedules.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates a scheduler that recovers from panics and skips a
// run while the previous one is still going.
func NewScheduler() *Scheduler {
	logger := cronLogger{}
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(logger),
			cron.SkipIfStillRunning(logger),
		), cron.WithLogger(logger)),
	}
}

// AddLowStock schedules job with spec, a cron expression or a descriptor
// such as "@every 1h".
func (s *Scheduler) AddLowStock(spec string, job *LowStockJob) error {
	_, err := s.cron.AddFunc(spec, func() {
		if _, err := job.Run(context.Background()); err != nil {
			slog.Error("Scheduled job failed", "job", LowStockJobName, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// cronLogger forwards cron's own logs to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
