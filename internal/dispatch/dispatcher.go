// Package dispatch pushes a validated batch of records into the remote list.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hrsuite/bulkupload/internal/domain"
	"github.com/hrsuite/bulkupload/internal/sharepoint"
)

// Strategy selects how a batch reaches the store.
type Strategy string

const (
	// StrategySequential writes one record at a time, in input order, with
	// per-item progress updates.
	StrategySequential Strategy = "sequential"
	// StrategyParallel writes every record concurrently with no throughput
	// limit; progress jumps straight from 0 to 1 on completion.
	StrategyParallel Strategy = "parallel"
)

var (
	// ErrUnknownStrategy is returned for a strategy value the dispatcher
	// does not support.
	ErrUnknownStrategy = errors.New("unknown dispatch strategy")

	// ErrEmptyBatch is returned when there is nothing to dispatch.
	ErrEmptyBatch = errors.New("empty batch")
)

// ParseStrategy maps a wire value onto a Strategy, ignoring case.
func ParseStrategy(value string) (Strategy, error) {
	switch Strategy(strings.ToLower(value)) {
	case StrategySequential:
		return StrategySequential, nil
	case StrategyParallel:
		return StrategyParallel, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, value)
	}
}

// ItemWriter is the single store operation the dispatcher needs.
type ItemWriter interface {
	CreateItem(ctx context.Context, listName string, record domain.Employee) (sharepoint.Item, error)
}

// ProgressFunc receives the completed fraction of the current batch, in [0,1].
type ProgressFunc func(fraction float64)

// Outcome records one item's write attempt.
type Outcome struct {
	Index int
	Err   error
}

// Result summarizes a completed batch. Per-item failures are captured here
// rather than raised: a failed write never blocks its siblings and is never
// retried.
type Result struct {
	Outcomes  []Outcome
	Succeeded int
	Failed    int
}

// Dispatcher writes record batches to one list.
type Dispatcher struct {
	store    ItemWriter
	listName string
	logger   *zap.Logger
}

// New builds a dispatcher bound to the named list.
func New(store ItemWriter, listName string, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{store: store, listName: listName, logger: logger}
}

// Dispatch runs the batch under the chosen strategy and reports the per-item
// outcomes. The error return covers batch-level problems only (empty input,
// unknown strategy); individual write failures live in the Result.
func (d *Dispatcher) Dispatch(ctx context.Context, records []domain.Employee, strategy Strategy, onProgress ProgressFunc) (Result, error) {
	if len(records) == 0 {
		return Result{}, ErrEmptyBatch
	}
	switch strategy {
	case StrategySequential:
		return d.sequential(ctx, records, onProgress), nil
	case StrategyParallel:
		return d.parallel(ctx, records, onProgress), nil
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

func (d *Dispatcher) sequential(ctx context.Context, records []domain.Employee, onProgress ProgressFunc) Result {
	total := len(records)
	outcomes := make([]Outcome, total)
	for i, record := range records {
		_, err := d.store.CreateItem(ctx, d.listName, record)
		outcomes[i] = Outcome{Index: i, Err: err}
		if err != nil {
			d.logger.Error("item write failed",
				zap.Int("index", i),
				zap.String("employee", record.FullName()),
				zap.Error(err))
		}
		if onProgress != nil {
			onProgress(float64(i+1) / float64(total))
		}
	}
	return summarize(outcomes)
}

func (d *Dispatcher) parallel(ctx context.Context, records []domain.Employee, onProgress ProgressFunc) Result {
	outcomes := make([]Outcome, len(records))
	var group errgroup.Group
	for i, record := range records {
		group.Go(func() error {
			_, err := d.store.CreateItem(ctx, d.listName, record)
			outcomes[i] = Outcome{Index: i, Err: err}
			if err != nil {
				d.logger.Error("item write failed",
					zap.Int("index", i),
					zap.String("employee", record.FullName()),
					zap.Error(err))
			}
			// Failures stay isolated; never fail the group.
			return nil
		})
	}
	_ = group.Wait()
	if onProgress != nil {
		onProgress(1)
	}
	return summarize(outcomes)
}

func summarize(outcomes []Outcome) Result {
	result := Result{Outcomes: outcomes}
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			result.Failed++
		} else {
			result.Succeeded++
		}
	}
	return result
}
