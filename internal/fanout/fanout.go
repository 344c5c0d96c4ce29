// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fanout runs a set of named tasks concurrently and joins all of
// their outcomes. One task failing never cancels its siblings; the caller
// receives every outcome and decides what a partial result means.
package fanout

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxWorkers bounds concurrency when the caller does not.
const DefaultMaxWorkers = 8

// Task is one unit of concurrent work. Name must be unique within a batch.
type Task struct {
	Name string
	Run  func(ctx context.Context) (map[string]any, error)
}

// Outcome is the result of one task.
type Outcome struct {
	Value map[string]any
	Err   error
}

// Executor runs task batches with a shared concurrency cap.
type Executor struct {
	maxWorkers int
	logger     *zap.Logger
}

// New builds an executor. maxWorkers <= 0 selects DefaultMaxWorkers.
func New(maxWorkers int, logger *zap.Logger) *Executor {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{maxWorkers: maxWorkers, logger: logger}
}

// Execute runs all tasks and returns one outcome per task name. It always
// returns a complete map: a task that fails or panics contributes an
// error outcome, never a missing key. Execute itself errors only on
// duplicate task names.
func (e *Executor) Execute(ctx context.Context, tasks []Task) (map[string]Outcome, error) {
	outcomes := make(map[string]Outcome, len(tasks))
	for _, t := range tasks {
		if _, dup := outcomes[t.Name]; dup {
			return nil, fmt.Errorf("duplicate task name %q", t.Name)
		}
		outcomes[t.Name] = Outcome{}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxWorkers)

	for _, t := range tasks {
		g.Go(func() error {
			value, err := e.runOne(gctx, t)
			mu.Lock()
			outcomes[t.Name] = Outcome{Value: value, Err: err}
			mu.Unlock()
			if err != nil {
				e.logger.Warn("task failed",
					zap.String("task", t.Name),
					zap.Error(err))
			}
			// Never propagate: siblings keep running.
			return nil
		})
	}

	g.Wait()
	return outcomes, nil
}

// runOne invokes a task, converting a panic into an error at the task
// boundary so one bad responder cannot take down the batch.
func (e *Executor) runOne(ctx context.Context, t Task) (value map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v\n%s", t.Name, r, debug.Stack())
		}
	}()
	return t.Run(ctx)
}
