package core

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"pycompat/internal/ports"
	"pycompat/internal/types"
)

const defaultAggregateWorkers = 16

// aggregateTask is one keyed store read: a self check when other is
// empty, a pairwise check otherwise.
type aggregateTask struct {
	pkg   string
	other string
}

type aggregateOutcome struct {
	task   aggregateTask
	result types.CompatibilityResult
	found  bool
}

// Aggregator combines self and pairwise compatibility results across a
// package set into per-package summaries. Reads are keyed
// independently and issued through a bounded worker pool; per-key
// failures degrade to absent rather than failing the aggregation.
type Aggregator struct {
	store   ports.StorePort
	workers int
}

func NewAggregator(store ports.StorePort) *Aggregator {
	return &Aggregator{store: store, workers: defaultAggregateWorkers}
}

// Aggregate builds a summary for every package in the set: N self
// lookups plus one lookup per unordered pair. The result is
// independent of the input ordering.
func (a *Aggregator) Aggregate(ctx context.Context, packages []string, py types.PyVersion) map[string]types.PackageSummary {
	tasks := make([]aggregateTask, 0, len(packages)*(len(packages)+1)/2)
	for _, pkg := range packages {
		tasks = append(tasks, aggregateTask{pkg: pkg})
	}
	for i, pkg := range packages {
		for _, other := range packages[i+1:] {
			if other == pkg {
				continue
			}
			tasks = append(tasks, aggregateTask{pkg: pkg, other: other})
		}
	}

	outcomes := a.readAll(ctx, py, tasks)

	summaries := make(map[string]types.PackageSummary, len(packages))
	for _, pkg := range packages {
		summaries[pkg] = types.PackageSummary{
			Package:    pkg,
			Status:     types.StatusUnknown,
			SelfStatus: types.StatusUnknown,
		}
	}
	for _, outcome := range outcomes {
		if outcome.task.other == "" {
			applySelf(summaries, outcome)
			continue
		}
		applyPair(summaries, outcome.task.pkg, outcome)
		applyPair(summaries, outcome.task.other, outcome)
	}
	for pkg, summary := range summaries {
		sort.Slice(summary.Pairs, func(i, j int) bool {
			return summary.Pairs[i].Other < summary.Pairs[j].Other
		})
		summary.Status = summary.SelfStatus
		for _, pair := range summary.Pairs {
			summary.Status = summary.Status.Combine(pair.Status)
		}
		summaries[pkg] = summary
	}
	return summaries
}

// readAll fans the keyed reads out over the worker pool and collects
// every outcome. A read error is logged and reported as absent.
func (a *Aggregator) readAll(ctx context.Context, py types.PyVersion, tasks []aggregateTask) []aggregateOutcome {
	workerCount := a.workers
	if len(tasks) < workerCount {
		workerCount = len(tasks)
	}
	if workerCount == 0 {
		return nil
	}
	queue := make(chan aggregateTask)
	results := make(chan aggregateOutcome, len(tasks))
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				results <- a.read(ctx, py, task)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	for _, task := range tasks {
		queue <- task
	}
	close(queue)

	outcomes := make([]aggregateOutcome, 0, len(tasks))
	for outcome := range results {
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func (a *Aggregator) read(ctx context.Context, py types.PyVersion, task aggregateTask) aggregateOutcome {
	var (
		result types.CompatibilityResult
		found  bool
		err    error
	)
	if task.other == "" {
		result, found, err = a.store.GetSelfStatus(ctx, task.pkg, py)
	} else {
		result, found, err = a.store.GetPairwiseStatus(ctx, task.pkg, task.other, py)
	}
	if err != nil {
		log.Warn().
			Err(err).
			Str("package", task.pkg).
			Str("other", task.other).
			Msg("store read failed, treating as absent")
		return aggregateOutcome{task: task}
	}
	return aggregateOutcome{task: task, result: result, found: found}
}

func applySelf(summaries map[string]types.PackageSummary, outcome aggregateOutcome) {
	summary, ok := summaries[outcome.task.pkg]
	if !ok {
		return
	}
	if outcome.found {
		summary.SelfStatus = outcome.result.Status
		summary.SelfDetails = outcome.result.Details
	}
	summaries[outcome.task.pkg] = summary
}

func applyPair(summaries map[string]types.PackageSummary, pkg string, outcome aggregateOutcome) {
	summary, ok := summaries[pkg]
	if !ok {
		return
	}
	other := outcome.task.other
	if pkg == outcome.task.other {
		other = outcome.task.pkg
	}
	pair := types.PairStatus{Other: other, Status: types.StatusUnknown}
	if outcome.found {
		pair.Status = outcome.result.Status
		pair.Details = outcome.result.Details
	}
	summary.Pairs = append(summary.Pairs, pair)
	summaries[pkg] = summary
}
