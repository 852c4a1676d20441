package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"pycompat/internal/core"
	"pycompat/internal/shared"
	"pycompat/internal/types"
)

const defaultRefreshWorkers = 8

type checkTask struct {
	packages []string
	py       types.PyVersion
}

type checkOutcome struct {
	task  checkTask
	check types.CheckResult
	err   error
}

// Refresh runs fresh self and pairwise compatibility checks for every
// tracked package and writes the outcomes to the store. Checker
// failures are recorded as UNKNOWN rows rather than aborting the run;
// a conflict can only come from a completed check.
func (s Service) Refresh(ctx context.Context, req RefreshRequest) (RefreshResult, error) {
	packages, _, err := s.resolvePortfolio(req.PortfolioPath, req.Packages)
	if err != nil {
		return RefreshResult{}, err
	}
	pyVersions := req.PyVersions
	if len(pyVersions) == 0 {
		pyVersions = types.AllPyVersions
	}

	tasks := buildCheckTasks(packages, pyVersions)
	outcomes := s.runChecks(ctx, tasks, req.Workers)

	result := RefreshResult{Packages: len(packages)}
	best := map[string]types.CheckResult{}
	versions := core.NewVersionComparator()
	for _, outcome := range outcomes {
		result.Checked++
		row := types.CompatibilityResult{
			Packages:  outcome.task.packages,
			PyVersion: outcome.task.py,
			Status:    outcome.check.Result,
			Details:   outcome.check.Description,
			Timestamp: s.Clock(),
		}
		if outcome.err != nil {
			result.Failed++
			row.Status = types.StatusUnknown
			row.Details = outcome.err.Error()
			log.Warn().
				Strs("packages", outcome.task.packages).
				Str("py", string(outcome.task.py)).
				Err(outcome.err).
				Msg("compatibility check failed")
		}
		if len(outcome.task.packages) == 1 {
			if err := s.Store.PutSelfStatus(ctx, row); err != nil {
				return RefreshResult{}, err
			}
			recordBestCheck(best, versions, outcome.task.packages[0], outcome)
			continue
		}
		if err := s.Store.PutPairwiseStatus(ctx, row); err != nil {
			return RefreshResult{}, err
		}
	}

	for name, check := range best {
		edges := check.Edges(name)
		if len(edges) == 0 {
			continue
		}
		if err := s.Store.PutDependencyEdges(ctx, edges); err != nil {
			return RefreshResult{}, err
		}
	}
	return result, nil
}

// buildCheckTasks enumerates one self check per package and one check
// per unordered pair, for each python version.
func buildCheckTasks(packages []string, pyVersions []types.PyVersion) []checkTask {
	tasks := make([]checkTask, 0, len(pyVersions)*len(packages)*(len(packages)+1)/2)
	for _, py := range pyVersions {
		for i, pkg := range packages {
			tasks = append(tasks, checkTask{packages: []string{pkg}, py: py})
			for _, other := range packages[i+1:] {
				pair := []string{pkg, other}
				tasks = append(tasks, checkTask{packages: pair, py: py})
			}
		}
	}
	return tasks
}

func (s Service) runChecks(ctx context.Context, tasks []checkTask, workers int) []checkOutcome {
	if workers <= 0 {
		workers = defaultRefreshWorkers
	}
	if len(tasks) < workers {
		workers = len(tasks)
	}
	if workers == 0 {
		return nil
	}
	work := make(chan checkTask)
	results := make(chan checkOutcome, len(tasks))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range work {
				if ctx.Err() != nil {
					results <- checkOutcome{task: task, err: ctx.Err()}
					continue
				}
				check, err := s.Checker.Check(ctx, task.packages, task.py)
				results <- checkOutcome{task: task, check: check, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	for _, task := range tasks {
		work <- task
	}
	close(work)

	outcomes := make([]checkOutcome, 0, len(tasks))
	for outcome := range results {
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// recordBestCheck keeps, per package, the self check whose installed
// version of the package itself is highest. Release-time rows are
// written once per package from that check, so a stale py2 environment
// cannot overwrite snapshots taken from a newer install.
func recordBestCheck(best map[string]types.CheckResult, versions *core.VersionComparator, name string, outcome checkOutcome) {
	if outcome.err != nil || len(outcome.check.DependencyInfo) == 0 {
		return
	}
	current, ok := best[name]
	if !ok {
		best[name] = outcome.check
		return
	}
	if versions.Newer(ownVersion(outcome.check, name), ownVersion(current, name)) {
		best[name] = outcome.check
	}
}

// ownVersion returns the installed version of the checked package from
// its own dependency-info row.
func ownVersion(check types.CheckResult, name string) string {
	normalized := shared.NormalizePipName(shared.StripExtras(name))
	for dep, info := range check.DependencyInfo {
		if shared.NormalizePipName(dep) == normalized {
			return info.InstalledVersion
		}
	}
	return ""
}
