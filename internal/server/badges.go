package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"pycompat/internal/adapters"
	"pycompat/internal/app"
	"pycompat/internal/core"
	"pycompat/internal/policies"
	"pycompat/internal/types"
)

const (
	badgeKindSelf       = "self"
	badgeKindPair       = "pair"
	badgeKindDependency = "dependency"
)

// portfolio loads the tracked-package configuration once per server.
func (s *Server) portfolio() types.Portfolio {
	s.portfolioOnce.Do(func() {
		if strings.TrimSpace(s.PortfolioPath) == "" {
			return
		}
		loaded, err := s.Service.Portfolio.Load(s.PortfolioPath)
		if err != nil {
			log.Warn().Str("path", s.PortfolioPath).Err(err).Msg("portfolio load failed")
			return
		}
		s.loadedPortfolio = loaded
	})
	return s.loadedPortfolio
}

// selfResults returns the stored self status per python version,
// falling back to a live check when the store has no row. Failures
// surface as UNKNOWN so a badge always renders.
func (s *Server) selfResults(ctx context.Context, pkg string) map[types.PyVersion]types.CompatibilityResult {
	results := make(map[types.PyVersion]types.CompatibilityResult, len(types.AllPyVersions))
	for _, py := range types.AllPyVersions {
		row, found, err := s.Service.Store.GetSelfStatus(ctx, pkg, py)
		if err != nil {
			log.Warn().Str("package", pkg).Str("py", string(py)).Err(err).Msg("self status read failed")
		}
		if !found {
			row = s.liveSelfCheck(ctx, pkg, py)
		}
		results[py] = row
	}
	return results
}

func (s *Server) liveSelfCheck(ctx context.Context, pkg string, py types.PyVersion) types.CompatibilityResult {
	row := types.CompatibilityResult{
		Packages:  []string{pkg},
		PyVersion: py,
		Status:    types.StatusUnknown,
	}
	check, err := s.Service.Checker.Check(ctx, []string{pkg}, py)
	if err != nil {
		log.Warn().Str("package", pkg).Str("py", string(py)).Err(err).Msg("live self check failed")
		return row
	}
	row.Status = check.Result
	row.Details = check.Description
	return row
}

// preferredStatus reports the python 3 result. Python 2 is consulted
// only when python 3 succeeded: it can demote a green badge but never
// repair a failing one.
func preferredStatus(results map[types.PyVersion]types.CompatibilityResult) types.CompatibilityResult {
	py3 := results[types.PyVersion3]
	if py3.Status != types.StatusSuccess {
		return py3
	}
	if py2 := results[types.PyVersion2]; py2.Status != "" {
		return py2
	}
	return py3
}

func (s *Server) handleSelfBadgeImage(w http.ResponseWriter, r *http.Request) {
	pkg, ok := packageParam(w, r)
	if !ok {
		return
	}
	s.serveBadge(w, r, badgeKindSelf, pkg, func(ctx context.Context) (string, string) {
		status := preferredStatus(s.selfResults(ctx, pkg)).Status
		return string(status), adapters.StatusColor(status)
	})
}

func (s *Server) handleSelfBadgeTarget(w http.ResponseWriter, r *http.Request) {
	pkg, ok := packageParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, targetPayload(s.selfResults(r.Context(), pkg)))
}

func (s *Server) handlePairBadgeImage(w http.ResponseWriter, r *http.Request) {
	pkg, ok := packageParam(w, r)
	if !ok {
		return
	}
	s.serveBadge(w, r, badgeKindPair, pkg, func(ctx context.Context) (string, string) {
		status := preferredStatus(s.pairResults(ctx, pkg)).Status
		return string(status), adapters.StatusColor(status)
	})
}

func (s *Server) handlePairBadgeTarget(w http.ResponseWriter, r *http.Request) {
	pkg, ok := packageParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, targetPayload(s.pairResults(r.Context(), pkg)))
}

// pairResults combines the stored pairwise rows of one package against
// the rest of the portfolio, per python version.
func (s *Server) pairResults(ctx context.Context, pkg string) map[types.PyVersion]types.CompatibilityResult {
	packages := s.portfolio().Packages
	if !s.portfolio().Contains(pkg) {
		packages = append(append([]string(nil), packages...), pkg)
	}
	results := make(map[types.PyVersion]types.CompatibilityResult, len(types.AllPyVersions))
	for _, py := range types.AllPyVersions {
		summaries := core.NewAggregator(s.Service.Store).Aggregate(ctx, packages, py)
		summary := summaries[pkg]
		results[py] = types.CompatibilityResult{
			Packages:  []string{pkg},
			PyVersion: py,
			Status:    summary.Status,
			Details:   pairDetails(summary),
		}
	}
	return results
}

// pairDetails names the first conflicting partner, matching what the
// badge target page shows.
func pairDetails(summary types.PackageSummary) string {
	for _, pair := range summary.Pairs {
		if pair.Status.Failed() {
			return "conflict with " + pair.Other + ": " + pair.Details
		}
	}
	return summary.SelfDetails
}

func (s *Server) handleDependencyBadgeImage(w http.ResponseWriter, r *http.Request) {
	pkg, ok := packageParam(w, r)
	if !ok {
		return
	}
	s.serveBadge(w, r, badgeKindDependency, pkg, func(ctx context.Context) (string, string) {
		level, _ := s.dependencyLevel(ctx, pkg)
		return strings.ToLower(string(level)), adapters.PriorityColor(level)
	})
}

func (s *Server) handleDependencyBadgeTarget(w http.ResponseWriter, r *http.Request) {
	pkg, ok := packageParam(w, r)
	if !ok {
		return
	}
	_, verdicts := s.dependencyLevel(r.Context(), pkg)
	payload := make(map[string]map[string]string, len(verdicts))
	for _, verdict := range verdicts {
		payload[verdict.Edge.DepName] = map[string]string{
			"priority":          string(verdict.Level),
			"installed_version": verdict.Edge.InstalledVersion,
			"latest_version":    verdict.Edge.LatestVersion,
			"details":           verdict.Details,
		}
	}
	writeJSON(w, payload)
}

// dependencyLevel folds the per-dependency verdicts of one package
// into the single level shown on the badge.
func (s *Server) dependencyLevel(ctx context.Context, pkg string) (types.PriorityLevel, []types.PriorityVerdict) {
	report, err := s.Service.Report(ctx, app.ReportRequest{
		PortfolioPath: s.PortfolioPath,
		Packages:      []string{pkg},
	})
	if err != nil {
		log.Warn().Str("package", pkg).Err(err).Msg("dependency report failed")
		return types.PriorityLow, nil
	}
	verdicts := report.Verdicts[pkg]
	level := types.PriorityUpToDate
	for _, verdict := range verdicts {
		if verdict.Level == types.PriorityHigh {
			level = types.PriorityHigh
			break
		}
		if verdict.Outdated() {
			level = types.PriorityLow
		}
	}
	return level, verdicts
}

// serveBadge renders one badge, caching the SVG bytes per package and
// badge kind.
func (s *Server) serveBadge(w http.ResponseWriter, r *http.Request, kind string, pkg string, resolve func(context.Context) (string, string)) {
	ctx := r.Context()
	key := kind + ":" + pkg
	if cached, found, err := s.Cache.Get(ctx, key); err == nil && found {
		writeSVG(w, cached)
		return
	}
	value, color := resolve(ctx)
	subject := policies.NewDependencyFilter(s.portfolio()).FriendlyName(pkg)
	svg, err := s.Badges.Fetch(ctx, subject, value, color)
	if err != nil {
		log.Error().Str("package", pkg).Err(err).Msg("badge fetch failed")
		http.Error(w, "badge unavailable", http.StatusBadGateway)
		return
	}
	if err := s.Cache.Set(ctx, key, svg, s.CacheTTL); err != nil {
		log.Warn().Str("key", key).Err(err).Msg("badge cache write failed")
	}
	writeSVG(w, svg)
}

func packageParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	pkg := strings.TrimSpace(r.URL.Query().Get("package"))
	if pkg == "" {
		http.Error(w, "package query parameter is required", http.StatusBadRequest)
		return "", false
	}
	return pkg, true
}

func targetPayload(results map[types.PyVersion]types.CompatibilityResult) map[string]map[string]string {
	payload := make(map[string]map[string]string, len(results))
	for py, row := range results {
		payload["py"+string(py)] = map[string]string{
			"status":  string(row.Status),
			"details": row.Details,
		}
	}
	return payload
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("response encode failed")
	}
}

func writeSVG(w http.ResponseWriter, svg []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(svg)
}
