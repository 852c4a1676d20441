package adapters

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pycompat/internal/shared"
	"pycompat/internal/types"
)

const (
	defaultCheckerTimeout    = 60 * time.Second
	defaultCheckerRetries    = 3
	defaultCheckerRetryDelay = 500 * time.Millisecond
	maxCheckerRetryDelay     = 8 * time.Second
)

// allowlistRejection is the plain-text body the checker returns when a
// request names a package outside its allowlist.
const allowlistRejection = "Request contains third party github head packages."

// CheckerHTTPAdapter calls the remote compatibility-checker service.
// The service installs the requested packages into a throwaway
// environment and reports the pip resolution outcome as JSON.
type CheckerHTTPAdapter struct {
	Endpoint   string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration

	client *http.Client
}

func NewCheckerHTTPAdapter(endpoint string, timeoutSec int, retries int, retryDelayMs int) *CheckerHTTPAdapter {
	timeout := defaultCheckerTimeout
	if timeoutSec > 0 {
		timeout = time.Duration(timeoutSec) * time.Second
	}
	if retries <= 0 {
		retries = defaultCheckerRetries
	}
	delay := defaultCheckerRetryDelay
	if retryDelayMs > 0 {
		delay = time.Duration(retryDelayMs) * time.Millisecond
	}
	return &CheckerHTTPAdapter{
		Endpoint:   endpoint,
		Timeout:    timeout,
		Retries:    retries,
		RetryDelay: delay,
		client:     &http.Client{Timeout: timeout},
	}
}

// checkerResponse is the provider's JSON contract.
type checkerResponse struct {
	Result         string                       `json:"result"`
	Packages       []string                     `json:"packages"`
	Description    string                       `json:"description"`
	Requirements   string                       `json:"requirements"`
	DependencyInfo map[string]checkerDependency `json:"dependency_info"`
}

type checkerDependency struct {
	InstalledVersion     string `json:"installed_version"`
	InstalledVersionTime string `json:"installed_version_time"`
	LatestVersion        string `json:"latest_version"`
	LatestVersionTime    string `json:"latest_version_time"`
	IsLatest             bool   `json:"is_latest"`
	CurrentTime          string `json:"current_time"`
}

// Check queries the provider for the given package set, retrying
// transient failures with a doubling delay. Provider errors that
// survive the retries surface as an error; callers map that to an
// UNKNOWN result, never to a conflict.
func (a *CheckerHTTPAdapter) Check(ctx context.Context, packages []string, py types.PyVersion) (types.CheckResult, error) {
	if strings.TrimSpace(a.Endpoint) == "" {
		return types.CheckResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("checker endpoint is empty")
	}
	if len(packages) == 0 {
		return types.CheckResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no packages to check")
	}

	var lastErr error
	for attempt := 0; attempt < a.Retries; attempt++ {
		if ctx.Err() != nil {
			return types.CheckResult{}, ctx.Err()
		}
		result, retry, err := a.checkOnce(ctx, packages, py)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retry || attempt == a.Retries-1 {
			break
		}
		log.Debug().
			Err(err).
			Strs("packages", packages).
			Int("attempt", attempt+1).
			Msg("checker request failed, retrying")
		time.Sleep(a.retryDelay(attempt))
	}
	return types.CheckResult{}, lastErr
}

func (a *CheckerHTTPAdapter) checkOnce(ctx context.Context, packages []string, py types.PyVersion) (types.CheckResult, bool, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(a.Endpoint), "/")
	query := url.Values{}
	query.Set("python-version", string(py))
	for _, pkg := range packages {
		query.Add("package", pkg)
	}
	requestURL := endpoint + "/?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return types.CheckResult{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create checker request").
			WithCause(err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return types.CheckResult{}, true, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("checker request failed").
			WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.CheckResult{}, true, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read checker response").
			WithCause(err)
	}
	if resp.StatusCode >= 500 {
		return types.CheckResult{}, true, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("checker returned server error").
			WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, requestURL, string(body)))
	}
	if resp.StatusCode != http.StatusOK {
		return types.CheckResult{}, false, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("checker rejected request").
			WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, requestURL, string(body)))
	}

	// The allowlist rejection comes back as plain text with a 200.
	if strings.TrimSpace(string(body)) == allowlistRejection {
		return types.CheckResult{
			Result:      types.StatusUnknown,
			Packages:    packages,
			Description: allowlistRejection,
		}, false, nil
	}

	var decoded checkerResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return types.CheckResult{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to decode checker response").
			WithCause(err)
	}
	return decodeCheckResult(decoded, packages), false, nil
}

func decodeCheckResult(decoded checkerResponse, requested []string) types.CheckResult {
	result := types.CheckResult{
		Result:       types.Status(decoded.Result),
		Packages:     decoded.Packages,
		Description:  decoded.Description,
		Requirements: decoded.Requirements,
	}
	if result.Result == "" {
		result.Result = types.StatusUnknown
	}
	if len(result.Packages) == 0 {
		result.Packages = requested
	}
	if len(decoded.DependencyInfo) > 0 {
		result.DependencyInfo = map[string]types.DependencyInfo{}
		for dep, info := range decoded.DependencyInfo {
			result.DependencyInfo[dep] = types.DependencyInfo{
				InstalledVersion:  info.InstalledVersion,
				InstalledTime:     parseTimeFlexible(info.InstalledVersionTime),
				LatestVersion:     info.LatestVersion,
				LatestVersionTime: parseTimePointer(info.LatestVersionTime),
				IsLatest:          info.IsLatest,
				CurrentTime:       parseTimeFlexible(info.CurrentTime),
			}
		}
	}
	return result
}

func (a *CheckerHTTPAdapter) retryDelay(attempt int) time.Duration {
	delay := a.RetryDelay << uint(attempt)
	if delay > maxCheckerRetryDelay {
		delay = maxCheckerRetryDelay
	}
	return delay
}
