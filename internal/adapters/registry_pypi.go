package adapters

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pycompat/internal/shared"
	"pycompat/internal/types"
)

const defaultPyPIEndpoint = "https://pypi.org/pypi"

// RegistryPyPIAdapter reads release metadata from the PyPI JSON API.
type RegistryPyPIAdapter struct {
	Endpoint string
	client   *http.Client
}

func NewRegistryPyPIAdapter(endpoint string, timeoutSec int) *RegistryPyPIAdapter {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = defaultPyPIEndpoint
	}
	timeout := 30 * time.Second
	if timeoutSec > 0 {
		timeout = time.Duration(timeoutSec) * time.Second
	}
	return &RegistryPyPIAdapter{
		Endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

type pypiResponse struct {
	Info struct {
		Version     string   `json:"version"`
		Classifiers []string `json:"classifiers"`
	} `json:"info"`
	URLs []struct {
		UploadTime string `json:"upload_time_iso_8601"`
	} `json:"urls"`
}

// ReleaseInfo fetches the latest release version, its upload time, and
// the development-status classifier for a package.
func (a *RegistryPyPIAdapter) ReleaseInfo(ctx context.Context, name string) (types.ReleaseInfo, error) {
	requestURL := a.Endpoint + "/" + shared.StripExtras(name) + "/json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return types.ReleaseInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create registry request").
			WithCause(err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return types.ReleaseInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("registry request failed").
			WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return types.ReleaseInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("package not found in registry: " + name)
	}
	if resp.StatusCode != http.StatusOK {
		return types.ReleaseInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("registry returned unexpected status").
			WithCause(shared.HTTPStatusError(resp.StatusCode, requestURL))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.ReleaseInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read registry response").
			WithCause(err)
	}
	var decoded pypiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return types.ReleaseInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to decode registry response").
			WithCause(err)
	}

	info := types.ReleaseInfo{
		Name:          name,
		LatestVersion: decoded.Info.Version,
	}
	for _, classifier := range decoded.Info.Classifiers {
		if strings.HasPrefix(classifier, "Development Status") {
			info.DevelopmentStatus = classifier
			break
		}
	}
	for _, file := range decoded.URLs {
		if uploaded := parseTimePointer(file.UploadTime); uploaded != nil {
			if info.LatestVersionTime == nil || uploaded.After(*info.LatestVersionTime) {
				info.LatestVersionTime = uploaded
			}
		}
	}
	return info, nil
}
