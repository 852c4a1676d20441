package adapters

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pycompat/internal/shared"
	"pycompat/internal/types"
)

const defaultBadgeEndpoint = "https://img.shields.io/badge/"

// StatusColor maps a compatibility status to its badge color.
func StatusColor(status types.Status) string {
	switch status {
	case types.StatusSuccess:
		return "green"
	case types.StatusInstallError:
		return "orange"
	case types.StatusCheckWarning, types.StatusConflict:
		return "red"
	default:
		return "lightgrey"
	}
}

// PriorityColor maps an update-priority level to its badge color.
func PriorityColor(level types.PriorityLevel) string {
	switch level {
	case types.PriorityUpToDate:
		return "green"
	case types.PriorityLow:
		return "yellowgreen"
	default:
		return "red"
	}
}

// BadgeURL builds a shields.io static badge URL. Shields treats "-" as
// the field separator, so literal dashes and underscores are doubled.
func BadgeURL(endpoint string, subject string, value string, color string) string {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = defaultBadgeEndpoint
	}
	return strings.TrimRight(endpoint, "/") + "/" +
		escapeBadgeField(subject) + "-" + escapeBadgeField(value) + "-" + color + ".svg"
}

func escapeBadgeField(field string) string {
	replacer := strings.NewReplacer("-", "--", "_", "__", " ", "_")
	return replacer.Replace(field)
}

// BadgeFetchAdapter retrieves rendered badge SVGs from shields.io (or
// a stand-in endpoint in tests).
type BadgeFetchAdapter struct {
	Endpoint string
	client   *http.Client
}

func NewBadgeFetchAdapter(endpoint string) *BadgeFetchAdapter {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = defaultBadgeEndpoint
	}
	return &BadgeFetchAdapter{
		Endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Fetch downloads the badge SVG for one subject/value/color triple.
func (a *BadgeFetchAdapter) Fetch(ctx context.Context, subject string, value string, color string) ([]byte, error) {
	requestURL := BadgeURL(a.Endpoint, subject, value, color)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create badge request").
			WithCause(err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("badge request failed").
			WithCause(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("badge endpoint returned unexpected status").
			WithCause(shared.HTTPStatusError(resp.StatusCode, requestURL))
	}
	return io.ReadAll(resp.Body)
}
