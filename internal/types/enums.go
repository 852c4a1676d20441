package types

// Status is the outcome of a single compatibility check between one or
// two packages for one Python major version.
type Status string

const (
	StatusUnknown      Status = "UNKNOWN"
	StatusSuccess      Status = "SUCCESS"
	StatusInstallError Status = "INSTALL_ERROR"
	StatusCheckWarning Status = "CHECK_WARNING"
	StatusConflict     Status = "CONFLICT"
)

// Failed reports whether the status represents an incompatibility, as
// opposed to success or missing data.
func (s Status) Failed() bool {
	switch s {
	case StatusInstallError, StatusCheckWarning, StatusConflict:
		return true
	default:
		return false
	}
}

// rank orders statuses for aggregation: failures dominate, then
// unknown, then success. Missing data and status values this version
// does not know must never fold into success.
func (s Status) rank() int {
	switch {
	case s.Failed():
		return 3
	case s == StatusSuccess:
		return 1
	default:
		return 2
	}
}

// Combine folds two statuses using failure > unknown > success
// precedence. On equal rank the receiver wins, which keeps the first
// observed failure as the reported one.
func (s Status) Combine(other Status) Status {
	if other.rank() > s.rank() {
		return other
	}
	if s == "" {
		return StatusUnknown
	}
	return s
}

type PyVersion string

const (
	PyVersion2 PyVersion = "2"
	PyVersion3 PyVersion = "3"
)

// AllPyVersions lists the Python major versions tracked by the system.
var AllPyVersions = []PyVersion{PyVersion2, PyVersion3}

// OrDefault returns python 3 when the version is unset.
func (v PyVersion) OrDefault() PyVersion {
	if v == "" {
		return PyVersion3
	}
	return v
}

// Valid reports whether the value names a tracked major version.
func (v PyVersion) Valid() bool {
	return v == PyVersion2 || v == PyVersion3
}

// PriorityLevel is the update-priority verdict for one dependency edge.
type PriorityLevel string

const (
	PriorityUpToDate PriorityLevel = "UP_TO_DATE"
	PriorityLow      PriorityLevel = "LOW_PRIORITY"
	PriorityHigh     PriorityLevel = "HIGH_PRIORITY"
)
