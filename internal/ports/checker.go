package ports

import (
	"context"

	"pycompat/internal/types"
)

// CheckerPort is the remote compatibility-check provider. It installs
// the requested packages into a throwaway environment and reports the
// pip resolution outcome. Provider failures surface as UNKNOWN-class
// results, never as conflicts.
type CheckerPort interface {
	Check(ctx context.Context, packages []string, py types.PyVersion) (types.CheckResult, error)
}
