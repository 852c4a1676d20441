package ports

import (
	"context"

	"pycompat/internal/types"
)

// RegistryPort looks up release metadata for a package from the
// package index (PyPI).
type RegistryPort interface {
	ReleaseInfo(ctx context.Context, name string) (types.ReleaseInfo, error)
}
