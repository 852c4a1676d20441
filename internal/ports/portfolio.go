package ports

import "pycompat/internal/types"

// PortfolioPort loads the tracked-package configuration.
type PortfolioPort interface {
	Load(path string) (types.Portfolio, error)
}
