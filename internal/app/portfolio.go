package app

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pycompat/internal/types"
)

// resolvePortfolio returns the packages an operation should work on.
// Explicit packages win over the portfolio file; the portfolio is
// still loaded when a path is given so that ignore and allowlist
// configuration applies.
func (s Service) resolvePortfolio(path string, packages []string) ([]string, types.Portfolio, error) {
	portfolio := types.Portfolio{}
	if strings.TrimSpace(path) != "" {
		loaded, err := s.Portfolio.Load(path)
		if err != nil {
			return nil, types.Portfolio{}, err
		}
		portfolio = loaded
	}
	if len(packages) == 0 {
		packages = portfolio.Packages
	}
	if len(packages) == 0 {
		return nil, types.Portfolio{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no packages: provide --package or a portfolio file")
	}
	return packages, portfolio, nil
}
