package adapters

import (
	"context"
	"os"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"pycompat/internal/types"
)

// PortfolioFileAdapter loads the tracked-package configuration from a
// yaml file.
type PortfolioFileAdapter struct{}

func NewPortfolioFileAdapter() PortfolioFileAdapter {
	return PortfolioFileAdapter{}
}

func (a PortfolioFileAdapter) Load(path string) (types.Portfolio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Portfolio{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("portfolio file not found").
			WithCause(err)
	}
	var portfolio types.Portfolio
	if err := yaml.Unmarshal(data, &portfolio); err != nil {
		return types.Portfolio{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse portfolio yaml").
			WithCause(err)
	}
	if err := validatePortfolio(portfolio); err != nil {
		return types.Portfolio{}, err
	}
	return portfolio, nil
}

func validatePortfolio(portfolio types.Portfolio) error {
	ctx := context.Background()
	assert.NotEmpty(ctx, portfolio.Metadata.Name, "metadata.name must be set")
	if len(portfolio.Packages) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("portfolio must list at least one package")
	}
	seen := map[string]struct{}{}
	for _, name := range portfolio.Packages {
		if name == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("portfolio contains an empty package name")
		}
		if _, dup := seen[name]; dup {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("portfolio contains a duplicate package: " + name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
