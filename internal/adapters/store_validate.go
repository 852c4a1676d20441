package adapters

import (
	"github.com/ZanzyTHEbar/errbuilder-go"

	"pycompat/internal/types"
)

func validateSelfResult(result types.CompatibilityResult) error {
	if len(result.Packages) != 1 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("self result must reference exactly one package")
	}
	return validateResultCommon(result)
}

func validatePairResult(result types.CompatibilityResult) error {
	if len(result.Packages) != 2 || result.Packages[0] == result.Packages[1] {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("pairwise result must reference two distinct packages")
	}
	return validateResultCommon(result)
}

func validateResultCommon(result types.CompatibilityResult) error {
	for _, name := range result.Packages {
		if name == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("result references an empty package name")
		}
	}
	if result.PyVersion != types.PyVersion2 && result.PyVersion != types.PyVersion3 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("result python version must be 2 or 3")
	}
	return nil
}
