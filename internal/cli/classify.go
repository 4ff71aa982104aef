package cli

import (
	"errors"

	"github.com/ariel-frischer/releasenotes/internal/commitrange"
	clierrors "github.com/ariel-frischer/releasenotes/internal/errors"
)

// classify turns any error returned by a command into a CLIError so it can be
// printed with remediation and mapped to an exit code.
func classify(err error) *clierrors.CLIError {
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var rangeErr *commitrange.RangeError
	if errors.As(err, &rangeErr) {
		switch rangeErr.Kind {
		case commitrange.KindNotFound:
			switch rangeErr.Subject {
			case "branch":
				return clierrors.BranchNotFound(rangeErr.Name, rangeErr.Available, err)
			case "tag":
				return clierrors.TagNotFound(rangeErr.Name, rangeErr.Available, err)
			default:
				return clierrors.CommitNotFound(err)
			}
		case commitrange.KindEmptyRange:
			return clierrors.Wrap(err, clierrors.EmptyRange)
		case commitrange.KindInvalid:
			return clierrors.Wrap(err, clierrors.Argument)
		}
	}

	return clierrors.Wrap(err, clierrors.Runtime)
}
