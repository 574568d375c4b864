package validator

import (
	"github.com/hashicorp/go-multierror"

	"github.com/666666ma999999/claudecode/internal/discovery"
	"github.com/666666ma999999/claudecode/internal/logging"
)

// ValidateAll runs schema then isolation checks on each extension in order,
// followed by the cross-extension conflict checks, and returns every
// violation found.
func ValidateAll(exts []discovery.Extension) []string {
	logger := logging.GetLogger("validator")

	errs := []string{}
	for _, ext := range exts {
		schemaErrs := ValidateSchema(ext)
		isolationErrs := ValidateIsolation(ext, exts)
		logger.Debug().
			Str("extension", ext.Name()).
			Int("schema", len(schemaErrs)).
			Int("isolation", len(isolationErrs)).
			Msg("Validated extension")
		errs = append(errs, schemaErrs...)
		errs = append(errs, isolationErrs...)
	}

	conflictErrs := ValidateConflicts(exts)
	logger.Debug().Int("conflicts", len(conflictErrs)).Msg("Validated extension set")
	return append(errs, conflictErrs...)
}

// Violation is a single validation finding.
type Violation string

func (v Violation) Error() string { return string(v) }

// Violations aggregates messages into one error, or returns nil if there
// are none.
func Violations(msgs []string) error {
	var result *multierror.Error
	for _, m := range msgs {
		result = multierror.Append(result, Violation(m))
	}
	return result.ErrorOrNil()
}
