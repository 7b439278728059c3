package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/wenzel/timespan/internal/domain"
	"github.com/wenzel/timespan/internal/logging"
)

// fail renders an error and exits non-zero. Domain errors are safe to
// show verbatim; storage and filesystem failures carry paths and driver
// detail, so they are logged and replaced with a generic message.
func fail(err error) {
	if domain.IsDomainError(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	} else {
		log := logging.New("cli")
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, "Error: operation failed")
	}
	os.Exit(1)
}

// errorLine renders an error escaping cobra under the same policy as
// fail. Usage and flag errors carry no sensitive payload and stay
// verbatim; storage failures (a database that won't open, for one) are
// logged and masked.
func errorLine(err error) string {
	if !domain.IsDomainError(err) && errors.Is(err, domain.ErrStorage) {
		log := logging.New("cli")
		log.Error().Err(err).Msg("command failed")
		return "Error: operation failed"
	}
	return "Error: " + err.Error()
}
