package main

import (
	"github.com/go-faster/errors"

	"github.com/iota-uz/orgportal/modules/org/services"
	"github.com/iota-uz/orgportal/modules/roster/domain/employee"
	"github.com/iota-uz/orgportal/modules/roster/infrastructure/tabular"
	rosterservices "github.com/iota-uz/orgportal/modules/roster/services"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitStore      = 4
	exitForbidden  = 5
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}

// classify attaches an exit code to an error coming back from the service or
// the ingestion layer. Anything unrecognized is treated as a storage failure.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return err
	}
	switch {
	case errors.Is(err, services.ErrForbidden):
		return withCode(exitForbidden, err)
	case errors.Is(err, tabular.ErrUnsupportedFormat),
		errors.Is(err, tabular.ErrSheetNotFound):
		return withCode(exitUsage, err)
	case errors.Is(err, services.ErrImportNotConfirmed),
		errors.Is(err, services.ErrEmployeeNotFound),
		errors.Is(err, services.ErrEmployeeExists),
		errors.Is(err, services.ErrInvalidKey),
		errors.Is(err, services.ErrInvalidLabel),
		errors.Is(err, employee.ErrInvalidEmployee),
		errors.Is(err, employee.ErrDuplicateID),
		errors.Is(err, rosterservices.ErrNoDataRows),
		errors.Is(err, rosterservices.ErrHeaderNotFound),
		errors.Is(err, rosterservices.ErrRequiredColumns):
		return withCode(exitValidation, err)
	default:
		return withCode(exitStore, err)
	}
}
