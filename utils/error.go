package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// ConfigError reports required configuration keys that were absent at
// startup. Nothing runs until every listed key is set.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return "missing required configuration: " + strings.Join(e.Missing, ", ")
}

// ValidationError reports malformed or missing request input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// BackendError wraps a failed call to the data store. The upstream body is
// carried verbatim so the operator sees the store's own message. Status is
// zero when the call never reached the store.
type BackendError struct {
	Op     string
	Status int
	Body   string
}

func (e *BackendError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("backend %s failed: %s", e.Op, e.Body)
	}
	return fmt.Sprintf("backend %s failed: status %d: %s", e.Op, e.Status, e.Body)
}

// RenderError reports a failure while composing a report document. The
// whole render aborts; there is no partial-page output.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return "report render failed: " + e.Err.Error() }

func (e *RenderError) Unwrap() error { return e.Err }

// SchemaBootstrapError means the store schema has not been provisioned.
// Schema setup is an operator step run with direct store access; the
// application never executes DDL at runtime.
type SchemaBootstrapError struct {
	Detail string
}

func (e *SchemaBootstrapError) Error() string {
	return "schema bootstrap required: " + e.Detail
}

// Instructions is returned to the caller alongside the 501 so the operator
// knows what to run.
func (e *SchemaBootstrapError) Instructions() string {
	return "run the schema migration (migrations/punchlist.sql) against the store with a privileged connection, then retry"
}

// HTTPStatus maps the error taxonomy onto response status codes.
func HTTPStatus(err error) int {
	var (
		valErr *ValidationError
		sbErr  *SchemaBootstrapError
	)
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &valErr):
		return http.StatusBadRequest
	case errors.As(err, &sbErr):
		return http.StatusNotImplemented
	default:
		// ConfigError, BackendError, RenderError and anything unclassified.
		return http.StatusInternalServerError
	}
}
