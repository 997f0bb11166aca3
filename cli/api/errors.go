package api

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is any non-conflict failure reported by the server.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Code, e.Message, e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// ConflictError is an HTTP 409 "resource in use" failure. The server reports
// the projects and blueprints that still reference the resource.
type ConflictError struct {
	Message    string   `json:"message"`
	Projects   []string `json:"projects"`
	Blueprints []string `json:"blueprints"`
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "resource is referenced by existing projects or blueprints"
}

// References merges blocking projects and blueprints, projects first.
func (e *ConflictError) References() []string {
	refs := make([]string, 0, len(e.Projects)+len(e.Blueprints))
	refs = append(refs, e.Projects...)
	refs = append(refs, e.Blueprints...)
	return refs
}

// AsConflict unwraps err into a ConflictError if it is one.
func AsConflict(err error) (*ConflictError, bool) {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict, true
	}
	return nil, false
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
