package apperror

import (
	"fmt"
	"net/http"
	"strings"
)

// RemoteError is any non-success response or unparsable body from the
// backing store. CRUD operations never retry it.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 300 {
		body = body[:300] + "..."
	}
	if e.Status == 0 {
		return fmt.Sprintf("remote store error: %s", body)
	}
	return fmt.Sprintf("remote store error (status %d): %s", e.Status, body)
}

func (e *RemoteError) ErrCode() string {
	return "REMOTE_ERROR"
}

func (e *RemoteError) StatusCode() int {
	if e.Status == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

// WorkflowUnavailable means a workflow trigger failed twice in a row.
type WorkflowUnavailable struct {
	Workflow string
	Cause    error
}

func (e *WorkflowUnavailable) Error() string {
	return fmt.Sprintf("workflow %q unavailable, try again later: %v", e.Workflow, e.Cause)
}

func (e *WorkflowUnavailable) Unwrap() error {
	return e.Cause
}

func (e *WorkflowUnavailable) ErrCode() string {
	return "WORKFLOW_UNAVAILABLE"
}

func (e *WorkflowUnavailable) StatusCode() int {
	return http.StatusServiceUnavailable
}

type ValidationError string

func (err ValidationError) Error() string {
	return string(err)
}

func (err ValidationError) ErrCode() string {
	return "VALIDATION_ERROR"
}

func (err ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

type ConflictError string

func (err ConflictError) Error() string {
	return string(err)
}

func (err ConflictError) ErrCode() string {
	return "CONFLICT_ERROR"
}

func (err ConflictError) StatusCode() int {
	return http.StatusConflict
}

type NotFoundError string

func (err NotFoundError) Error() string {
	return string(err)
}

func (err NotFoundError) ErrCode() string {
	return "NOT_FOUND_ERROR"
}

func (err NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

type UnauthorizedError string

func (err UnauthorizedError) Error() string {
	return string(err)
}

func (err UnauthorizedError) ErrCode() string {
	return "UNAUTHORIZED"
}

func (err UnauthorizedError) StatusCode() int {
	return http.StatusUnauthorized
}

// Coded is implemented by every error in this package.
type Coded interface {
	error
	ErrCode() string
	StatusCode() int
}
