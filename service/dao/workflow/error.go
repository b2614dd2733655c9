package workflow

import (
	"fmt"
	"strings"
)

// NotFoundError indicates the workflow document could not be located or read.
type NotFoundError struct {
	URL string
	Err error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("workflow not found at %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("workflow not found at %s", e.URL)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// NewNotFoundError creates a workflow not found error
func NewNotFoundError(URL string, err error) *NotFoundError {
	return &NotFoundError{URL: URL, Err: err}
}

// ParseError indicates the workflow document could not be decoded.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("failed to parse workflow: %v", e.Err)
	}
	return fmt.Sprintf("failed to parse workflow from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError creates a workflow parse error
func NewParseError(URL string, err error) *ParseError {
	return &ParseError{URL: URL, Err: err}
}

// ValidationError aggregates structural issues found in a decoded workflow.
type ValidationError struct {
	Workflow string
	Issues   []error
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		messages = append(messages, issue.Error())
	}
	return fmt.Sprintf("invalid workflow %q: %s", e.Workflow, strings.Join(messages, "; "))
}

// NewValidationError creates a workflow validation error
func NewValidationError(workflow string, issues []error) *ValidationError {
	return &ValidationError{Workflow: workflow, Issues: issues}
}
