package model

import (
	"fmt"
	"strings"
)

// FieldError describes a validation problem on a specific builder field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// BuildError reports an invalid job configuration detected at Build time.
// It never reaches the queue manager; callers must fix the job first.
type BuildError struct {
	Fields []FieldError
}

func (e *BuildError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	return "invalid job: " + strings.Join(msgs, "; ")
}

// NewBuildError creates a BuildError from one or more field errors.
func NewBuildError(fields ...FieldError) *BuildError {
	return &BuildError{Fields: fields}
}
