package service

import (
	"errors"
	"fmt"
)

// MalformedInputError marks input that can never be processed as sent:
// bad JSON, a wrong envelope, a missing order id.
type MalformedInputError struct {
	Err error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: %v", e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// DependencyError marks a failure of an external collaborator such as the
// event bus.
type DependencyError struct {
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("dependency failure: %v", e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// IsMalformed checks if err is a malformed input error
func IsMalformed(err error) bool {
	var malformed *MalformedInputError
	return errors.As(err, &malformed)
}

// IsDependency checks if err is a dependency failure
func IsDependency(err error) bool {
	var dep *DependencyError
	return errors.As(err, &dep)
}

func malformed(format string, args ...interface{}) error {
	return &MalformedInputError{Err: fmt.Errorf(format, args...)}
}
