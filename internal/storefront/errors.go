package storefront

import (
	"errors"
	"strings"
)

var (
	ErrIncompleteSubmission = errors.New("required fields are missing")
	ErrUnknownServer        = errors.New("unknown server")
	ErrUnknownBundle        = errors.New("unknown bundle")
)

type MissingFieldsError struct {
	Fields []Field
}

func (e *MissingFieldsError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.String())
	}
	return ErrIncompleteSubmission.Error() + ": " + strings.Join(names, ", ")
}

func (e *MissingFieldsError) Unwrap() error {
	return ErrIncompleteSubmission
}
