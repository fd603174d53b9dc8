package catalog

import (
	"errors"
	"fmt"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

type InvalidError struct {
	Section string
	Value   string
	Reason  string
}

func (e *InvalidError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid catalog: %s: %s", e.Section, e.Reason)
	}
	return fmt.Sprintf("invalid catalog: %s: '%s': %s", e.Section, e.Value, e.Reason)
}

func (e *InvalidError) Unwrap() error {
	return ErrInvalidCatalog
}

func NewInvalidError(section, value, reason string) error {
	return &InvalidError{Section: section, Value: value, Reason: reason}
}
