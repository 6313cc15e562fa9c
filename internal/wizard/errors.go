package wizard

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrConfiguration marks malformed step or field setup. It is fatal at
	// construction and never recovered.
	ErrConfiguration = errors.New("wizard configuration error")
	// ErrInvalidFieldKind marks a list or checklist operation on a field of
	// another kind.
	ErrInvalidFieldKind = errors.New("invalid field kind")
	// ErrIndexOutOfRange marks a step or list item index outside its bounds.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrInvalidValue marks a nil value passed to SetField.
	ErrInvalidValue = errors.New("invalid field value")
)

// ConfigurationError describes why a set of step definitions was rejected.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "wizard configuration: " + e.Reason
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// FieldKindError is returned when an operation needs a field of kind Want.
type FieldKindError struct {
	Key  string
	Want Kind
	Got  Kind
}

func (e *FieldKindError) Error() string {
	return fmt.Sprintf("field %q is %s, not %s", e.Key, e.Got, e.Want)
}

// Is reports whether target is ErrInvalidFieldKind.
func (e *FieldKindError) Is(target error) bool {
	return target == ErrInvalidFieldKind
}

// IndexError is returned for an index outside [0, Len).
type IndexError struct {
	What  string // "step" or the list field key
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.What, e.Index, e.Len)
}

// Is reports whether target is ErrIndexOutOfRange.
func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}
