package board

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Operational errors. They are wrapped with a description and are meant to
// be matched with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrAccessDenied        = errors.New("access denied")
	ErrInvalidAssignee     = errors.New("invalid assignee")
	ErrInvalidState        = errors.New("invalid state")
	ErrDuplicateMembership = errors.New("duplicate membership")
	ErrInvalidInput        = errors.New("invalid input")
)

func notFound(kind string, id uint) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// lookupErr turns a missing row into ErrNotFound and passes other errors through.
func lookupErr(err error, kind string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(kind, id)
	}
	return err
}
