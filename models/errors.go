package models

import (
	"errors"
	"fmt"
)

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrCollectionNotFound = errors.New("collection not found")
)

// UniquenessConflictError reports a value already taken by another team.
// Field is empty when the storage layer rejected the write without saying
// which column collided.
type UniquenessConflictError struct {
	Field string
	Value string
}

func (e *UniquenessConflictError) Error() string {
	if e.Field == "" {
		return "value already in use"
	}
	return fmt.Sprintf("%s %q is already in use", e.Field, e.Value)
}
