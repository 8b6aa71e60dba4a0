package domain

import "errors"

// ErrProjectNotFound is an error thrown when a project is not found
var ErrProjectNotFound = errors.New("project not found")

// ErrProjectFileNotFound is an error thrown when a project file is not found
var ErrProjectFileNotFound = errors.New("project file not found")

// ErrLockNotAcquired is an error thrown when the finalize lock is held by
// another attempt and is not stale
var ErrLockNotAcquired = errors.New("finalize lock not acquired")

// ErrObjectNotFound is an error thrown when an object is missing from storage
var ErrObjectNotFound = errors.New("object not found in storage")
