package services

import "errors"

// Employee errors
var (
	ErrEmployeeNotFound     = errors.New("employee: not found")
	ErrEmployeeInvalidInput = errors.New("employee: invalid input")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user: not found")
	ErrUserAlreadyExists = errors.New("user: username already exists")
	ErrUserInvalidInput  = errors.New("user: invalid input")
)

// Export errors
var (
	ErrTaskNotFound    = errors.New("export: task not found")
	ErrTaskInvalidType = errors.New("export: unsupported task type")
	// ErrTaskNotFinished gates downloads: only SUCCESS tasks have an artifact.
	ErrTaskNotFinished = errors.New("export: task not finished")
	// ErrArtifactMissing means the task finished but its file is gone; the
	// caller should resubmit the export.
	ErrArtifactMissing = errors.New("export: file missing, please resubmit")
)
