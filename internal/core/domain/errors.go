package domain

import "errors"

// Validation errors, detected before any gateway call.
var ErrEmptyTitle = errors.New("project title is required")
var ErrEmptyEmail = errors.New("participant email is required")
var ErrInvalidEmail = errors.New("participant email is invalid")
var ErrDuplicateParticipant = errors.New("participant already exists in project")
var ErrSelfParticipant = errors.New("you are already a participant of the project")
var ErrCreatorRemoval = errors.New("the project creator cannot be removed")
var ErrUnknownParticipant = errors.New("name does not match any project participant")
var ErrEmptyConcept = errors.New("expense concept is required")
var ErrNonPositiveAmount = errors.New("expense amount must be positive")
var ErrEmptySplit = errors.New("expense must be split among at least one participant")

// Gateway and access errors.
var ErrProjectNotFound = errors.New("project not found")
var ErrExpenseNotFound = errors.New("expense not found")
var ErrParticipantNotFound = errors.New("participant not found")
var ErrForbidden = errors.New("access forbidden")

// Auth errors.
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
