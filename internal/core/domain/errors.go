package domain

import "errors"

var ErrColumnNotFound = errors.New("column not found")
var ErrTaskNotFound = errors.New("task not found")
var ErrSprintNotFound = errors.New("sprint not found")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrPermissionDenied = errors.New("permission denied")
