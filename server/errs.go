package server

import "errors"

var (
	ErrNotFile        = errors.New("not a file URI")
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArgument    = errors.New("command arguments must be strings")
	ErrNoWorkspace    = errors.New("no workspace")
	ErrReadOnly       = errors.New("repository cannot be changed")
)
