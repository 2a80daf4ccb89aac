package page

import "errors"

var (
	ErrScopeConsumed = errors.New("scoped writer already written")
	ErrFinished      = errors.New("builder already finished")
	ErrUnclosed      = errors.New("overlay left open at finish")
)
