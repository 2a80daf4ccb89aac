package pages

import "errors"

var (
	ErrNoMarker     = errors.New("path has no .control element")
	ErrNoKind       = errors.New("path names no page kind")
	ErrUnknownKind  = errors.New("unknown page kind")
	ErrNoExtension  = errors.New("path lacks the .page extension")
	ErrReservedChar = errors.New("argument contains a reserved character")
	ErrUnencodable  = errors.New("identity cannot be encoded")

	ErrArgCount    = errors.New("wrong number of arguments")
	ErrOutsideRepo = errors.New("path is outside the workspace")
	ErrIsDirectory = errors.New("path is a directory")
)
