package pages

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// Marker is the directory under a workspace root holding its pages.
	Marker = ".control"
	// Ext is the extension of page files.
	Ext = ".page"

	// placeholder stands for '/' inside an argument.
	placeholder = '\''
	reserved    = `<>:"\|?*`
)

// Encode returns the path of the page id names:
//
//	<workspace>/.control/<kind>.page                  no arguments
//	<workspace>/.control/<kind>/<arg>/.../<last>.page
//
// Slashes in arguments are written as '. Arguments holding a reserved
// character, the placeholder itself, or which are empty, "." or ".."
// cannot be encoded.
func Encode(id Identity) (string, error) {
	ws := filepath.Clean(id.Workspace)
	for _, elt := range strings.Split(filepath.ToSlash(ws), "/") {
		if elt == Marker {
			return "", fmt.Errorf("%w: workspace %q contains %s", ErrUnencodable, ws, Marker)
		}
	}
	name := id.Kind.String()
	if _, ok := Named(name); !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownKind, int(id.Kind))
	}
	if len(id.Args) == 0 {
		return filepath.Join(ws, Marker, name+Ext), nil
	}
	elts := make([]string, 0, len(id.Args)+3)
	elts = append(elts, ws, Marker, name)
	for _, arg := range id.Args {
		enc, err := encodeArg(arg)
		if err != nil {
			return "", err
		}
		elts = append(elts, enc)
	}
	elts[len(elts)-1] += Ext
	return filepath.Join(elts...), nil
}

func encodeArg(arg string) (string, error) {
	if i := strings.IndexAny(arg, reserved); i >= 0 {
		return "", fmt.Errorf("%w: %q in %q", ErrReservedChar, arg[i], arg)
	}
	switch {
	case arg == "", arg == ".", arg == "..":
		return "", fmt.Errorf("%w: argument %q", ErrUnencodable, arg)
	case strings.ContainsRune(arg, placeholder):
		return "", fmt.Errorf("%w: argument %q contains %q", ErrUnencodable, arg, placeholder)
	}
	return strings.ReplaceAll(arg, "/", string(placeholder)), nil
}

// Decode recovers the identity of the page at path. The workspace is the
// part of path before its first .control element.
func Decode(path string) (Identity, error) {
	clean := filepath.Clean(path)
	elts := strings.Split(filepath.ToSlash(clean), "/")
	at := -1
	for i, elt := range elts {
		if elt == Marker {
			at = i
			break
		}
	}
	if at < 0 {
		return Identity{}, fmt.Errorf("%s: %w", path, ErrNoMarker)
	}
	rest := elts[at+1:]
	if len(rest) == 0 {
		return Identity{}, fmt.Errorf("%s: %w", path, ErrNoKind)
	}
	last, ok := strings.CutSuffix(rest[len(rest)-1], Ext)
	if !ok {
		return Identity{}, fmt.Errorf("%s: %w", path, ErrNoExtension)
	}
	rest[len(rest)-1] = last
	if rest[0] == "" {
		return Identity{}, fmt.Errorf("%s: %w", path, ErrNoKind)
	}
	kind, ok := Named(rest[0])
	if !ok {
		return Identity{}, fmt.Errorf("%s: %w %q", path, ErrUnknownKind, rest[0])
	}
	var args []string
	for _, elt := range rest[1:] {
		if elt == "" {
			return Identity{}, fmt.Errorf("%s: %w: empty argument", path, ErrUnencodable)
		}
		args = append(args, strings.ReplaceAll(elt, string(placeholder), "/"))
	}
	return Identity{
		Workspace: workspace(elts[:at], clean),
		Kind:      kind,
		Args:      args,
	}, nil
}

func workspace(elts []string, path string) string {
	ws := filepath.FromSlash(strings.Join(elts, "/"))
	if ws == "" && filepath.IsAbs(path) {
		return string(filepath.Separator)
	}
	if ws == "" {
		return "."
	}
	return ws
}
