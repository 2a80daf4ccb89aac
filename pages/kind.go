// Package pages renders the pages a workspace offers and names them on
// disk.
//
// The set of page kinds is closed: Render switches over it, and every
// kind has a name used in page paths and in the open command.
package pages

// Kind is a kind of page.
type Kind int

const (
	// Status shows the working copy's changes and the recent commits.
	Status Kind = iota
	// Split shows the working copy's changes as selected and unselected.
	Split
	// Annotate shows a file with the change each line comes from.
	Annotate
	// Commit shows one commit and its diff.
	Commit
)

var kindNames = [...]string{
	Status:   "status",
	Split:    "split",
	Annotate: "annotate",
	Commit:   "commit",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds returns every kind.
func Kinds() []Kind {
	res := make([]Kind, len(kindNames))
	for i := range kindNames {
		res[i] = Kind(i)
	}
	return res
}

// Named returns the kind called name.
func Named(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// Identity names a page: the workspace it shows, its kind and its
// arguments.
type Identity struct {
	Workspace string
	Kind      Kind
	Args      []string
}
