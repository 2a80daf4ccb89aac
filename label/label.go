// Package label holds the legend of highlight labels a page can carry.
//
// The legend is published to the editor as the semantic token types of
// the server; a label's ID is its index in the legend. Apart from the
// page's own base label, the names follow the labels jj attaches to its
// colored output so that jj's templates can be highlighted unchanged.
package label

import "strconv"

// ID is the index of a label in the legend.
type ID uint32

const (
	Base    = "jjpages"
	Heading = "heading"

	// diff entry status
	Modified = "modified"
	Added    = "added"
	Deleted  = "deleted"
	Renamed  = "renamed"
	Copied   = "copied"

	// diff body
	HunkHeader = "hunk_header"
	Removed    = "removed"
	Context    = "context"

	// annotation lines
	ChangeID   = "change_id"
	Author     = "author"
	Timestamp  = "timestamp"
	LineNumber = "line_number"
)

var legend = []string{
	Base,
	"access-denied",
	Added,
	Author,
	"bad",
	"binary",
	"bookmark",
	"bookmarks",
	ChangeID,
	"change_offset",
	"commit_id",
	"committer",
	"config_list",
	"conflict",
	"conflict_description",
	"conflicted",
	Context,
	Copied,
	"current_operation",
	"description",
	"diff",
	"difficult",
	"display",
	"divergent",
	"elided",
	"empty",
	"error",
	"error_source",
	"file_header",
	"git_head",
	"git_ref",
	"git_refs",
	"good",
	"header",
	Heading,
	"hidden",
	"hint",
	HunkHeader,
	"id",
	"immutable",
	"invalid",
	"key",
	LineNumber,
	"local_bookmarks",
	Modified,
	"mutable",
	"name",
	"node",
	"operation",
	"overridden",
	"path",
	"placeholder",
	"prefix",
	"remote_bookmarks",
	Removed,
	Renamed,
	"rest",
	"root",
	"separator",
	"signature",
	"snapshot",
	"source",
	"status",
	"tag",
	"tags",
	"time",
	Timestamp,
	"token",
	"unknown",
	"untracked",
	"user",
	"value",
	"warning",
	"working_copies",
	"working_copy",
	Deleted,
}

var index = func() map[string]ID {
	m := make(map[string]ID, len(legend))
	for i, name := range legend {
		if _, dup := m[name]; dup {
			panic("duplicate label " + name)
		}
		m[name] = ID(i)
	}
	return m
}()

// Legend returns the label names in ID order.
func Legend() []string {
	res := make([]string, len(legend))
	copy(res, legend)
	return res
}

// Get returns the ID of a label the caller knows to be in the legend.
func Get(name string) ID {
	id, ok := index[name]
	if !ok {
		panic("unknown label " + name)
	}
	return id
}

func TryGet(name string) (ID, bool) {
	id, ok := index[name]
	return id, ok
}

func (id ID) String() string {
	if int(id) < len(legend) {
		return legend[id]
	}
	return "label(" + strconv.FormatUint(uint64(id), 10) + ")"
}
