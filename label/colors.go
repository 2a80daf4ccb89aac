package label

import (
	"strings"

	"github.com/fatih/color"
)

// Colors maps labels to terminal color functions.
type Colors struct {
	Default func(string, ...any) string
	Map     map[ID]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[ID]func(string, ...any) string{},
	}
	set := func(name string, f func(string, ...any) string) {
		colors.Map[Get(name)] = f
	}
	set(Heading, color.New(color.Bold).SprintfFunc())
	set(Added, color.GreenString)
	set(Modified, color.CyanString)
	set(Deleted, color.RedString)
	set(Removed, color.RedString)
	set(Renamed, color.CyanString)
	set(Copied, color.GreenString)
	set(HunkHeader, color.CyanString)
	set(ChangeID, color.MagentaString)
	set("commit_id", color.BlueString)
	set(Author, color.YellowString)
	set(Timestamp, color.CyanString)
	set(LineNumber, color.RGB(96, 96, 96).SprintfFunc())
	set("bookmark", color.MagentaString)
	set("bookmarks", color.MagentaString)
	set("working_copy", color.GreenString)
	set("empty", color.GreenString)
	set("conflict", color.RedString)
	set("divergent", color.RedString)
	set("hidden", color.RGB(96, 96, 96).SprintfFunc())
	set("elided", color.RGB(96, 96, 96).SprintfFunc())
	set("prefix", color.New(color.Bold).SprintfFunc())
	set("rest", color.RGB(128, 128, 128).SprintfFunc())
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.Replace(v, "%", "%%", -1))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(id ID, s string) string {
	return c.Get(id)(s)
}

func (c *Colors) Get(id ID) func(string, ...any) string {
	f := c.Map[id]
	if f == nil {
		return c.Default
	}
	return f
}
