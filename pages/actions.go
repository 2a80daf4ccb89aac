package pages

import (
	"github.com/signadot/jjpages/page"
	"github.com/signadot/jjpages/vcs"
)

// Commands the actions of a page invoke. Every command takes the
// workspace root as its first argument.
const (
	// CmdOpen [workspace, kind, args...] renders a page and returns its
	// path.
	CmdOpen = "open"
	// CmdNew [workspace, revision]
	CmdNew = "new"
	// CmdAbandon [workspace, revision]
	CmdAbandon = "abandon"
	// CmdSquash [workspace, path?]
	CmdSquash = "squash"
)

func openAction(title, ws string, k Kind, args ...string) page.Action {
	return page.Action{
		Title:   title,
		Command: CmdOpen,
		Args:    append([]string{ws, k.String()}, args...),
	}
}

func squashAll(ws string) page.Action {
	return page.Action{Title: "Squash into parent", Command: CmdSquash, Args: []string{ws}}
}

func squashFile(ws, path string) page.Action {
	return page.Action{Title: "Squash file into parent", Command: CmdSquash, Args: []string{ws, path}}
}

func newOn(ws string, c vcs.Commit) page.Action {
	return page.Action{Title: "New change on top", Command: CmdNew, Args: []string{ws, c.ChangeID}}
}

func abandon(ws string, c vcs.Commit) page.Action {
	return page.Action{Title: "Abandon", Command: CmdAbandon, Args: []string{ws, c.ChangeID}}
}
