package vcstest

import (
	"time"

	"github.com/signadot/jjpages/vcs"
)

var (
	_ vcs.Backend    = (*Backend)(nil)
	_ vcs.Repository = (*Repo)(nil)
	_ vcs.Mutator    = (*Repo)(nil)
)

// Sample returns a small repository rooted at root: a working copy
// touching one file of each kind, two recent commits, and an annotation
// of src/a.js at the working copy.
func Sample(root string) *Repo {
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	head := vcs.Commit{
		ChangeID:    "qpvuntsmwlqtpsluzzsnyyzlmlwvmlnu",
		CommitID:    "9a45c67d3e96a7e5007c110ede34dec5c7b4b4ef",
		Description: "",
		Author:      "Ann",
		Email:       "ann@example.com",
		Timestamp:   t0.Add(2 * time.Hour),
	}
	feat := vcs.Commit{
		ChangeID:    "rlvkpnrzqnoowoytxnquwvuryrwnrmlp",
		CommitID:    "230dd059e1b059aefc0da06a2e5a7dbf22362f22",
		Description: "add feature\n\nlonger text\n",
		Author:      "Bob",
		Email:       "bob@example.com",
		Timestamp:   t0.Add(time.Hour),
	}
	base := vcs.Commit{
		ChangeID:    "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz",
		CommitID:    "0000000000000000000000000000000000000000",
		Description: "initial",
		Author:      "Ann",
		Email:       "ann@example.com",
		Timestamp:   t0,
	}
	return &Repo{
		Root:   root,
		Head:   head,
		Recent: []vcs.Commit{head, feat, base},
		Parents: map[string]string{
			head.ChangeID: feat.ChangeID,
			feat.ChangeID: base.ChangeID,
		},
		Diffs: map[string]*vcs.Diff{
			head.ChangeID: {Files: []vcs.FileDiff{
				{
					Entry: vcs.DiffEntry{Before: "src/a.js", After: "src/a.js", BeforePresent: true, AfterPresent: true},
					Hunks: []vcs.Hunk{{
						OrigStart: 1, OrigLines: 2, NewStart: 1, NewLines: 2,
						Lines: []string{" let a = 1;", "-let b = 2;", "+let b = 3;"},
					}},
				},
				{
					Entry: vcs.DiffEntry{Before: "new.txt", After: "new.txt", AfterPresent: true},
					Hunks: []vcs.Hunk{{NewStart: 1, NewLines: 1, Lines: []string{"+hello"}}},
				},
				{
					Entry: vcs.DiffEntry{Before: "old.txt", After: "old.txt", BeforePresent: true},
					Hunks: []vcs.Hunk{{OrigStart: 1, OrigLines: 1, Lines: []string{"-bye"}}},
				},
				{
					Entry: vcs.DiffEntry{Before: "doc/x.md", After: "doc/y.md", BeforePresent: true, AfterPresent: true, Copy: vcs.Rename},
				},
			}},
			feat.ChangeID: {Files: []vcs.FileDiff{
				{Entry: vcs.DiffEntry{Before: "src/a.js", After: "src/a.js", AfterPresent: true}},
			}},
		},
		Annotations: map[string]map[string]*vcs.FileAnnotation{
			head.ChangeID: {
				"src/a.js": {
					Path: "src/a.js",
					Lines: []vcs.AnnotationLine{
						{Commit: feat, Content: "let a = 1;\n", LineNumber: 1, OriginalLineNumber: 1, FirstLineInHunk: true},
						{Commit: head, Content: "let b = 3;\n", LineNumber: 2, OriginalLineNumber: 2, FirstLineInHunk: true},
					},
				},
			},
			feat.ChangeID: {
				"src/a.js": {
					Path: "src/a.js",
					Lines: []vcs.AnnotationLine{
						{Commit: feat, Content: "let a = 1;\n", LineNumber: 1, OriginalLineNumber: 1, FirstLineInHunk: true},
						{Commit: feat, Content: "let b = 2;\n", LineNumber: 2, OriginalLineNumber: 2},
					},
				},
			},
		},
	}
}
