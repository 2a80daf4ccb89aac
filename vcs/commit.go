package vcs

import (
	"strings"
	"time"
)

const shortIDLen = 8

type Commit struct {
	ChangeID    string
	CommitID    string
	Description string
	Author      string
	Email       string
	Timestamp   time.Time
	Empty       bool
}

// ShortChangeID is the change ID as jj abbreviates it by default.
func (c Commit) ShortChangeID() string {
	return short(c.ChangeID)
}

func (c Commit) ShortCommitID() string {
	return short(c.CommitID)
}

// Subject is the first line of the description.
func (c Commit) Subject() string {
	subject, _, _ := strings.Cut(c.Description, "\n")
	return subject
}

func short(id string) string {
	n := 0
	for i := range id {
		if n == shortIDLen {
			return id[:i]
		}
		n++
	}
	return id
}

// FileAnnotation attributes each line of a file to the commit that last
// changed it.
type FileAnnotation struct {
	Path  string
	Lines []AnnotationLine
}

type AnnotationLine struct {
	Commit  Commit
	Content string
	// 1-based
	LineNumber         int
	OriginalLineNumber int
	FirstLineInHunk    bool
}
