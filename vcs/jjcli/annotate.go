package jjcli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/signadot/jjpages/vcs"
)

// annotateTemplate prints the fields of an annotation line, each
// terminated by NUL. The content keeps its line break.
const annotateTemplate = `commit.change_id() ++ "\0" ++ commit.commit_id() ++ "\0" ++ ` +
	`commit.author().name() ++ "\0" ++ commit.author().email() ++ "\0" ++ ` +
	`commit.author().timestamp().utc().format("%Y-%m-%dT%H:%M:%SZ") ++ "\0" ++ ` +
	`line_number ++ "\0" ++ original_line_number ++ "\0" ++ ` +
	`if(first_line_in_hunk, "true", "false") ++ "\0" ++ content ++ "\0"`

const annotateFields = 9

func (r *Repo) Annotate(ctx context.Context, c vcs.Commit, path string) (*vcs.FileAnnotation, error) {
	out, err := r.query(ctx, "never", "file", "annotate", "-r", c.CommitID, "-T", annotateTemplate, "--", path)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && strings.Contains(cmdErr.Stderr, "No such path") {
			return nil, fmt.Errorf("%s: %w", path, vcs.ErrNoSuchPath)
		}
		return nil, err
	}
	lines, err := parseAnnotation(string(out))
	if err != nil {
		return nil, err
	}
	return &vcs.FileAnnotation{Path: path, Lines: lines}, nil
}

func parseAnnotation(out string) ([]vcs.AnnotationLine, error) {
	fields := strings.Split(out, "\x00")
	fields = fields[:len(fields)-1]
	if len(fields)%annotateFields != 0 {
		return nil, fmt.Errorf("malformed annotate output: %d fields", len(fields))
	}
	res := make([]vcs.AnnotationLine, 0, len(fields)/annotateFields)
	for i := 0; i < len(fields); i += annotateFields {
		f := fields[i : i+annotateFields]
		ts, err := time.Parse(timeLayout, f[4])
		if err != nil {
			return nil, fmt.Errorf("malformed annotate output: %w", err)
		}
		n, err := strconv.Atoi(f[5])
		if err != nil {
			return nil, fmt.Errorf("malformed annotate output: %w", err)
		}
		orig, err := strconv.Atoi(f[6])
		if err != nil {
			return nil, fmt.Errorf("malformed annotate output: %w", err)
		}
		res = append(res, vcs.AnnotationLine{
			Commit: vcs.Commit{
				ChangeID:  f[0],
				CommitID:  f[1],
				Author:    f[2],
				Email:     f[3],
				Timestamp: ts,
			},
			LineNumber:         n,
			OriginalLineNumber: orig,
			FirstLineInHunk:    f[7] == "true",
			Content:            f[8],
		})
	}
	return res, nil
}

const (
	authorWidth = 10
	stampLayout = "2006-01-02 15:04:05"
	// change ID, author and timestamp columns, each followed by a space
	commitColumns = 8 + 1 + authorWidth + 1 + len(stampLayout) + 1
)

// RenderAnnotationLine writes the line in the layout of jj's default
// annotate template. The commit columns are blank except on the first
// line of a hunk.
func (r *Repo) RenderAnnotationLine(_ context.Context, line vcs.AnnotationLine, w vcs.LabelSink) error {
	c := line.Commit
	if line.FirstLineInHunk {
		fields := []struct{ label, text string }{
			{"change_id", fmt.Sprintf("%-8s", c.ShortChangeID())},
			{"author", fmt.Sprintf("%-*s", authorWidth, truncate(c.Author, authorWidth))},
			{"timestamp", c.Timestamp.Local().Format(stampLayout)},
		}
		for _, f := range fields {
			if err := vcs.WriteLabelled(w, f.label, f.text); err != nil {
				return err
			}
			if _, err := fmt.Fprint(w, " "); err != nil {
				return err
			}
		}
	} else {
		if _, err := fmt.Fprint(w, strings.Repeat(" ", commitColumns)); err != nil {
			return err
		}
	}
	if err := vcs.WriteLabelled(w, "line_number", fmt.Sprintf("%4d", line.LineNumber)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, ": %s", line.Content)
	return err
}

func truncate(s string, n int) string {
	i := 0
	for j := range s {
		if i == n {
			return s[:j]
		}
		i++
	}
	return s
}
