package jjcli

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/signadot/jjpages/vcs"
	"github.com/sourcegraph/go-diff/diff"
)

const devNull = "/dev/null"

// parseGitDiff reads the output of jj diff --git.
func parseGitDiff(out []byte) (*vcs.Diff, error) {
	fds, err := diff.NewMultiFileDiffReader(bytes.NewReader(out)).ReadAllFiles()
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}
	res := &vcs.Diff{Files: make([]vcs.FileDiff, 0, len(fds))}
	for _, fd := range fds {
		res.Files = append(res.Files, convertFileDiff(fd))
	}
	return res, nil
}

func convertFileDiff(fd *diff.FileDiff) vcs.FileDiff {
	e := vcs.DiffEntry{
		Before:        strings.TrimPrefix(fd.OrigName, "a/"),
		After:         strings.TrimPrefix(fd.NewName, "b/"),
		BeforePresent: fd.OrigName != devNull,
		AfterPresent:  fd.NewName != devNull,
	}
	res := vcs.FileDiff{}
	for _, x := range fd.Extended {
		switch {
		case strings.HasPrefix(x, "new file mode"):
			e.BeforePresent = false
		case strings.HasPrefix(x, "deleted file mode"):
			e.AfterPresent = false
		case strings.HasPrefix(x, "rename from "):
			e.Copy = vcs.Rename
			e.Before = strings.TrimPrefix(x, "rename from ")
		case strings.HasPrefix(x, "rename to "):
			e.After = strings.TrimPrefix(x, "rename to ")
		case strings.HasPrefix(x, "copy from "):
			e.Copy = vcs.Copy
			e.Before = strings.TrimPrefix(x, "copy from ")
		case strings.HasPrefix(x, "copy to "):
			e.After = strings.TrimPrefix(x, "copy to ")
		case strings.HasPrefix(x, "Binary files "), x == "GIT binary patch":
			res.Binary = true
		}
	}
	if !e.BeforePresent {
		e.Before = e.After
	}
	if !e.AfterPresent {
		e.After = e.Before
	}
	res.Entry = e
	for _, h := range fd.Hunks {
		res.Hunks = append(res.Hunks, convertHunk(h))
	}
	return res
}

func convertHunk(h *diff.Hunk) vcs.Hunk {
	res := vcs.Hunk{
		OrigStart: int(h.OrigStartLine),
		OrigLines: int(h.OrigLines),
		NewStart:  int(h.NewStartLine),
		NewLines:  int(h.NewLines),
		Section:   h.Section,
	}
	body := strings.TrimSuffix(string(h.Body), "\n")
	if body == "" {
		return res
	}
	for _, line := range strings.Split(body, "\n") {
		// "\ No newline at end of file"
		if strings.HasPrefix(line, `\`) {
			continue
		}
		res.Lines = append(res.Lines, line)
	}
	return res
}
