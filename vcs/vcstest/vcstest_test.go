package vcstest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/jjpages/vcs"
)

func TestLocate(t *testing.T) {
	outer := &Repo{Root: "/r"}
	inner := &Repo{Root: "/r/sub"}
	b := &Backend{Repos: []*Repo{outer, inner}}
	ctx := context.Background()
	tests := []struct {
		start string
		want  *Repo
	}{
		{"/r", outer},
		{"/r/.control/status.page", outer},
		{"/r/sub/x", inner},
		{"/rx", nil},
	}
	for _, tt := range tests {
		got, err := b.Locate(ctx, tt.start)
		if tt.want == nil {
			if !errors.Is(err, vcs.ErrNoRepository) {
				t.Errorf("Locate(%q) error %v, want ErrNoRepository", tt.start, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Locate(%q) = %v, %v", tt.start, got, err)
		}
	}
}

func TestResolve(t *testing.T) {
	r := Sample("/r")
	ctx := context.Background()
	tests := []struct {
		rev  string
		want string
		err  error
	}{
		{"@", r.Head.ChangeID, nil},
		{"rlv", "rlvkpnrzqnoowoytxnquwvuryrwnrmlp", nil},
		{"@-", "rlvkpnrzqnoowoytxnquwvuryrwnrmlp", nil},
		{"@--", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz", nil},
		{"@---", "", vcs.ErrEmpty},
		{"nothing", "", vcs.ErrEmpty},
		{"", "", vcs.ErrEmpty},
	}
	for _, tt := range tests {
		c, err := r.Resolve(ctx, tt.rev)
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Errorf("Resolve(%q) error %v, want %v", tt.rev, err, tt.err)
			}
			continue
		}
		if err != nil || c.ChangeID != tt.want {
			t.Errorf("Resolve(%q) = %s, %v", tt.rev, c.ChangeID, err)
		}
	}
}

func TestResolveAmbiguous(t *testing.T) {
	r := Sample("/r")
	r.Recent = append(r.Recent, vcs.Commit{ChangeID: "rlvxxxxx"})
	if _, err := r.Resolve(context.Background(), "rlv"); !errors.Is(err, vcs.ErrAmbiguous) {
		t.Errorf("got %v, want ErrAmbiguous", err)
	}
}

func TestMutations(t *testing.T) {
	r := Sample("/r")
	ctx := context.Background()
	r.New(ctx, "abc")
	r.Abandon(ctx, "def")
	r.Squash(ctx)
	r.Squash(ctx, "a", "b")
	want := []string{"new abc", "abandon def", "squash", "squash a b"}
	if diff := cmp.Diff(want, r.Calls()); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}
