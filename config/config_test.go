package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvJJ, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLoadPrecedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv(EnvJJ, "")
	writeFile(t, filepath.Join(home, Base, "jjpages.yaml"), "logRevset: from-yaml\n")
	writeFile(t, filepath.Join(home, Base, "jjpages.toml"), "logRevset = \"from-toml\"\nconcurrency = 2\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	want.LogRevset = "from-toml"
	want.Concurrency = 2
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("toml before yaml (-want +got):\n%s", diff)
	}

	t.Setenv(EnvJJ, "/opt/jj")
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.JJ != "/opt/jj" {
		t.Errorf("env did not override jj: %q", cfg.JJ)
	}
}

func TestLoadYAML(t *testing.T) {
	t.Setenv(EnvJJ, "")
	path := filepath.Join(t.TempDir(), "c.yaml")
	writeFile(t, path, "jj: jj-dev\ncommitTemplate: builtin_log_compact\nannotateRevision: \"@-\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	want.JJ = "jj-dev"
	want.CommitTemplate = "builtin_log_compact"
	want.AnnotateRevision = "@-"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(EnvJJ, "")
	dir := t.TempDir()
	tests := []struct {
		name, file, content, want string
	}{
		{"unknown toml key", "a.toml", "colour = 1\n", "unknown setting"},
		{"unknown yaml key", "b.yaml", "colour: 1\n", "failed to parse YAML"},
		{"bad toml", "c.toml", "jj = \n", "failed to parse TOML"},
		{"zero concurrency", "d.toml", "concurrency = 0\n", "concurrency must be positive"},
		{"empty revset", "e.yaml", "logRevset: \"\"\n", "logRevset must not be empty"},
		{"unsupported", "f.json", "{}", "unsupported config format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			writeFile(t, path, tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("missing explicit file accepted")
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	err := (&Config{}).Validate()
	if err == nil {
		t.Fatal("empty config valid")
	}
	for _, s := range []string{"jj", "logRevset", "commitTemplate", "annotateRevision", "concurrency"} {
		if !strings.Contains(err.Error(), s) {
			t.Errorf("error %q does not mention %s", err, s)
		}
	}
}
