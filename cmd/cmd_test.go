package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func committedRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := gitlib.PlainInitWithOptions(dir, &gitlib.PlainInitOptions{
		InitOptions: gitlib.InitOptions{DefaultBranch: plumbing.Main},
	})
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "file.txt"), []byte("one\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := wt.Add("file.txt"); err != nil {
		t.Fatalf("add: %v", err)
	}
	sig := &object.Signature{Name: "Tester", Email: "tester@example.com", When: time.Unix(1700000000, 0)}
	if _, err := wt.Commit("initial", &gitlib.CommitOptions{Author: sig, Committer: sig}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return dir
}

func TestSymbols(t *testing.T) {
	out, err := execute(t, "symbols")
	if err != nil {
		t.Fatalf("symbols: %v", err)
	}
	want := "describe: describe describe_v2\ngit: branch modified_count staged_count ahead_count behind_count\n"
	if out != want {
		t.Fatalf("symbols output = %q, want %q", out, want)
	}

	if _, err := execute(t, "symbols", "nope"); err == nil {
		t.Fatalf("expected error for unknown namespace")
	}
}

func TestCall_Describe(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "none", want: "no arguments supplied"},
		{name: "key", args: []string{"--key", "k", "--arg", "x", "--arg", "y"}, want: `key: String(k); args: ["x" "y"]`},
		{name: "keys", args: []string{"--keys", "a,b", "--arg", "c"}, want: `key: Array(["a" "b"]); args: ["c"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"call", "--namespace", "describe", "describe"}, tt.args...)
			out, err := execute(t, args...)
			if err != nil {
				t.Fatalf("call: %v", err)
			}
			if got := strings.TrimSuffix(out, "\n"); got != tt.want {
				t.Fatalf("call output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCall_InvalidFlags(t *testing.T) {
	cases := [][]string{
		{"call", "-n", "describe", "describe", "--key", "a", "--keys", "b"},
		{"call", "-n", "describe", "describe", "--arg", "a"},
		{"call", "-n", "describe", "describe", "--key", "a\x00b"},
		{"call", "-n", "describe", "missing"},
		{"call", "-n", "other", "describe"},
	}
	for _, args := range cases {
		if _, err := execute(t, args...); err == nil {
			t.Fatalf("execute(%q) succeeded, want error", args)
		}
	}
}

func TestCall_AbsentIsError(t *testing.T) {
	t.Setenv("PROMPTNS_REPO", t.TempDir())

	_, err := execute(t, "call", "branch")
	if !errors.Is(err, errNoValue) {
		t.Fatalf("call branch outside a repository err = %v, want errNoValue", err)
	}
}

func TestCall_Branch(t *testing.T) {
	t.Setenv("PROMPTNS_REPO", committedRepo(t))

	out, err := execute(t, "call", "branch")
	if err != nil {
		t.Fatalf("call branch: %v", err)
	}
	if out != "main\n" {
		t.Fatalf("call branch = %q, want main", out)
	}
}

func TestRender(t *testing.T) {
	dir := committedRepo(t)
	out, err := execute(t, dir)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "main +0 ~0\n" {
		t.Fatalf("default format = %q", out)
	}

	if err := os.WriteFile(filepath.Join(dir, "file.txt"), []byte("two\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err = execute(t, "--format", "{{.branch}}/{{.modified_count}}/[{{.ahead_count}}]", dir)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "main/1/[]\n" {
		t.Fatalf("custom format = %q", out)
	}
}

func TestRender_NotARepository(t *testing.T) {
	out, err := execute(t, t.TempDir())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "\n" {
		t.Fatalf("render outside a repository = %q, want empty line", out)
	}
}

func TestRender_BadFormat(t *testing.T) {
	if _, err := execute(t, "--format", "{{.branch", t.TempDir()); err == nil {
		t.Fatalf("expected template parse error")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatalf("version output is empty")
	}
}

func TestVersion_IgnoresBrokenConfig(t *testing.T) {
	t.Setenv("PROMPTNS_LOG_LEVEL", "bogus")

	if _, err := execute(t, "--version"); err != nil {
		t.Fatalf("--version with an invalid log level: %v", err)
	}
	if _, err := execute(t, "symbols"); err == nil {
		t.Fatalf("expected config error without --version")
	}
}
