package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type testRepo struct {
	dir  string
	repo *gitlib.Repository
	wt   *gitlib.Worktree
	tick int
}

func initTestRepo(t *testing.T) *testRepo {
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
	return &testRepo{dir: dir, repo: repo, wt: wt}
}

func (r *testRepo) write(t *testing.T, name, content string) {
	t.Helper()
	path := filepath.Join(r.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func (r *testRepo) add(t *testing.T, name string) {
	t.Helper()
	if _, err := r.wt.Add(name); err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
}

func (r *testRepo) commit(t *testing.T, msg string) plumbing.Hash {
	t.Helper()
	r.tick++
	sig := &object.Signature{
		Name:  "Tester",
		Email: "tester@example.com",
		When:  time.Date(2024, 1, 1, 0, r.tick, 0, 0, time.UTC),
	}
	hash, err := r.wt.Commit(msg, &gitlib.CommitOptions{Author: sig, Committer: sig, AllowEmptyCommits: true})
	if err != nil {
		t.Fatalf("commit %q: %v", msg, err)
	}
	return hash
}

func (r *testRepo) setRef(t *testing.T, name plumbing.ReferenceName, hash plumbing.Hash) {
	t.Helper()
	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(name, hash)); err != nil {
		t.Fatalf("set %s: %v", name, err)
	}
}

// trackOrigin configures branch main to track origin/main with the default
// fetch refspec and points refs/remotes/origin/main at hash.
func (r *testRepo) trackOrigin(t *testing.T, hash plumbing.Hash) {
	t.Helper()
	cfg, err := r.repo.Config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.Remotes["origin"] = &config.RemoteConfig{
		Name:  "origin",
		URLs:  []string{"https://example.com/repo.git"},
		Fetch: []config.RefSpec{"+refs/heads/*:refs/remotes/origin/*"},
	}
	cfg.Branches["main"] = &config.Branch{Name: "main", Remote: "origin", Merge: plumbing.Main}
	if err := r.repo.SetConfig(cfg); err != nil {
		t.Fatalf("set config: %v", err)
	}
	r.setRef(t, plumbing.NewRemoteReferenceName("origin", "main"), hash)
}

func (r *testRepo) open(t *testing.T) *Service {
	t.Helper()
	svc, err := Open(r.dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return svc
}
