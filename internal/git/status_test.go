package git

import (
	"math/rand/v2"
	"testing"

	gitlib "github.com/go-git/go-git/v5"
)

func TestEntryMask(t *testing.T) {
	tests := []struct {
		name string
		st   *gitlib.FileStatus
		want StatusMask
	}{
		{name: "nil", st: nil, want: 0},
		{name: "clean", st: &gitlib.FileStatus{Staging: gitlib.Unmodified, Worktree: gitlib.Unmodified}, want: 0},
		{name: "untracked", st: &gitlib.FileStatus{Staging: gitlib.Untracked, Worktree: gitlib.Untracked}, want: WorktreeNew},
		{name: "added_then_modified", st: &gitlib.FileStatus{Staging: gitlib.Added, Worktree: gitlib.Modified}, want: IndexNew | WorktreeModified},
		{name: "staged_delete", st: &gitlib.FileStatus{Staging: gitlib.Deleted, Worktree: gitlib.Unmodified}, want: IndexDeleted},
		{name: "worktree_delete", st: &gitlib.FileStatus{Staging: gitlib.Unmodified, Worktree: gitlib.Deleted}, want: WorktreeDeleted},
		{name: "renamed", st: &gitlib.FileStatus{Staging: gitlib.Renamed, Worktree: gitlib.Unmodified}, want: IndexRenamed},
		{name: "copied", st: &gitlib.FileStatus{Staging: gitlib.Copied, Worktree: gitlib.Unmodified}, want: IndexNew},
		{name: "unmerged", st: &gitlib.FileStatus{Staging: gitlib.UpdatedButUnmerged, Worktree: gitlib.UpdatedButUnmerged}, want: Conflicted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EntryMask(tt.st); got != tt.want {
				t.Fatalf("EntryMask() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPredefinedMasksAreDisjoint(t *testing.T) {
	if ModifiedMask.Intersects(StagedMask) {
		t.Fatalf("ModifiedMask %s overlaps StagedMask %s", ModifiedMask, StagedMask)
	}
	if ModifiedMask.Intersects(WorktreeNew) {
		t.Fatal("untracked files must not count as modified")
	}
	if !StagedMask.Intersects(IndexNew) {
		t.Fatal("newly added files must count as staged")
	}
}

func TestCountMatching_OrderIndependent(t *testing.T) {
	entries := []StatusMask{
		WorktreeNew,
		IndexNew | WorktreeModified,
		WorktreeModified,
		IndexModified,
		IndexDeleted,
		WorktreeDeleted,
		Conflicted,
		0,
		IndexRenamed | WorktreeTypeChange,
	}
	wantModified := countMatching(entries, ModifiedMask)
	wantStaged := countMatching(entries, StagedMask)
	if wantModified != 4 || wantStaged != 4 {
		t.Fatalf("modified=%d staged=%d, want 4 and 4", wantModified, wantStaged)
	}

	rng := rand.New(rand.NewPCG(1, 2))
	shuffled := append([]StatusMask(nil), entries...)
	for range 50 {
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		if got := countMatching(shuffled, ModifiedMask); got != wantModified {
			t.Fatalf("modified count changed under reordering: %d != %d (%v)", got, wantModified, shuffled)
		}
		if got := countMatching(shuffled, StagedMask); got != wantStaged {
			t.Fatalf("staged count changed under reordering: %d != %d (%v)", got, wantStaged, shuffled)
		}
	}
}

func TestStatusMaskString(t *testing.T) {
	if got := StatusMask(0).String(); got != "current" {
		t.Fatalf("String() = %q", got)
	}
	if got := (IndexNew | WorktreeModified).String(); got != "index-new|wt-modified" {
		t.Fatalf("String() = %q", got)
	}
}
