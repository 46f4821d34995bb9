package git

import (
	"fmt"
	"log/slog"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
)

// StatusMask is a set of change kinds a status entry can carry, split by
// whether the change lives in the index or in the working tree.
type StatusMask uint16

const (
	IndexNew StatusMask = 1 << iota
	IndexModified
	IndexDeleted
	IndexRenamed
	IndexTypeChange
	WorktreeNew
	WorktreeModified
	WorktreeDeleted
	WorktreeTypeChange
	WorktreeRenamed
	Conflicted
)

const (
	// ModifiedMask selects unstaged working tree changes.
	ModifiedMask = WorktreeDeleted | WorktreeModified | WorktreeRenamed | WorktreeTypeChange
	// StagedMask selects changes recorded in the index.
	StagedMask = IndexDeleted | IndexModified | IndexNew | IndexRenamed | IndexTypeChange
)

var maskNames = []struct {
	bit  StatusMask
	name string
}{
	{IndexNew, "index-new"},
	{IndexModified, "index-modified"},
	{IndexDeleted, "index-deleted"},
	{IndexRenamed, "index-renamed"},
	{IndexTypeChange, "index-typechange"},
	{WorktreeNew, "wt-new"},
	{WorktreeModified, "wt-modified"},
	{WorktreeDeleted, "wt-deleted"},
	{WorktreeTypeChange, "wt-typechange"},
	{WorktreeRenamed, "wt-renamed"},
	{Conflicted, "conflicted"},
}

// Intersects reports whether m and other share at least one bit.
func (m StatusMask) Intersects(other StatusMask) bool {
	return m&other != 0
}

func (m StatusMask) String() string {
	if m == 0 {
		return "current"
	}
	var parts []string
	for _, n := range maskNames {
		if m&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// EntryMask converts a go-git file status into the change kinds it carries.
func EntryMask(st *gitlib.FileStatus) StatusMask {
	if st == nil {
		return 0
	}
	var m StatusMask
	switch st.Staging {
	case gitlib.Added, gitlib.Copied:
		m |= IndexNew
	case gitlib.Modified:
		m |= IndexModified
	case gitlib.Deleted:
		m |= IndexDeleted
	case gitlib.Renamed:
		m |= IndexRenamed
	case gitlib.UpdatedButUnmerged:
		m |= Conflicted
	}
	switch st.Worktree {
	case gitlib.Untracked:
		m |= WorktreeNew
	case gitlib.Modified:
		m |= WorktreeModified
	case gitlib.Deleted:
		m |= WorktreeDeleted
	case gitlib.Renamed:
		m |= WorktreeRenamed
	case gitlib.UpdatedButUnmerged:
		m |= Conflicted
	}
	return m
}

// CountStatuses counts the status entries (tracked and untracked, ignored
// paths excluded) whose change kinds intersect mask.
func (s *Service) CountStatuses(mask StatusMask) (int, error) {
	wt, err := s.repo.Worktree()
	if err != nil {
		return 0, fmt.Errorf("open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return 0, fmt.Errorf("read status: %w", err)
	}
	entries := make([]StatusMask, 0, len(status))
	for _, st := range status {
		entries = append(entries, EntryMask(st))
	}
	count := countMatching(entries, mask)
	slog.Debug("CountStatuses done",
		slog.String("mask", mask.String()),
		slog.Int("entries", len(entries)),
		slog.Int("count", count),
	)
	return count, nil
}

func countMatching(entries []StatusMask, mask StatusMask) int {
	count := 0
	for _, e := range entries {
		if e.Intersects(mask) {
			count++
		}
	}
	return count
}
