package git

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Service answers read-only queries against a single repository.
//
// A Service is a snapshot handle: providers open a new one on every call so
// no repository state is shared between calls.
type Service struct {
	repo repoState
}

type repoState struct {
	*gitlib.Repository
	path string
}

// Open locates the repository containing repoPath, walking up the directory
// tree until a .git entry is found.
func Open(repoPath string) (*Service, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gitlib.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("open repository %s: %w", abs, ErrNotARepository)
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}
	slog.Debug("repository opened", slog.String("path", abs))
	return &Service{repo: repoState{path: abs, Repository: repo}}, nil
}

func (s *Service) RepoPath() string {
	return s.repo.path
}

// Branch returns the short name of the branch HEAD points to.
func (s *Service) Branch() (string, error) {
	ref, err := s.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", fmt.Errorf("resolve HEAD: unborn branch: %w", ErrNoSymbolicReference)
		}
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	if !ref.Name().IsBranch() {
		return "", fmt.Errorf("resolve HEAD: detached at %s: %w", ref.Hash(), ErrNoSymbolicReference)
	}
	return ref.Name().Short(), nil
}

// ModifiedCount counts entries with unstaged working tree changes.
func (s *Service) ModifiedCount() (int, error) {
	return s.CountStatuses(ModifiedMask)
}

// StagedCount counts entries with changes recorded in the index.
func (s *Service) StagedCount() (int, error) {
	return s.CountStatuses(StagedMask)
}

// AheadCount counts commits on HEAD that are not on its upstream.
func (s *Service) AheadCount() (int, error) {
	return s.CountRevs(AheadRange)
}

// BehindCount counts commits on the upstream that are not on HEAD.
func (s *Service) BehindCount() (int, error) {
	return s.CountRevs(BehindRange)
}

// Root returns the top directory of the working tree.
func (s *Service) Root() (string, error) {
	wt, err := s.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("open worktree: %w", err)
	}
	return wt.Filesystem.Root(), nil
}
