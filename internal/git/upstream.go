package git

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
)

// Upstream returns the remote-tracking reference configured as upstream for
// branch. An empty branch means the branch HEAD points to.
func (s *Service) Upstream(branch string) (plumbing.ReferenceName, error) {
	if branch == "" {
		current, err := s.Branch()
		if err != nil {
			return "", fmt.Errorf("upstream of HEAD: %w", err)
		}
		branch = current
	}
	cfg, err := s.repo.Config()
	if err != nil {
		return "", fmt.Errorf("read config: %w", err)
	}
	bc, ok := cfg.Branches[branch]
	if !ok || bc.Remote == "" || bc.Merge == "" {
		return "", fmt.Errorf("branch %s: %w", branch, ErrNoUpstream)
	}
	// A "." remote tracks another local branch.
	if bc.Remote == "." {
		return bc.Merge, nil
	}
	if remote, ok := cfg.Remotes[bc.Remote]; ok {
		for _, spec := range remote.Fetch {
			if spec.Match(bc.Merge) {
				return spec.Dst(bc.Merge), nil
			}
		}
	}
	return plumbing.NewRemoteReferenceName(bc.Remote, bc.Merge.Short()), nil
}
