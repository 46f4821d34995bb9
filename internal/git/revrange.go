package git

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Range selects the commits reachable from To but not from From.
type Range struct {
	From string
	To   string
}

var (
	AheadRange  = Range{From: "@{upstream}", To: "HEAD"}
	BehindRange = Range{From: "HEAD", To: "@{upstream}"}
)

func (r Range) String() string {
	return r.From + ".." + r.To
}

// ParseRange parses a two-dot range expression such as "main..HEAD".
// An empty side defaults to HEAD.
func ParseRange(expr string) (Range, error) {
	if strings.Contains(expr, "...") {
		return Range{}, fmt.Errorf("parse range %q: symmetric difference not supported", expr)
	}
	from, to, ok := strings.Cut(expr, "..")
	if !ok {
		return Range{}, fmt.Errorf("parse range %q: missing '..'", expr)
	}
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" {
		from = "HEAD"
	}
	if to == "" {
		to = "HEAD"
	}
	return Range{From: from, To: to}, nil
}

// CountRevs walks the range and returns how many commits it selects.
func (s *Service) CountRevs(r Range) (int, error) {
	from, err := s.resolveCommit(r.From)
	if err != nil {
		return 0, fmt.Errorf("range %s: %w", r, err)
	}
	to, err := s.resolveCommit(r.To)
	if err != nil {
		return 0, fmt.Errorf("range %s: %w", r, err)
	}

	hidden := make(map[plumbing.Hash]bool)
	err = object.NewCommitPreorderIter(from, nil, nil).ForEach(func(c *object.Commit) error {
		hidden[c.Hash] = true
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("range %s: walk %s: %w", r, r.From, err)
	}

	count := 0
	err = object.NewCommitPreorderIter(to, hidden, nil).ForEach(func(*object.Commit) error {
		count++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("range %s: walk %s: %w", r, r.To, err)
	}
	slog.Debug("CountRevs done",
		slog.String("range", r.String()),
		slog.Int("hidden", len(hidden)),
		slog.Int("count", count),
	)
	return count, nil
}

func (s *Service) resolveCommit(expr string) (*object.Commit, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty revision: %w", ErrUnresolvableRange)
	}
	if branch, ok := upstreamShorthand(expr); ok {
		name, err := s.Upstream(branch)
		if err != nil {
			return nil, err
		}
		ref, err := s.repo.Reference(name, true)
		if err != nil {
			return nil, fmt.Errorf("resolve %s (%s): %v: %w", expr, name, err, ErrUnresolvableRange)
		}
		return s.commitAt(expr, ref.Hash())
	}
	hash, err := s.repo.ResolveRevision(plumbing.Revision(expr))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %v: %w", expr, err, ErrUnresolvableRange)
	}
	return s.commitAt(expr, *hash)
}

func (s *Service) commitAt(expr string, hash plumbing.Hash) (*object.Commit, error) {
	commit, err := s.repo.CommitObject(hash)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, fmt.Errorf("resolve %s: commit %s not found: %w", expr, hash, ErrUnresolvableRange)
		}
		return nil, fmt.Errorf("resolve %s: %v: %w", expr, err, ErrUnresolvableRange)
	}
	return commit, nil
}

var upstreamSuffixes = []string{"@{upstream}", "@{u}"}

// upstreamShorthand recognizes "@{u}", "@{upstream}" and their
// "<branch>@{...}" forms. An empty branch means the current branch.
func upstreamShorthand(expr string) (branch string, ok bool) {
	for _, suffix := range upstreamSuffixes {
		n := len(expr) - len(suffix)
		if n >= 0 && strings.EqualFold(expr[n:], suffix) {
			return expr[:n], true
		}
	}
	return "", false
}
