package provider

import (
	"strconv"

	"github.com/thiagokokada/promptns/internal/git"
)

// Git returns the namespace backing the git status library.
func Git() *Namespace {
	return mustNamespace("git",
		Provider{Name: "branch", Func: gitQuery((*git.Service).Branch)},
		Provider{Name: "modified_count", Func: gitCount((*git.Service).ModifiedCount)},
		Provider{Name: "staged_count", Func: gitCount((*git.Service).StagedCount)},
		Provider{Name: "ahead_count", Func: gitCount((*git.Service).AheadCount)},
		Provider{Name: "behind_count", Func: gitCount((*git.Service).BehindCount)},
	)
}

// gitQuery opens the repository fresh for every call.
func gitQuery(query func(*git.Service) (string, error)) Func {
	return func(req Request) (string, error) {
		svc, err := git.Open(req.Dir)
		if err != nil {
			return "", err
		}
		return query(svc)
	}
}

func gitCount(count func(*git.Service) (int, error)) Func {
	return gitQuery(func(svc *git.Service) (string, error) {
		n, err := count(svc)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(n), nil
	})
}
