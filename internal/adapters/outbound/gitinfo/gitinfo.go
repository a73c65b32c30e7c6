package gitinfo

import (
	"github.com/go-git/go-git/v5"

	"github.com/fluttervet/fluttervet/internal/domain"
)

// GitInfoAdapter implements domain.GitMetadata using go-git.
type GitInfoAdapter struct{}

func New() *GitInfoAdapter {
	return &GitInfoAdapter{}
}

// Describe reads repository metadata best effort; a project that is not
// a git repository yields the zero RepoInfo.
func (g *GitInfoAdapter) Describe(projectPath string) domain.RepoInfo {
	repo, err := git.PlainOpen(projectPath)
	if err != nil {
		return domain.RepoInfo{}
	}

	info := domain.RepoInfo{IsRepo: true}
	head, err := repo.Head()
	if err != nil {
		return info
	}
	info.Commit = head.Hash().String()
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}
	return info
}
