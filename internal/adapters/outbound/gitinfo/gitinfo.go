// Package gitinfo stamps history records with the commit they were taken
// at, using go-git so no git binary is required.
package gitinfo

import "github.com/go-git/go-git/v5"

// abbrevLen matches the short-hash width git itself prints for this size
// of repository.
const abbrevLen = 12

type Adapter struct{}

func New() *Adapter {
	return &Adapter{}
}

// HeadCommit resolves HEAD in the repository at projectPath and returns
// its abbreviated hash. A missing repository or an unborn branch both
// report false; history records simply carry no commit stamp then.
func (a *Adapter) HeadCommit(projectPath string) (string, bool) {
	repo, err := git.PlainOpen(projectPath)
	if err != nil {
		return "", false
	}
	head, err := repo.Head()
	if err != nil {
		return "", false
	}
	hash := head.Hash().String()
	if len(hash) > abbrevLen {
		hash = hash[:abbrevLen]
	}
	return hash, true
}
