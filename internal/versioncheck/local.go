package versioncheck

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"

	"github.com/projgen/cli/internal/version"
)

// ErrNoLocalCommit is returned when neither the template checkout nor the
// binary carries a commit to compare against.
var ErrNoLocalCommit = errors.New("no local commit to compare")

// LocalCommit returns the HEAD commit of the git checkout containing dir.
// When dir is empty or not inside a repository, the commit the binary was
// built from is used instead; it has no date.
func LocalCommit(dir string) (Commit, error) {
	if dir == "" {
		return buildCommit()
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return buildCommit()
	}
	if err != nil {
		return Commit{}, fmt.Errorf("opening repository at %s: %w", dir, err)
	}

	head, err := repo.Head()
	if err != nil {
		return Commit{}, fmt.Errorf("reading HEAD: %w", err)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return Commit{}, fmt.Errorf("reading commit %s: %w", head.Hash(), err)
	}

	date, err := FixTimestamp(commit.Committer.When.Format(gitDateLayout))
	if err != nil {
		return Commit{}, err
	}

	return Commit{Hash: commit.Hash.String(), Date: date}, nil
}

func buildCommit() (Commit, error) {
	info := version.Get()
	if !info.HasCommit() {
		return Commit{}, ErrNoLocalCommit
	}
	return Commit{Hash: info.GitCommit}, nil
}
