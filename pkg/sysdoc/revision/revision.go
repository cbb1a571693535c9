// Package revision derives a document revision history from git tags.
//
// Every tag becomes one revision: the tag name is the version, the date is
// the tagger date of an annotated tag or the commit date of a lightweight
// one, and the description is the tag message or the commit subject.
package revision

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/model"
)

// Open reads the revision history of the repository containing path.
func Open(path string) ([]model.Revision, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", path, err)
	}
	return FromRepository(repo)
}

// FromRepository reads the revision history of repo, oldest first. Tags
// with the same date are ordered by name.
func FromRepository(repo *git.Repository) ([]model.Revision, error) {
	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer iter.Close()

	type dated struct {
		rev  model.Revision
		when time.Time
	}
	var entries []dated
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		rev, when, err := fromTag(repo, ref)
		if err != nil {
			return err
		}
		entries = append(entries, dated{rev: rev, when: when})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].when.Equal(entries[j].when) {
			return entries[i].when.Before(entries[j].when)
		}
		return entries[i].rev.Version < entries[j].rev.Version
	})
	revs := make([]model.Revision, len(entries))
	for i, e := range entries {
		revs[i] = e.rev
	}
	return revs, nil
}

func fromTag(repo *git.Repository, ref *plumbing.Reference) (model.Revision, time.Time, error) {
	name := ref.Name().Short()

	tag, err := repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		return model.Revision{
			Version:     name,
			Date:        tag.Tagger.When.Format(time.RFC3339),
			Description: firstLine(tag.Message),
			Author:      tag.Tagger.Name,
		}, tag.Tagger.When, nil
	case !errors.Is(err, plumbing.ErrObjectNotFound):
		return model.Revision{}, time.Time{}, fmt.Errorf("failed to read tag %s: %w", name, err)
	}

	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return model.Revision{}, time.Time{}, fmt.Errorf("tag %s does not point to a commit: %w", name, err)
	}
	return fromCommit(name, commit), commit.Committer.When, nil
}

func fromCommit(version string, c *object.Commit) model.Revision {
	return model.Revision{
		Version:     version,
		Date:        c.Committer.When.Format(time.RFC3339),
		Description: firstLine(c.Message),
		Author:      c.Author.Name,
	}
}

func firstLine(msg string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(msg), "\n")
	return strings.TrimSpace(line)
}
