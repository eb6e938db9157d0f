package store

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/YannKr/studyportal/internal/model"
)

// AddSubject inserts an empty subject. The name is the key; a duplicate
// yields ErrAlreadyExists and leaves the tree untouched.
func (s *Store) AddSubject(account, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty subject name", ErrInvalidInput)
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: subject name must not contain path separators", ErrInvalidInput)
	}
	return s.Mutate(account, func(tree *model.ContentTree) error {
		if _, ok := tree.Subjects[name]; ok {
			return fmt.Errorf("subject %q: %w", name, ErrAlreadyExists)
		}
		tree.Subjects[name] = &model.Subject{
			Videos:    []model.VideoItem{},
			Playlists: []model.PlaylistItem{},
			Documents: []model.DocumentItem{},
			CreatedAt: time.Now().UTC(),
		}
		return nil
	})
}

// RemoveSubject deletes the subject as a whole unit, including the backing
// document directory. File removal is best-effort.
func (s *Store) RemoveSubject(account, name string) error {
	return s.Mutate(account, func(tree *model.ContentTree) error {
		if _, ok := tree.Subjects[name]; !ok {
			return fmt.Errorf("subject %q: %w", name, ErrNotFound)
		}
		delete(tree.Subjects, name)
		if err := os.RemoveAll(s.docsDir(account, name)); err != nil {
			slog.Warn("remove subject docs dir", "account", account, "subject", name, "error", err)
		}
		return nil
	})
}

func subjectOf(tree *model.ContentTree, name string) (*model.Subject, error) {
	sub, ok := tree.Subjects[name]
	if !ok {
		return nil, fmt.Errorf("subject %q: %w", name, ErrNotFound)
	}
	return sub, nil
}
