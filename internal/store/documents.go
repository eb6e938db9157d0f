package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/YannKr/studyportal/internal/model"
)

// AddDocument writes the bytes under the subject's document directory and
// appends a record. A filename already present in the subject is silently
// skipped, never overwritten; skipped reports which case happened.
func (s *Store) AddDocument(account, subject, filename string, data []byte) (doc model.DocumentItem, skipped bool, err error) {
	base := filepath.Base(filename)
	if base == "" || base == "." || base == ".." {
		return model.DocumentItem{}, false, fmt.Errorf("%w: bad filename %q", ErrInvalidInput, filename)
	}
	err = s.Mutate(account, func(tree *model.ContentTree) error {
		sub, err := subjectOf(tree, subject)
		if err != nil {
			return err
		}
		for _, d := range sub.Documents {
			if d.Filename == base {
				skipped = true
				return nil
			}
		}
		dir := s.docsDir(account, subject)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create docs dir: %w", err)
		}
		path := filepath.Join(dir, base)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write document: %w", err)
		}
		doc = model.DocumentItem{
			ItemID:      uuid.New().String(),
			Filename:    base,
			Path:        path,
			CurrentPage: 1,
			AddedAt:     time.Now().UTC(),
		}
		sub.Documents = append(sub.Documents, doc)
		return nil
	})
	return doc, skipped, err
}

// RemoveDocument deletes the record and best-effort removes the backing
// file; a file already gone does not fail the removal.
func (s *Store) RemoveDocument(account, subject, itemID string) error {
	return s.Mutate(account, func(tree *model.ContentTree) error {
		sub, err := subjectOf(tree, subject)
		if err != nil {
			return err
		}
		for i := range sub.Documents {
			if sub.Documents[i].ItemID == itemID {
				path := sub.Documents[i].Path
				sub.Documents = append(sub.Documents[:i], sub.Documents[i+1:]...)
				if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
					slog.Warn("remove document file", "path", path, "error", err)
				}
				return nil
			}
		}
		return fmt.Errorf("document %s: %w", itemID, ErrNotFound)
	})
}

// SaveDocumentPage bookmarks the reading position within a document.
func (s *Store) SaveDocumentPage(account, subject, itemID string, currentPage, totalPages int) error {
	if currentPage < 1 || totalPages < 0 {
		return fmt.Errorf("%w: bad page numbers", ErrInvalidInput)
	}
	return s.Mutate(account, func(tree *model.ContentTree) error {
		sub, err := subjectOf(tree, subject)
		if err != nil {
			return err
		}
		for i := range sub.Documents {
			if sub.Documents[i].ItemID == itemID {
				sub.Documents[i].CurrentPage = currentPage
				if totalPages > 0 {
					sub.Documents[i].TotalPages = totalPages
				}
				return nil
			}
		}
		return fmt.Errorf("document %s: %w", itemID, ErrNotFound)
	})
}
