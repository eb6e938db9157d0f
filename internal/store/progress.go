package store

import (
	"fmt"
	"time"

	"github.com/YannKr/studyportal/internal/model"
)

// ItemKind selects which of a subject's item lists an operation targets.
type ItemKind string

const (
	KindVideo    ItemKind = "video"
	KindPlaylist ItemKind = "playlist"
	KindDocument ItemKind = "document"
)

// UpdateProgress sets an item's completion percent. Progress is never
// advanced automatically; this is the only way it moves.
func (s *Store) UpdateProgress(account, subject string, kind ItemKind, itemID string, progress int) error {
	if progress < 0 || progress > 100 {
		return fmt.Errorf("%w: progress %d out of range", ErrInvalidInput, progress)
	}
	return s.Mutate(account, func(tree *model.ContentTree) error {
		sub, err := subjectOf(tree, subject)
		if err != nil {
			return err
		}
		switch kind {
		case KindVideo:
			for i := range sub.Videos {
				if sub.Videos[i].ItemID == itemID {
					sub.Videos[i].Progress = progress
					return nil
				}
			}
		case KindPlaylist:
			for i := range sub.Playlists {
				if sub.Playlists[i].ItemID == itemID {
					sub.Playlists[i].Progress = progress
					return nil
				}
			}
		case KindDocument:
			for i := range sub.Documents {
				if sub.Documents[i].ItemID == itemID {
					sub.Documents[i].Progress = progress
					return nil
				}
			}
		default:
			return fmt.Errorf("%w: unknown item kind %q", ErrInvalidInput, kind)
		}
		return fmt.Errorf("%s %s: %w", kind, itemID, ErrNotFound)
	})
}

// AppendSession records one completed study interval and keeps the running
// total in step with the event log.
func (s *Store) AppendSession(account string, ev model.SessionEvent) error {
	if ev.Duration < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidInput)
	}
	return s.Mutate(account, func(tree *model.ContentTree) error {
		tree.StudySessions = append(tree.StudySessions, ev)
		tree.TotalStudyTime += ev.Duration
		return nil
	})
}

// TouchLastLogin stamps the tree with the current login time.
func (s *Store) TouchLastLogin(account string) error {
	return s.Mutate(account, func(tree *model.ContentTree) error {
		tree.LastLogin = time.Now().UTC()
		return nil
	})
}
