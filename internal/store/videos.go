package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/YannKr/studyportal/internal/model"
)

// AddVideo extracts the video ID from the URL and appends a new item to the
// subject. A URL no pattern matches is rejected without mutating anything.
// An empty title defaults to "Video {n+1}".
func (s *Store) AddVideo(account, subject, url, title string) (model.VideoItem, error) {
	var added model.VideoItem
	err := s.Mutate(account, func(tree *model.ContentTree) error {
		sub, err := subjectOf(tree, subject)
		if err != nil {
			return err
		}
		videoID := ExtractVideoID(url)
		if videoID == "" {
			return fmt.Errorf("video url %q: %w", url, ErrInvalidURL)
		}
		if title == "" {
			title = fmt.Sprintf("Video %d", len(sub.Videos)+1)
		}
		added = model.VideoItem{
			ItemID:  uuid.New().String(),
			VideoID: videoID,
			Title:   title,
			URL:     url,
			AddedAt: time.Now().UTC(),
		}
		sub.Videos = append(sub.Videos, added)
		return nil
	})
	return added, err
}

// RemoveVideo deletes the item with the given stable ID, preserving the
// relative order of the rest.
func (s *Store) RemoveVideo(account, subject, itemID string) error {
	return s.Mutate(account, func(tree *model.ContentTree) error {
		sub, err := subjectOf(tree, subject)
		if err != nil {
			return err
		}
		for i := range sub.Videos {
			if sub.Videos[i].ItemID == itemID {
				sub.Videos = append(sub.Videos[:i], sub.Videos[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("video %s: %w", itemID, ErrNotFound)
	})
}

// SaveVideoPosition bookmarks the playback position, returning the total
// seconds that were stored.
func (s *Store) SaveVideoPosition(account, subject, itemID string, h, m, sec int) (int, error) {
	if h < 0 || m < 0 || sec < 0 {
		return 0, fmt.Errorf("%w: negative position", ErrInvalidInput)
	}
	total := PositionSeconds(h, m, sec)
	err := s.Mutate(account, func(tree *model.ContentTree) error {
		sub, err := subjectOf(tree, subject)
		if err != nil {
			return err
		}
		for i := range sub.Videos {
			if sub.Videos[i].ItemID == itemID {
				sub.Videos[i].LastPosition = total
				return nil
			}
		}
		return fmt.Errorf("video %s: %w", itemID, ErrNotFound)
	})
	return total, err
}
