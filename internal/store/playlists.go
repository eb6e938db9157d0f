package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/YannKr/studyportal/internal/model"
)

// AddPlaylist extracts the playlist ID from the list= query parameter and
// appends a new item. The playback index starts at 1.
func (s *Store) AddPlaylist(account, subject, url, title string) (model.PlaylistItem, error) {
	var added model.PlaylistItem
	err := s.Mutate(account, func(tree *model.ContentTree) error {
		sub, err := subjectOf(tree, subject)
		if err != nil {
			return err
		}
		playlistID := ExtractPlaylistID(url)
		if playlistID == "" {
			return fmt.Errorf("playlist url %q: %w", url, ErrInvalidURL)
		}
		if title == "" {
			title = fmt.Sprintf("Playlist %d", len(sub.Playlists)+1)
		}
		added = model.PlaylistItem{
			ItemID:     uuid.New().String(),
			PlaylistID: playlistID,
			Title:      title,
			URL:        url,
			Index:      1,
			AddedAt:    time.Now().UTC(),
		}
		sub.Playlists = append(sub.Playlists, added)
		return nil
	})
	return added, err
}

func (s *Store) RemovePlaylist(account, subject, itemID string) error {
	return s.Mutate(account, func(tree *model.ContentTree) error {
		sub, err := subjectOf(tree, subject)
		if err != nil {
			return err
		}
		for i := range sub.Playlists {
			if sub.Playlists[i].ItemID == itemID {
				sub.Playlists = append(sub.Playlists[:i], sub.Playlists[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("playlist %s: %w", itemID, ErrNotFound)
	})
}

// SavePlaylistPosition bookmarks the video index within the playlist plus
// the position inside that video.
func (s *Store) SavePlaylistPosition(account, subject, itemID string, index, h, m, sec int) (int, error) {
	if index < 0 || h < 0 || m < 0 || sec < 0 {
		return 0, fmt.Errorf("%w: negative position", ErrInvalidInput)
	}
	total := PositionSeconds(h, m, sec)
	err := s.Mutate(account, func(tree *model.ContentTree) error {
		sub, err := subjectOf(tree, subject)
		if err != nil {
			return err
		}
		for i := range sub.Playlists {
			if sub.Playlists[i].ItemID == itemID {
				sub.Playlists[i].Index = index
				sub.Playlists[i].LastPosition = total
				return nil
			}
		}
		return fmt.Errorf("playlist %s: %w", itemID, ErrNotFound)
	})
	return total, err
}
