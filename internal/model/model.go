package model

import "time"

// Account is one registry entry in the identity store. Accounts are keyed by
// name; the name doubles as the directory name of the account's storage unit.
type Account struct {
	Name       string
	Credential string
	CreatedAt  time.Time
}

// Session is an authenticated browser session backed by a signed cookie.
type Session struct {
	ID        string
	Account   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ContentTree is the full persisted state of one account. The JSON field
// names are the snapshot wire format and must stay stable across releases.
type ContentTree struct {
	Subjects       map[string]*Subject `json:"subjects"`
	StudySessions  []SessionEvent      `json:"study_sessions"`
	TotalStudyTime float64             `json:"total_study_time"`
	LastLogin      time.Time           `json:"last_login"`
}

// NewContentTree returns the default empty tree for a fresh account.
func NewContentTree() *ContentTree {
	return &ContentTree{
		Subjects:      make(map[string]*Subject),
		StudySessions: []SessionEvent{},
		LastLogin:     time.Now().UTC(),
	}
}

// Subject groups videos, playlists and documents under one name. Names are
// unique within a tree; the contained slices keep insertion order.
type Subject struct {
	Videos    []VideoItem    `json:"videos"`
	Playlists []PlaylistItem `json:"playlists"`
	Documents []DocumentItem `json:"documents"`
	CreatedAt time.Time      `json:"created_at"`
}

// VideoItem is a bookmarked video. ItemID is the stable handle used to
// address the item across mutations; VideoID is the extracted external
// identifier and is not unique.
type VideoItem struct {
	ItemID       string    `json:"item_id"`
	VideoID      string    `json:"id"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Progress     int       `json:"progress"`
	LastPosition int       `json:"last_position"`
	AddedAt      time.Time `json:"added_at"`
}

// PlaylistItem is a bookmarked playlist. Index is the 1-based position of
// the video currently being watched within the playlist.
type PlaylistItem struct {
	ItemID       string    `json:"item_id"`
	PlaylistID   string    `json:"id"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Index        int       `json:"index"`
	Progress     int       `json:"progress"`
	LastPosition int       `json:"last_position"`
	AddedAt      time.Time `json:"added_at"`
}

// DocumentItem is an uploaded document. Filename is unique within its
// subject; Path is owned by the store and points at the backing file.
type DocumentItem struct {
	ItemID      string    `json:"item_id"`
	Filename    string    `json:"filename"`
	Path        string    `json:"path"`
	Progress    int       `json:"progress"`
	CurrentPage int       `json:"current_page"`
	TotalPages  int       `json:"total_pages"`
	AddedAt     time.Time `json:"added_at"`
}

// SessionEvent is one completed timed study interval. Events are append-only
// and never mutated; Duration is in seconds.
type SessionEvent struct {
	Date     time.Time `json:"date"`
	Duration float64   `json:"duration"`
}
