package store

import "regexp"

// The recognized URL shapes: watch pages, youtu.be short links, and embed
// URLs. Extraction is purely syntactic; nothing checks that the ID exists.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([^&\n?#]+)`),
}

var playlistIDPattern = regexp.MustCompile(`list=([^&\n?#]+)`)

// ExtractVideoID pulls the video identifier out of a URL, or "" when no
// recognized shape matches.
func ExtractVideoID(url string) string {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

// ExtractPlaylistID pulls the playlist identifier out of the list= query
// parameter, or "" when absent.
func ExtractPlaylistID(url string) string {
	if m := playlistIDPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// PositionSeconds converts an h/m/s bookmark into total seconds.
func PositionSeconds(h, m, sec int) int {
	return ((h*60)+m)*60 + sec
}
