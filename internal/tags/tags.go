// Package tags reads display metadata from audio files.
package tags

import (
	"os"
	"path/filepath"

	"github.com/dhowden/tag"
)

// Tag is the display metadata for one audio file.
type Tag struct {
	Path        string
	Title       string
	Artist      string
	Album       string
	TrackNumber int
	Year        int
}

// Read reads tag metadata from an audio file. Files without readable tags
// yield a Tag with the filename as title rather than an error.
func Read(path string) *Tag {
	t := &Tag{
		Path:  path,
		Title: filepath.Base(path),
	}

	f, err := os.Open(path)
	if err != nil {
		return t
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return t
	}

	if title := m.Title(); title != "" {
		t.Title = title
	}
	t.Artist = m.Artist()
	t.Album = m.Album()
	t.TrackNumber, _ = m.Track()
	t.Year = m.Year()
	return t
}
