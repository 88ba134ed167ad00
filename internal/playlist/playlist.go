// Package playlist builds and navigates the ordered set of media files a
// session plays through.
package playlist

// Kind classifies a playlist entry by media type.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindAudio
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// Entry is a single playable file.
type Entry struct {
	Path string
	Kind Kind
}

// Playlist holds an ordered collection of entries.
type Playlist struct {
	entries []Entry
}

// New creates an empty playlist.
func New() *Playlist {
	return &Playlist{entries: make([]Entry, 0)}
}

// Add appends entries to the playlist.
func (p *Playlist) Add(entries ...Entry) {
	p.entries = append(p.entries, entries...)
}

// Remove removes the entry at the given index.
// Returns false if index is out of bounds.
func (p *Playlist) Remove(index int) bool {
	if index < 0 || index >= len(p.entries) {
		return false
	}
	p.entries = append(p.entries[:index], p.entries[index+1:]...)
	return true
}

// Clear removes all entries.
func (p *Playlist) Clear() {
	p.entries = p.entries[:0]
}

// Entries returns a copy of all entries.
func (p *Playlist) Entries() []Entry {
	result := make([]Entry, len(p.entries))
	copy(result, p.entries)
	return result
}

// Entry returns the entry at the given index, or nil if out of bounds.
func (p *Playlist) Entry(index int) *Entry {
	if index < 0 || index >= len(p.entries) {
		return nil
	}
	return &p.entries[index]
}

// Len returns the number of entries.
func (p *Playlist) Len() int {
	return len(p.entries)
}
