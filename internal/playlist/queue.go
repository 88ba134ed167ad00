package playlist

// Queue wraps a Playlist with a playback cursor.
type Queue struct {
	playlist *Playlist
	current  int // -1 if nothing playing
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		playlist: New(),
		current:  -1,
	}
}

// Current returns the entry under the cursor, or nil if none.
func (q *Queue) Current() *Entry {
	if q.current < 0 || q.current >= q.playlist.Len() {
		return nil
	}
	return q.playlist.Entry(q.current)
}

// CurrentIndex returns the cursor position (-1 if none).
func (q *Queue) CurrentIndex() int {
	return q.current
}

// Next advances the cursor, wrapping from the last entry to the first.
// Returns nil on an empty queue.
func (q *Queue) Next() *Entry {
	if q.playlist.Len() == 0 {
		return nil
	}
	q.current = (q.current + 1) % q.playlist.Len()
	return q.Current()
}

// Previous moves the cursor back, wrapping from the first entry to the
// last. Returns nil on an empty queue.
func (q *Queue) Previous() *Entry {
	if q.playlist.Len() == 0 {
		return nil
	}
	q.current--
	if q.current < 0 {
		q.current = q.playlist.Len() - 1
	}
	return q.Current()
}

// JumpTo sets the cursor to the given position.
// Returns the entry there, or nil if the index is invalid.
func (q *Queue) JumpTo(index int) *Entry {
	if index < 0 || index >= q.playlist.Len() {
		return nil
	}
	q.current = index
	return q.Current()
}

// Replace clears the queue, adds entries, and sets the cursor to 0.
// Returns the first entry to play.
func (q *Queue) Replace(entries ...Entry) *Entry {
	q.playlist.Clear()
	q.current = -1
	if len(entries) == 0 {
		return nil
	}
	q.playlist.Add(entries...)
	q.current = 0
	return q.Current()
}

// Add appends entries without moving the cursor.
func (q *Queue) Add(entries ...Entry) {
	q.playlist.Add(entries...)
}

// RemoveAt removes the entry at the given index, adjusting the cursor.
func (q *Queue) RemoveAt(index int) bool {
	if !q.playlist.Remove(index) {
		return false
	}
	if q.current > index {
		q.current--
	} else if q.current == index && q.current >= q.playlist.Len() {
		q.current = q.playlist.Len() - 1
	}
	return true
}

// Entries returns all queued entries.
func (q *Queue) Entries() []Entry {
	return q.playlist.Entries()
}

// Len returns the number of queued entries.
func (q *Queue) Len() int {
	return q.playlist.Len()
}

// IsEmpty reports whether the queue has no entries.
func (q *Queue) IsEmpty() bool {
	return q.playlist.Len() == 0
}
