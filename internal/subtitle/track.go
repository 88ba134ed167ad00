// Package subtitle loads external subtitle files (SRT, ASS/SSA) and answers
// "what text is on screen at time T" queries for the players.
//
// A Track is populated either once from an external file found next to the
// media file, or incrementally from an embedded subtitle stream while it
// decodes. The two sources are never mixed within one playback session.
package subtitle

import (
	"sort"
	"sync"
	"time"
)

// Entry is a single timed subtitle cue. Text uses '\n' for line breaks and
// has all inline markup already stripped.
type Entry struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Track holds subtitle entries ordered by start time.
//
// The decode goroutine may insert live entries while the presentation loop
// queries the active text, so all access goes through the mutex.
type Track struct {
	mu      sync.RWMutex
	entries []Entry
}

// ActiveAt returns the text of the entry covering pos, or "" if no entry is
// active. The lookup is a binary search for the last entry whose start is at
// or before pos.
func (t *Track) ActiveAt(pos time.Duration) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.entries) == 0 {
		return ""
	}

	// First entry with Start > pos; the candidate is the one before it.
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Start > pos
	})
	if i == 0 {
		return ""
	}
	e := &t.entries[i-1]
	if pos < e.End {
		return e.Text
	}
	return ""
}

// AddLiveEntry inserts an entry decoded from an embedded subtitle stream.
// Raw text is cleaned first; entries that clean down to nothing are dropped.
// Packets arrive in near-monotonic PTS order, so the entry is placed at its
// sorted position instead of re-sorting the whole track.
func (t *Track) AddLiveEntry(start, end time.Duration, rawText string) {
	text := CleanText(rawText)
	if text == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Start >= start
	})
	t.entries = append(t.entries, Entry{})
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = Entry{Start: start, End: end, Text: text}
}

// Clear drops all entries. Used when an embedded-stream track goes stale
// after a seek; external-file tracks are never cleared.
func (t *Track) Clear() {
	t.mu.Lock()
	t.entries = t.entries[:0]
	t.mu.Unlock()
}

// Loaded reports whether the track has any entries.
func (t *Track) Loaded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries) > 0
}

// Len returns the number of entries.
func (t *Track) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Entries returns a copy of all entries in start order.
func (t *Track) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// sortEntries orders entries by start time. Bulk loaders call this because
// source order does not guarantee time order (ASS in particular).
func (t *Track) sortEntries() {
	sort.SliceStable(t.entries, func(i, j int) bool {
		return t.entries[i].Start < t.entries[j].Start
	})
}
