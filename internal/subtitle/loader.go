package subtitle

import (
	"os"
	"path/filepath"
	"strings"
)

// candidateExts lists external subtitle extensions in priority order.
var candidateExts = []string{".srt", ".ass", ".ssa"}

// LoadFile looks for an external subtitle file next to the media file by
// swapping its extension for .srt, .ass and .ssa in that order. The first
// existing file that parses successfully wins. Only the media file's own
// stem is tried; a parse failure moves on to the next extension, never to a
// different stem. Returns false when no candidate loads.
func LoadFile(mediaPath string) (*Track, bool) {
	ext := filepath.Ext(mediaPath)
	stem := strings.TrimSuffix(mediaPath, ext)

	t := &Track{}
	for _, se := range candidateExts {
		p := stem + se
		if _, err := os.Stat(p); err != nil {
			continue
		}
		var ok bool
		if se == ".srt" {
			ok = t.LoadSRT(p)
		} else {
			ok = t.LoadASS(p)
		}
		if ok {
			return t, true
		}
	}
	return t, false
}
