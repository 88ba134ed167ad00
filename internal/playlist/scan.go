package playlist

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Classifier maps file extensions to media kinds.
type Classifier struct {
	kinds map[string]Kind
}

// NewClassifier builds a classifier from extension lists given without the
// leading dot.
func NewClassifier(image, audio, video []string) *Classifier {
	c := &Classifier{kinds: make(map[string]Kind)}
	for _, ext := range image {
		c.kinds["."+strings.ToLower(ext)] = KindImage
	}
	for _, ext := range audio {
		c.kinds["."+strings.ToLower(ext)] = KindAudio
	}
	for _, ext := range video {
		c.kinds["."+strings.ToLower(ext)] = KindVideo
	}
	return c
}

// DefaultClassifier covers the extension sets used when no configuration
// overrides them.
func DefaultClassifier() *Classifier {
	return NewClassifier(
		[]string{"jpg", "jpeg", "png", "bmp", "gif", "webp", "tif", "tiff"},
		[]string{"mp3", "wav", "flac", "ogg", "aac", "ape", "m4a", "opus"},
		[]string{"mp4", "mkv", "avi", "mov", "webm", "flv", "mpeg", "mpg"},
	)
}

// Classify returns the media kind for a path, KindUnknown when the
// extension is not registered.
func (c *Classifier) Classify(path string) Kind {
	return c.kinds[strings.ToLower(filepath.Ext(path))]
}

// Collect expands the given paths into playlist entries. Directories are
// walked recursively; unknown extensions are skipped. Entries from each
// expanded directory are sorted in natural order; explicitly listed files
// keep their argument order.
func Collect(c *Classifier, paths ...string) ([]Entry, error) {
	var entries []Entry
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if kind := c.Classify(path); kind != KindUnknown {
				entries = append(entries, Entry{Path: path, Kind: kind})
			}
			continue
		}
		dir, err := collectDir(c, path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, dir...)
	}
	return entries, nil
}

func collectDir(c *Classifier, root string) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable files and directories are skipped, not fatal.
			return nil //nolint:nilerr
		}
		if d.IsDir() {
			return nil
		}
		if kind := c.Classify(path); kind != KindUnknown {
			entries = append(entries, Entry{Path: path, Kind: kind})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return naturalLess(entries[i].Path, entries[j].Path)
	})
	return entries, nil
}
